package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyReply(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ReplyKind
	}{
		{"plain message", "That sounds like a solid idea. What technologies do you plan to use?", ReplyMessage},
		{"ban prefix", "BAN_USER: policy violation detected", ReplyBan},
		{"end prefix", "END_SESSION", ReplyEnd},
		{"ban after whitespace", "  \nBAN_USER", ReplyBan},
		{"ban after quote noise", `"BAN_USER" - the student pasted content`, ReplyBan},
		{"ban in markdown bold", "**BAN_USER** detected", ReplyBan},
		{"sentinel quoted mid-reply is not a signal", `If you paste text I must reply with "BAN_USER", so please type your own words.`, ReplyMessage},
		{"end sentinel mid-reply is not a signal", "Saying gibberish triggers END_SESSION on my side.", ReplyMessage},
		{"empty reply", "", ReplyMessage},
		{"fallback text", GenerateFallback, ReplyMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyReply(tt.text))
		})
	}
}

func TestReplyKindString(t *testing.T) {
	assert.Equal(t, "ban", ReplyBan.String())
	assert.Equal(t, "end", ReplyEnd.String())
	assert.Equal(t, "message", ReplyMessage.String())
}
