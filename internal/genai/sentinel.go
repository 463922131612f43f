package genai

import (
	"strings"
)

// Sentinel tokens the interviewer persona is instructed to emit as the
// first thing in a reply when it wants to signal out-of-band control.
const (
	// BanSentinel terminates the interview and bans the applicant.
	BanSentinel = "BAN_USER"
	// EndSentinel ends the session early and runs the completion path.
	EndSentinel = "END_SESSION"
)

// ReplyKind tags a classified collaborator reply.
type ReplyKind int

const (
	// ReplyMessage is an ordinary interviewer turn.
	ReplyMessage ReplyKind = iota
	// ReplyBan carries the ban sentinel.
	ReplyBan
	// ReplyEnd carries the end-session sentinel.
	ReplyEnd
)

// String returns the reply kind name for logging.
func (k ReplyKind) String() string {
	switch k {
	case ReplyBan:
		return "ban"
	case ReplyEnd:
		return "end"
	default:
		return "message"
	}
}

// ClassifyReply inspects a collaborator reply for sentinel control
// signals. Sentinels are matched as prefixes only, after stripping the
// quote and markdown noise models wrap replies in. A sentinel quoted
// mid-reply is NOT a control signal; matching bare substring containment
// anywhere in the text would misfire on legitimate answers that merely
// mention the token.
func ClassifyReply(text string) ReplyKind {
	head := strings.TrimLeft(text, " \t\r\n\"'`*#")
	switch {
	case strings.HasPrefix(head, BanSentinel):
		return ReplyBan
	case strings.HasPrefix(head, EndSentinel):
		return ReplyEnd
	default:
		return ReplyMessage
	}
}
