package applicant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDefaultDateRule(t *testing.T) {
	rule := DefaultDateRule()

	assert.Equal(t, date(2025, time.December, 1), rule.WindowMin)
	assert.Equal(t, date(2026, time.February, 28), rule.WindowMax)
	assert.Equal(t, 14, rule.MinDays)
}

func TestDateRuleValidate(t *testing.T) {
	rule := DefaultDateRule()

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{
			name:    "duration below minimum",
			start:   date(2025, time.December, 1),
			end:     date(2025, time.December, 10),
			wantErr: ErrDurationTooShort,
		},
		{
			name:  "exactly minimum duration",
			start: date(2025, time.December, 1),
			end:   date(2025, time.December, 15),
		},
		{
			name:    "outside admissible window",
			start:   date(2026, time.March, 1),
			end:     date(2026, time.March, 20),
			wantErr: ErrStartOutsideWindow,
		},
		{
			name:    "start after end",
			start:   date(2025, time.December, 20),
			end:     date(2025, time.December, 10),
			wantErr: ErrStartNotBeforeEnd,
		},
		{
			name:    "start equals end",
			start:   date(2025, time.December, 10),
			end:     date(2025, time.December, 10),
			wantErr: ErrStartNotBeforeEnd,
		},
		{
			name:    "end past window max",
			start:   date(2026, time.February, 1),
			end:     date(2026, time.March, 5),
			wantErr: ErrEndOutsideWindow,
		},
		{
			name:  "full window span",
			start: date(2025, time.December, 1),
			end:   date(2026, time.February, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(tt.start, tt.end)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDateRuleValidateNormalizesTimeOfDay(t *testing.T) {
	rule := DefaultDateRule()

	// 14 days apart on the calendar even though the clock times differ.
	start := time.Date(2025, time.December, 1, 23, 30, 0, 0, time.UTC)
	end := time.Date(2025, time.December, 15, 1, 15, 0, 0, time.UTC)

	assert.NoError(t, rule.Validate(start, end))
}
