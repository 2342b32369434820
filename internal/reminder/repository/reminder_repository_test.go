package repository

import (
	"testing"
	"time"
)

func TestNextDueAdvancesByWholeIntervals(t *testing.T) {
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		current         time.Time
		intervalMinutes int
		now             time.Time
		want            time.Time
	}{
		{
			name:            "one interval",
			current:         base,
			intervalMinutes: 60,
			now:             base.Add(10 * time.Minute),
			want:            base.Add(time.Hour),
		},
		{
			name:            "missed intervals collapse into one advance",
			current:         base,
			intervalMinutes: 60,
			now:             base.Add(5*time.Hour + 30*time.Minute),
			want:            base.Add(6 * time.Hour),
		},
		{
			name:            "exactly due advances a full interval",
			current:         base,
			intervalMinutes: 60,
			now:             base,
			want:            base.Add(time.Hour),
		},
		{
			name:            "zero interval falls back to a minute",
			current:         base,
			intervalMinutes: 0,
			now:             base,
			want:            base.Add(time.Minute),
		},
		{
			name:            "negative interval falls back to a minute",
			current:         base,
			intervalMinutes: -5,
			now:             base.Add(90 * time.Second),
			want:            base.Add(2 * time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextDue(tt.current, tt.intervalMinutes, tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("nextDue = %v, want %v", got, tt.want)
			}
			if !got.After(tt.now) {
				t.Errorf("nextDue = %v is not after now %v", got, tt.now)
			}
		})
	}
}
