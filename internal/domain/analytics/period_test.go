package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period    string
		want      string
		start     time.Time
		prevStart time.Time
	}{
		{"7d", "7d", time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{"30d", "30d", time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC), time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)},
		{"90d", "90d", time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC), time.Date(2025, 9, 16, 12, 0, 0, 0, time.UTC)},
		{"12m", "12m", time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC), time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)},
		{"", "30d", time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC), time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)},
		{"1y", "30d", time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC), time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			w := periodWindow(tt.period, now)
			assert.Equal(t, tt.want, w.Period)
			assert.Equal(t, now, w.End)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, tt.start, w.PrevEnd)
			assert.Equal(t, tt.prevStart, w.PrevStart)
		})
	}
}
