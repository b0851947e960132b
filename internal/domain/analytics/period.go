// internal/domain/analytics/period.go
package analytics

import "time"

const defaultPeriod = "30d"

// Window is a reporting period and the equally long period before it
type Window struct {
	Period    string
	Start     time.Time
	End       time.Time
	PrevStart time.Time
	PrevEnd   time.Time
}

// periodWindow resolves 7d, 30d, 90d or 12m ending at now. Anything else
// falls back to 30d.
func periodWindow(period string, now time.Time) Window {
	w := Window{Period: period, End: now}

	switch period {
	case "7d":
		w.Start = now.AddDate(0, 0, -7)
		w.PrevStart = w.Start.AddDate(0, 0, -7)
	case "90d":
		w.Start = now.AddDate(0, 0, -90)
		w.PrevStart = w.Start.AddDate(0, 0, -90)
	case "12m":
		w.Start = now.AddDate(0, -12, 0)
		w.PrevStart = w.Start.AddDate(0, -12, 0)
	default:
		w.Period = defaultPeriod
		w.Start = now.AddDate(0, 0, -30)
		w.PrevStart = w.Start.AddDate(0, 0, -30)
	}

	w.PrevEnd = w.Start
	return w
}
