package analytics

import (
	"fmt"
	"time"
)

// Period is a rolling submission-time window. Days is 0 for all-time.
type Period struct {
	Key  string
	Days int
}

func ParsePeriod(s string) (Period, error) {
	switch s {
	case "7d":
		return Period{Key: "7d", Days: 7}, nil
	case "", "30d":
		return Period{Key: "30d", Days: 30}, nil
	case "90d":
		return Period{Key: "90d", Days: 90}, nil
	case "all":
		return Period{Key: "all"}, nil
	}
	return Period{}, fmt.Errorf("invalid period %q: want 7d, 30d, 90d or all", s)
}

func (p Period) AllTime() bool {
	return p.Days == 0
}

// Start returns the inclusive lower bound of the window ending at now.
// For all-time the zero time is returned, which precedes any submission.
func (p Period) Start(now time.Time) time.Time {
	if p.AllTime() {
		return time.Time{}
	}
	return now.AddDate(0, 0, -p.Days)
}

// percentage guards every rate computation in the engine: a zero denominator
// yields 0, never NaN or Inf.
func percentage(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}
