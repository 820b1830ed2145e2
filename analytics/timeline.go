package analytics

import (
	"time"

	"github.com/formhive/formhive/model"
)

const dayFormat = "2006-01-02"

type TimelineBucket struct {
	Date      string `json:"date"`
	Responses int    `json:"responses"`
}

// BuildTimeline buckets responses by UTC calendar day over the requested
// window and zero-fills days with no submissions, producing a gap-free
// ascending series from the window start through today.
//
// For all-time the window starts at the earliest submission instead of the
// epoch; with no responses at all the series is empty.
func BuildTimeline(responses []model.FormResponse, period Period, now time.Time) []TimelineBucket {
	var start time.Time
	if period.AllTime() {
		if len(responses) == 0 {
			return []TimelineBucket{}
		}
		earliest := responses[0].SubmittedAt
		for _, r := range responses[1:] {
			if r.SubmittedAt.Before(earliest) {
				earliest = r.SubmittedAt
			}
		}
		start = earliest
	} else {
		start = period.Start(now)
	}

	counts := map[string]int{}
	for _, r := range responses {
		if r.SubmittedAt.Before(start) {
			continue
		}
		counts[r.SubmittedAt.UTC().Format(dayFormat)]++
	}

	series := []TimelineBucket{}
	end := utcDay(now)
	for day := utcDay(start); !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayFormat)
		series = append(series, TimelineBucket{Date: key, Responses: counts[key]})
	}
	return series
}

func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
