package analytics

import (
	"time"

	"github.com/formhive/formhive/model"
)

// Overview aggregates cross-form totals and period-over-period growth.
//
// TotalViews and TotalResponses sum the forms' lifetime counters, which are
// authoritative and never recomputed from response rows; the period-filtered
// counts below come from the rows and feed only the growth comparison.
type Overview struct {
	TotalForms              int     `json:"totalForms"`
	TotalViews              int     `json:"totalViews"`
	TotalResponses          int     `json:"totalResponses"`
	AvgCompletionRate       float64 `json:"avgCompletionRate"`
	CurrentPeriodResponses  int     `json:"currentPeriodResponses"`
	PreviousPeriodResponses int     `json:"previousPeriodResponses"`
	ResponseGrowth          float64 `json:"responseGrowth"`
}

func BuildOverview(forms []model.Form, responses []model.FormResponse, period Period, now time.Time) Overview {
	o := Overview{TotalForms: len(forms)}
	for _, f := range forms {
		o.TotalViews += f.Views
		o.TotalResponses += f.Submissions
	}
	o.AvgCompletionRate = percentage(o.TotalResponses, o.TotalViews)

	if period.AllTime() {
		// no prior window exists: growth is 0 by convention, not computed
		o.CurrentPeriodResponses = len(responses)
		return o
	}

	start := period.Start(now)
	prevStart := start.AddDate(0, 0, -period.Days)
	for _, r := range responses {
		switch {
		case !r.SubmittedAt.Before(start):
			o.CurrentPeriodResponses++
		case !r.SubmittedAt.Before(prevStart):
			o.PreviousPeriodResponses++
		}
	}

	o.ResponseGrowth = growth(o.CurrentPeriodResponses, o.PreviousPeriodResponses)
	return o
}

// growth clamps the no-baseline case to a flat 100% instead of letting the
// ratio blow up.
func growth(current, previous int) float64 {
	switch {
	case previous > 0:
		return float64(current-previous) / float64(previous) * 100
	case current > 0:
		return 100
	default:
		return 0
	}
}
