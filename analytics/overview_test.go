package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/formhive/formhive/model"
)

func TestBuildOverviewTotals(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	period, _ := ParsePeriod("30d")

	forms := []model.Form{
		{ID: 1, Views: 200, Submissions: 40},
		{ID: 2, Views: 100, Submissions: 20},
	}

	o := BuildOverview(forms, nil, period, now)

	assert.Equal(t, 2, o.TotalForms)
	assert.Equal(t, 300, o.TotalViews)
	assert.Equal(t, 60, o.TotalResponses)
	assert.InDelta(t, 20.0, o.AvgCompletionRate, 1e-9)
}

func TestBuildOverviewZeroViews(t *testing.T) {
	period, _ := ParsePeriod("7d")
	o := BuildOverview([]model.Form{{ID: 1}}, nil, period, time.Now())
	assert.Zero(t, o.AvgCompletionRate, "guarded division")
}

func TestBuildOverviewPeriodWindows(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	period, _ := ParsePeriod("7d")

	responses := []model.FormResponse{
		// current window: now-7d .. now
		submittedAt(time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)),
		submittedAt(time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC)),
		// previous window: now-14d .. now-7d
		submittedAt(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)),
		// before both windows: ignored
		submittedAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	o := BuildOverview(nil, responses, period, now)

	assert.Equal(t, 2, o.CurrentPeriodResponses)
	assert.Equal(t, 1, o.PreviousPeriodResponses)
	assert.InDelta(t, 100.0, o.ResponseGrowth, 1e-9)
}

func TestGrowthConventions(t *testing.T) {
	assert.InDelta(t, -50.0, growth(1, 2), 1e-9)
	assert.InDelta(t, 100.0, growth(3, 0), 1e-9, "no baseline clamps to flat 100")
	assert.Zero(t, growth(0, 0))
	assert.InDelta(t, -100.0, growth(0, 4), 1e-9)
}

func TestBuildOverviewAllTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	period, _ := ParsePeriod("all")

	responses := []model.FormResponse{
		submittedAt(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
		submittedAt(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	o := BuildOverview(nil, responses, period, now)

	assert.Equal(t, 2, o.CurrentPeriodResponses)
	assert.Zero(t, o.PreviousPeriodResponses, "no prior window exists")
	assert.Zero(t, o.ResponseGrowth, "growth is 0 by convention for all-time")
}

func TestBuildOverviewIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	period, _ := ParsePeriod("90d")
	forms := []model.Form{{ID: 1, Views: 10, Submissions: 3}}
	responses := []model.FormResponse{
		submittedAt(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	assert.Equal(t,
		BuildOverview(forms, responses, period, now),
		BuildOverview(forms, responses, period, now),
	)
}
