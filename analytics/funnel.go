package analytics

import (
	"sort"

	"github.com/formhive/formhive/model"
)

// dropoff above this rate flags a step for the needs-attention summary
const dropoffThreshold = 20.0

type FunnelStep struct {
	FieldID        string  `json:"fieldId"`
	Label          string  `json:"label"`
	Position       int     `json:"position"`
	Reached        int     `json:"reached"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
	DropoffRate    float64 `json:"dropoffRate"`
}

// BuildFunnel computes per-field reach/completion statistics over the field
// schema's order. Completed counts direct answers. Reached additionally
// counts responses that skipped the field but answered any later one — an
// approximation: no per-field view telemetry exists, so "they got further"
// is the only available evidence that a respondent passed through a field.
func BuildFunnel(fields []Field, responses []model.FormResponse) []FunnelStep {
	steps := make([]FunnelStep, len(fields))
	for i, f := range fields {
		steps[i] = FunnelStep{FieldID: f.ID, Label: f.Label, Position: f.Position}
	}

	answered := make([]bool, len(fields))
	for _, resp := range responses {
		for i, f := range fields {
			answered[i] = IsAnswered(resp.Data[f.ID])
		}

		// suffix scan: anyLater tracks whether a field after i was answered
		anyLater := false
		for i := len(fields) - 1; i >= 0; i-- {
			switch {
			case answered[i]:
				steps[i].Completed++
				steps[i].Reached++
			case anyLater:
				steps[i].Reached++
			}
			anyLater = anyLater || answered[i]
		}
	}

	for i := range steps {
		steps[i].CompletionRate = percentage(steps[i].Completed, steps[i].Reached)
		steps[i].DropoffRate = 100 - steps[i].CompletionRate
	}
	return steps
}

// NeedsAttention picks the steps losing the most respondents: dropoff above
// 20%, worst first, at most five.
func NeedsAttention(steps []FunnelStep) []FunnelStep {
	flagged := []FunnelStep{}
	for _, s := range steps {
		if s.DropoffRate > dropoffThreshold {
			flagged = append(flagged, s)
		}
	}
	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].DropoffRate != flagged[j].DropoffRate {
			return flagged[i].DropoffRate > flagged[j].DropoffRate
		}
		return flagged[i].Position < flagged[j].Position
	})
	if len(flagged) > 5 {
		flagged = flagged[:5]
	}
	return flagged
}

// ConversionRate relates period-independent lifetime views to the number of
// responses under scrutiny. The denominator is the form's lifetime view
// counter, never a period-filtered count.
func ConversionRate(totalResponses, views int) float64 {
	return percentage(totalResponses, views)
}
