package analytics

import (
	"github.com/formhive/formhive/model"
)

const untitledField = "Untitled Field"

// Field is one input-capable element of a form, in funnel order.
type Field struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Type     model.FieldType `json:"type"`
	Position int             `json:"position"`
}

// ExtractFields isolates the input-capable elements of a form, skipping
// decorative text/button/image elements. Element order is preserved and
// Position is the 1-based rank within the extracted schema.
func ExtractFields(elements []model.Element) []Field {
	fields := []Field{}
	for _, el := range elements {
		if !el.IsField() {
			continue
		}

		label := el.Label
		if label == "" {
			label = el.Placeholder
		}
		if label == "" {
			label = untitledField
		}

		fields = append(fields, Field{
			ID:       el.ID,
			Label:    label,
			Type:     el.FieldType,
			Position: len(fields) + 1,
		})
	}
	return fields
}

// IsAnswered is the single predicate deciding whether a submitted value
// counts as an answer. Only a missing key, an explicit null and the empty
// string are unanswered; false and 0 are answers.
func IsAnswered(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

// Answers collects the answered values for one field across all responses.
func Answers(responses []model.FormResponse, fieldID string) []any {
	answers := []any{}
	for _, resp := range responses {
		if v := resp.Data[fieldID]; IsAnswered(v) {
			answers = append(answers, v)
		}
	}
	return answers
}
