package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/formhive/formhive/model"
)

func TestExtractFieldsSkipsDecorativeElements(t *testing.T) {
	elements := []model.Element{
		{ID: "t1", Type: model.ElementText, Label: "Welcome"},
		{ID: "f1", Type: model.ElementField, FieldType: model.FieldText, Label: "Name"},
		{ID: "i1", Type: model.ElementImage},
		{ID: "f2", Type: model.ElementField, FieldType: model.FieldEmail, Label: "Email"},
		{ID: "b1", Type: model.ElementButton, Label: "Submit"},
	}

	fields := ExtractFields(elements)

	assert.Len(t, fields, 2)
	assert.Equal(t, "f1", fields[0].ID)
	assert.Equal(t, 1, fields[0].Position)
	assert.Equal(t, "f2", fields[1].ID)
	assert.Equal(t, 2, fields[1].Position)
}

func TestExtractFieldsLabelFallback(t *testing.T) {
	elements := []model.Element{
		{ID: "a", Type: model.ElementField, Label: "Label", Placeholder: "Placeholder"},
		{ID: "b", Type: model.ElementField, Placeholder: "Placeholder"},
		{ID: "c", Type: model.ElementField},
	}

	fields := ExtractFields(elements)

	assert.Equal(t, "Label", fields[0].Label)
	assert.Equal(t, "Placeholder", fields[1].Label)
	assert.Equal(t, "Untitled Field", fields[2].Label)
}

func TestExtractFieldsEmpty(t *testing.T) {
	assert.Empty(t, ExtractFields(nil))
	assert.Empty(t, ExtractFields([]model.Element{{Type: model.ElementText}}))
}

func TestIsAnswered(t *testing.T) {
	// only nil and the empty string are unanswered
	assert.False(t, IsAnswered(nil))
	assert.False(t, IsAnswered(""))

	assert.True(t, IsAnswered(0))
	assert.True(t, IsAnswered(0.0))
	assert.True(t, IsAnswered(false))
	assert.True(t, IsAnswered("no"))
	assert.True(t, IsAnswered([]any{}))
}

func TestAnswers(t *testing.T) {
	responses := []model.FormResponse{
		{Data: map[string]any{"f1": "yes"}},
		{Data: map[string]any{"f1": ""}},
		{Data: map[string]any{"f1": nil}},
		{Data: map[string]any{}},
		{Data: map[string]any{"f1": false}},
	}

	assert.Equal(t, []any{"yes", false}, Answers(responses, "f1"))
	assert.Empty(t, Answers(responses, "f2"))
}
