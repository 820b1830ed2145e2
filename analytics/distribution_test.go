package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/formhive/formhive/model"
)

func responsesFor(fieldID string, values ...any) []model.FormResponse {
	responses := make([]model.FormResponse, len(values))
	for i, v := range values {
		responses[i] = model.FormResponse{Data: map[string]any{fieldID: v}}
	}
	return responses
}

func TestAnalyzeFieldSkipRate(t *testing.T) {
	field := Field{ID: "f", Type: model.FieldText}
	responses := responsesFor("f", "a", "", nil, "b")

	d := AnalyzeField(responses, field)

	assert.Equal(t, 4, d.TotalResponses)
	assert.Equal(t, 2, d.AnsweredCount)
	assert.InDelta(t, 50.0, d.SkipRate, 1e-9)
}

func TestAnalyzeFieldNoResponses(t *testing.T) {
	for _, ft := range []model.FieldType{
		model.FieldMultipleChoice, model.FieldRating, model.FieldText,
		model.FieldLongText, model.FieldEmail, model.FieldCheckbox,
	} {
		d := AnalyzeField(nil, Field{ID: "f", Type: ft})
		assert.Zero(t, d.TotalResponses, "type %s", ft)
		assert.Zero(t, d.SkipRate, "type %s", ft)
		assert.Zero(t, d.AvgRating, "type %s", ft)
	}
}

func TestMultipleChoiceDistribution(t *testing.T) {
	field := Field{ID: "f", Type: model.FieldMultipleChoice}
	responses := responsesFor("f", "red", "blue", "red", "red", "green")

	d := AnalyzeField(responses, field)

	require.Len(t, d.Options, 3)
	assert.Equal(t, OptionCount{Value: "red", Count: 3, Percentage: 60}, d.Options[0])
	assert.Equal(t, "blue", d.Options[1].Value)
	assert.Equal(t, "green", d.Options[2].Value)
}

func TestMultipleChoiceMultiSelectCoercion(t *testing.T) {
	field := Field{ID: "f", Type: model.FieldMultipleChoice}
	responses := responsesFor("f", []any{"a", "b"}, []any{"a", "b"}, "a")

	d := AnalyzeField(responses, field)

	require.Len(t, d.Options, 2)
	assert.Equal(t, "a,b", d.Options[0].Value)
	assert.Equal(t, 2, d.Options[0].Count)
}

func TestMultipleChoicePercentagesSumTo100(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "d"}), 1, 50).Draw(t, "values")

		answers := make([]any, len(values))
		for i, v := range values {
			answers[i] = v
		}
		d := AnalyzeField(responsesFor("f", answers...), Field{ID: "f", Type: model.FieldMultipleChoice})

		sum := 0.0
		for _, o := range d.Options {
			sum += o.Percentage
		}
		if sum < 100-1e-6 || sum > 100+1e-6 {
			t.Fatalf("percentages sum to %v, want 100", sum)
		}
	})
}

func TestRatingDistribution(t *testing.T) {
	field := Field{ID: "f", Type: model.FieldRating}
	// 7 is out of range: dropped from both the buckets and the mean
	responses := responsesFor("f", 5.0, 5.0, 3.0, 1.0, 7.0)

	d := AnalyzeField(responses, field)

	assert.Equal(t, 5, d.AnsweredCount)
	assert.InDelta(t, 3.5, d.AvgRating, 1e-9)

	require.Len(t, d.Buckets, 5)
	counts := map[int]int{}
	for i, b := range d.Buckets {
		assert.Equal(t, i+1, b.Rating, "buckets ordered ascending")
		counts[b.Rating] = b.Count
	}
	assert.Equal(t, map[int]int{1: 1, 2: 0, 3: 1, 4: 0, 5: 2}, counts)
}

func TestRatingAllInvalid(t *testing.T) {
	field := Field{ID: "f", Type: model.FieldRating}
	d := AnalyzeField(responsesFor("f", 0.0, 9.0, "n/a"), field)

	assert.Zero(t, d.AvgRating)
	for _, b := range d.Buckets {
		assert.Zero(t, b.Count)
		assert.Zero(t, b.Percentage)
	}
}

func TestTextDistributionTopAnswers(t *testing.T) {
	field := Field{ID: "f", Type: model.FieldShortText}
	answers := []any{"yes ", "yes", " no", "maybe"}
	for i := 0; i < 12; i++ {
		answers = append(answers, fmt.Sprintf("unique-%d", i))
	}

	d := AnalyzeField(responsesFor("f", answers...), field)

	assert.Len(t, d.TopAnswers, 10)
	assert.Equal(t, 15, d.UniqueAnswers, "trimmed duplicates collapse")
	assert.Equal(t, "yes", d.TopAnswers[0].Value)
	assert.Equal(t, 2, d.TopAnswers[0].Count)
}

func TestLongTextWordCloud(t *testing.T) {
	field := Field{ID: "f", Type: model.FieldLongText}
	responses := responsesFor("f", "The quick brown fox", "quick quick fox")

	d := AnalyzeField(responses, field)

	words := map[string]int{}
	for _, w := range d.Words {
		words[w.Word] = w.Count
	}
	assert.Equal(t, 3, words["quick"])
	assert.Equal(t, 1, words["brown"])
	// strictly more than 3 characters: "fox" and "the" are excluded
	assert.NotContains(t, words, "fox")
	assert.NotContains(t, words, "the")

	assert.Equal(t, 2, d.UniqueAnswers, "longText reports answer count, not distinct count")
}

func TestLongTextStripsPunctuation(t *testing.T) {
	field := Field{ID: "f", Type: model.FieldLongText}
	d := AnalyzeField(responsesFor("f", "Great, really great!"), field)

	words := map[string]int{}
	for _, w := range d.Words {
		words[w.Word] = w.Count
	}
	assert.Equal(t, 2, words["great"])
	assert.Equal(t, 1, words["really"])
}

func TestEmailDistribution(t *testing.T) {
	field := Field{ID: "f", Type: model.FieldEmail}
	responses := responsesFor("f", "A@x.com", "a@x.com", "b@x.com")

	d := AnalyzeField(responses, field)

	assert.Equal(t, 2, d.UniqueAnswers)
	assert.Empty(t, d.TopAnswers)
}

func TestUnknownFieldTypeReturnsRawAnswers(t *testing.T) {
	field := Field{ID: "f", Type: model.FieldCheckbox}
	answers := make([]any, 150)
	for i := range answers {
		answers[i] = true
	}

	d := AnalyzeField(responsesFor("f", answers...), field)

	assert.Len(t, d.RawAnswers, 100)
}

func TestAnalyzeFieldIdempotent(t *testing.T) {
	field := Field{ID: "f", Type: model.FieldMultipleChoice}
	responses := responsesFor("f", "a", "b", "a", "c", "b", "a")

	first := AnalyzeField(responses, field)
	second := AnalyzeField(responses, field)

	assert.Equal(t, first, second)
}
