package analytics

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/formhive/formhive/model"
)

const (
	ratingMin     = 1
	ratingMax     = 5
	topTextLimit  = 10
	topWordLimit  = 30
	rawCapDefault = 100
	minWordLen    = 4 // strictly more than 3 characters
)

type OptionCount struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type RatingBucket struct {
	Rating     int     `json:"rating"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Distribution is the type-specific breakdown of one field's answers.
// Exactly one of the per-type payloads is populated, depending on FieldType.
type Distribution struct {
	FieldID        string          `json:"fieldId"`
	FieldLabel     string          `json:"fieldLabel"`
	FieldType      model.FieldType `json:"fieldType"`
	TotalResponses int             `json:"totalResponses"`
	AnsweredCount  int             `json:"answeredCount"`
	SkipRate       float64         `json:"skipRate"`

	Options       []OptionCount  `json:"options,omitempty"`
	Buckets       []RatingBucket `json:"buckets,omitempty"`
	AvgRating     float64        `json:"avgRating,omitempty"`
	TopAnswers    []OptionCount  `json:"topAnswers,omitempty"`
	Words         []WordCount    `json:"words,omitempty"`
	UniqueAnswers int            `json:"uniqueAnswers,omitempty"`
	RawAnswers    []any          `json:"rawAnswers,omitempty"`
}

// AnalyzeField computes the distribution of answers for one field. A field
// with zero answers yields zero-valued statistics, never an error.
func AnalyzeField(responses []model.FormResponse, field Field) Distribution {
	answers := Answers(responses, field.ID)

	d := Distribution{
		FieldID:        field.ID,
		FieldLabel:     field.Label,
		FieldType:      field.Type,
		TotalResponses: len(responses),
		AnsweredCount:  len(answers),
		SkipRate:       percentage(len(responses)-len(answers), len(responses)),
	}

	switch field.Type {
	case model.FieldMultipleChoice:
		d.Options = countChoices(answers)
	case model.FieldRating:
		d.Buckets, d.AvgRating = bucketRatings(answers)
	case model.FieldText, model.FieldShortText:
		d.TopAnswers, d.UniqueAnswers = topAnswers(answers)
	case model.FieldLongText:
		d.Words = wordCloud(answers)
		d.UniqueAnswers = len(answers)
	case model.FieldEmail:
		d.UniqueAnswers = distinctEmails(answers)
	default:
		if len(answers) > rawCapDefault {
			answers = answers[:rawCapDefault]
		}
		d.RawAnswers = answers
	}
	return d
}

func countChoices(answers []any) []OptionCount {
	counts := map[string]int{}
	for _, a := range answers {
		counts[stringValue(a)]++
	}

	options := make([]OptionCount, 0, len(counts))
	for value, count := range counts {
		options = append(options, OptionCount{
			Value:      value,
			Count:      count,
			Percentage: percentage(count, len(answers)),
		})
	}
	sortByCount(options)
	return options
}

// bucketRatings histograms answers into the 1..5 range. Values outside the
// range, and values that do not coerce to an integer, are dropped from both
// the buckets and the mean.
func bucketRatings(answers []any) ([]RatingBucket, float64) {
	counts := map[int]int{}
	sum, valid := 0, 0
	for _, a := range answers {
		r, ok := intValue(a)
		if !ok || r < ratingMin || r > ratingMax {
			continue
		}
		counts[r]++
		sum += r
		valid++
	}

	buckets := make([]RatingBucket, 0, ratingMax)
	for r := ratingMin; r <= ratingMax; r++ {
		buckets = append(buckets, RatingBucket{
			Rating:     r,
			Count:      counts[r],
			Percentage: percentage(counts[r], valid),
		})
	}

	avg := 0.0
	if valid > 0 {
		avg = float64(sum) / float64(valid)
	}
	return buckets, avg
}

func topAnswers(answers []any) (top []OptionCount, distinct int) {
	counts := map[string]int{}
	for _, a := range answers {
		counts[strings.TrimSpace(stringValue(a))]++
	}

	top = make([]OptionCount, 0, len(counts))
	for value, count := range counts {
		top = append(top, OptionCount{
			Value:      value,
			Count:      count,
			Percentage: percentage(count, len(answers)),
		})
	}
	sortByCount(top)

	distinct = len(top)
	if len(top) > topTextLimit {
		top = top[:topTextLimit]
	}
	return top, distinct
}

var nonWord = regexp.MustCompile(`\W+`)

// wordCloud counts token frequency across all long-text answers. Tokens are
// lowercased, stripped of non-word characters, and kept only when strictly
// longer than 3 characters.
func wordCloud(answers []any) []WordCount {
	counts := map[string]int{}
	for _, a := range answers {
		text := strings.ToLower(stringValue(a))
		for _, token := range strings.Fields(text) {
			token = nonWord.ReplaceAllString(token, "")
			if len(token) < minWordLen {
				continue
			}
			counts[token]++
		}
	}

	words := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		words = append(words, WordCount{Word: word, Count: count})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})

	if len(words) > topWordLimit {
		words = words[:topWordLimit]
	}
	return words
}

func distinctEmails(answers []any) int {
	seen := map[string]struct{}{}
	for _, a := range answers {
		seen[strings.ToLower(stringValue(a))] = struct{}{}
	}
	return len(seen)
}

// sortByCount orders descending by count; ties break on value so repeated
// runs over the same snapshot produce identical output.
func sortByCount(options []OptionCount) {
	sort.Slice(options, func(i, j int) bool {
		if options[i].Count != options[j].Count {
			return options[i].Count > options[j].Count
		}
		return options[i].Value < options[j].Value
	})
}

// stringValue coerces an answer to its grouping key. Multi-select answers
// arrive as arrays and collapse to a comma-joined key.
func stringValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = stringValue(item)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(v, ",")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func intValue(v any) (int, bool) {
	switch v := v.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}
