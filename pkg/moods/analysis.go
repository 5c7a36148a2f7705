package moods

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAnalysis = errors.New("invalid reflection analysis")
)

// Analysis is the structured reading of a journal entry produced by an
// external text model: {"sentiment", "tags", "reflection", "insight"}.
type Analysis struct {
	Sentiment  Sentiment `json:"sentiment"`
	Tags       []string  `json:"tags"`
	Reflection string    `json:"reflection"`
	Insight    string    `json:"insight"`
}

// ParseAnalysis decodes a model response. Markdown code fences around the
// JSON are tolerated since models add them despite being told not to.
func ParseAnalysis(raw string) (Analysis, error) {
	body := stripCodeFence(strings.TrimSpace(raw))
	if body == "" {
		return Analysis{}, fmt.Errorf("%w: empty document", ErrInvalidAnalysis)
	}

	var doc struct {
		Sentiment  string   `json:"sentiment"`
		Tags       []string `json:"tags"`
		Reflection string   `json:"reflection"`
		Insight    string   `json:"insight"`
	}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}

	sentiment, err := ParseSentiment(doc.Sentiment)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: unknown sentiment %q", ErrInvalidAnalysis, doc.Sentiment)
	}

	return Analysis{
		Sentiment:  sentiment,
		Tags:       NormalizeTags(doc.Tags),
		Reflection: strings.TrimSpace(doc.Reflection),
		Insight:    strings.TrimSpace(doc.Insight),
	}, nil
}

// LogInput converts the analysis into a mood log with the given value.
// An explicit note wins over the model's reflection.
func (a Analysis) LogInput(value int, note string) LogInput {
	if strings.TrimSpace(note) == "" {
		note = a.Reflection
	}
	return LogInput{
		Value:     value,
		Sentiment: a.Sentiment,
		Tags:      a.Tags,
		Note:      note,
	}
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the info string, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
