package inference

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client is the language model behind word explanations and word validation.
type Client interface {
	ExplainWord(ctx context.Context, params ExplainWordRequest) (ExplainWordResponse, error)
	ValidateWord(ctx context.Context, params ValidateWordRequest) (ValidateWordResponse, error)
}

type ExplainWordRequest struct {
	Word string `json:"word"`
}

// Example is a Dutch sentence with its English translation
type Example struct {
	Dutch   string `json:"dutch"`
	English string `json:"english"`
}

type ExplainWordResponse struct {
	Word       string    `json:"word"`
	English    string    `json:"english"`
	Chinese    string    `json:"chinese"` // with pinyin
	Variations []string  `json:"variations,omitempty"`
	Examples   []Example `json:"examples"`
	Usage      string    `json:"usage"`
}

// Format renders the explanation as the text card shown to the learner.
func (r ExplainWordResponse) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Word: %s\n", r.Word)
	fmt.Fprintf(&b, "English: %s\n", r.English)
	fmt.Fprintf(&b, "Chinese: %s\n", r.Chinese)
	if len(r.Variations) > 0 {
		fmt.Fprintf(&b, "Variations: %s\n", strings.Join(r.Variations, ", "))
	}
	b.WriteString("Examples:\n")
	for i, example := range r.Examples {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, example.Dutch, example.English)
	}
	fmt.Fprintf(&b, "Usage: %s", r.Usage)
	return b.String()
}

type ValidateWordRequest struct {
	Word string `json:"word"`
}

type ValidateWordResponse struct {
	IsDutch bool
	// Reason is the raw answer of the model
	Reason string
}

const (
	DefaultMaxRetryAttempts = 3
)
