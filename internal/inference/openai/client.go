package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/chat2dutch/internal/inference"
)

const defaultBaseURL = "https://api.openai.com/v1"

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model string, retryAttempts uint, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(defaultBaseURL)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Incomplete responses usually succeed on the next attempt
	errStr := err.Error()
	if strings.Contains(errStr, "json.Unmarshal") || strings.Contains(errStr, "unexpected end of JSON input") {
		return true
	}
	if strings.Contains(errStr, "empty response") || strings.Contains(errStr, "unexpected answer") {
		return true
	}

	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "Client.Timeout") {
		return true
	}

	// 5xx and rate limiting
	if strings.Contains(errStr, "response error 5") || strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

func (client *Client) withRetry(ctx context.Context, word string, fn func() error) error {
	return retry.Do(
		func() error {
			err := fn()
			if err != nil && !isRetryableError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying OpenAI API call",
				"attempt", n+1,
				"word", word,
				"lastError", err)
		}),
	)
}

// ExplainWord implements the inference.Client interface
func (client *Client) ExplainWord(
	ctx context.Context,
	params inference.ExplainWordRequest,
) (inference.ExplainWordResponse, error) {
	var result inference.ExplainWordResponse
	if err := client.withRetry(ctx, params.Word, func() error {
		response, err := client.explainWord(ctx, params)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return inference.ExplainWordResponse{}, err
	}
	return result, nil
}

const explainWordSystemPrompt = `You are a helpful assistant for learning Dutch.

For the Dutch word given by the user, provide:
1. Translation in English
2. Translation in Chinese (with pinyin)
3. Variations (if any), such as plural forms, conjugations or diminutives
4. Two example sentences in Dutch with English translations
5. A brief explanation of its usage

OUTPUT FORMAT (JSON only):
{
  "word": "<the word as given>",
  "english": "<English translation>",
  "chinese": "<Chinese translation (pinyin)>",
  "variations": ["<variation>", ...],
  "examples": [
    {"dutch": "<Dutch sentence>", "english": "<English translation>"},
    {"dutch": "<Dutch sentence>", "english": "<English translation>"}
  ],
  "usage": "<brief explanation of usage>"
}

Do NOT include any text outside the JSON.`

func (client *Client) explainWord(
	ctx context.Context,
	params inference.ExplainWordRequest,
) (inference.ExplainWordResponse, error) {
	requestBody := ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.3,
		Messages: []Message{
			{Role: RoleSystem, Content: explainWordSystemPrompt},
			{Role: RoleUser, Content: fmt.Sprintf("Provide information for the Dutch word '%s'.", params.Word)},
		},
	}

	content, err := client.complete(ctx, requestBody)
	if err != nil {
		return inference.ExplainWordResponse{}, err
	}

	var decoded inference.ExplainWordResponse
	if err := json.NewDecoder(strings.NewReader(extractJSONObject(content))).Decode(&decoded); err != nil {
		slog.Default().Error("Failed to parse OpenAI response as JSON",
			"word", params.Word,
			"error", err)
		return inference.ExplainWordResponse{}, fmt.Errorf("json.Unmarshal(%s) > %w", content, err)
	}
	if decoded.Word == "" {
		decoded.Word = params.Word
	}
	return decoded, nil
}

// ValidateWord implements the inference.Client interface
func (client *Client) ValidateWord(
	ctx context.Context,
	params inference.ValidateWordRequest,
) (inference.ValidateWordResponse, error) {
	var result inference.ValidateWordResponse
	if err := client.withRetry(ctx, params.Word, func() error {
		response, err := client.validateWord(ctx, params)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return inference.ValidateWordResponse{}, err
	}
	return result, nil
}

func (client *Client) validateWord(
	ctx context.Context,
	params inference.ValidateWordRequest,
) (inference.ValidateWordResponse, error) {
	requestBody := ChatCompletionRequest{
		Model: client.model,
		Messages: []Message{
			{Role: RoleSystem, Content: "You are a Dutch language expert."},
			{Role: RoleUser, Content: fmt.Sprintf("Is '%s' a Dutch word? Respond with only 'Yes' or 'No'.", params.Word)},
		},
	}

	content, err := client.complete(ctx, requestBody)
	if err != nil {
		return inference.ValidateWordResponse{}, err
	}

	answer := strings.ToLower(strings.TrimSpace(content))
	answer = strings.TrimRight(answer, ".!")
	switch answer {
	case "yes":
		return inference.ValidateWordResponse{IsDutch: true, Reason: content}, nil
	case "no":
		return inference.ValidateWordResponse{IsDutch: false, Reason: content}, nil
	}
	return inference.ValidateWordResponse{}, fmt.Errorf("unexpected answer %q for %s", content, params.Word)
}

// complete sends one chat completion request and returns the content of the first choice.
func (client *Client) complete(ctx context.Context, requestBody ChatCompletionRequest) (string, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("openai response content",
		"request", requestBody,
		"response", content,
	)
	return content, nil
}

// extractJSONObject returns the first complete JSON object in content, so that code
// fences or prose around the object are ignored.
func extractJSONObject(content string) string {
	firstBrace := -1
	braceCount := 0
	inString := false
	escapeNext := false

	for i, ch := range content {
		if escapeNext {
			escapeNext = false
			continue
		}
		if ch == '\\' && inString {
			escapeNext = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{':
			if firstBrace == -1 {
				firstBrace = i
			}
			braceCount++
		case '}':
			if firstBrace == -1 {
				continue
			}
			braceCount--
			if braceCount == 0 {
				return content[firstBrace : i+1]
			}
		}
	}
	return content
}
