package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

// Client calls the OpenAI chat completions API to draft phrase lists for
// recording new flashcards.
type Client struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// New creates a new client. OPENAI_API_KEY is required; OPENAI_MODEL
// overrides the default model.
func New() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Client{
		apiKey:      apiKey,
		apiURL:      "https://api.openai.com/v1/chat/completions",
		model:       model,
		maxTokens:   2000,
		temperature: 0.7,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Message represents a message in the conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// The model lists phrases numerically; capture the text after the number.
var numberedLine = regexp.MustCompile(`(?m)^\s*\d+[.)]\s*(.+?)\s*$`)

// GeneratePhrases asks the model for n diverse everyday phrases at the given
// CEFR level (e.g. "C1") and returns them, one per entry, ready to record.
func (c *Client) GeneratePhrases(level string, n int) ([]string, error) {
	prompt := fmt.Sprintf(`Generate the top %d most commonly used English phrases in everyday life intended for %s CEFR level.
The generated phrases should be diverse and short enough to fit one audio flashcard each.
Don't use phrases from CEFR levels lower than %s.
List every phrase on its own numbered line and print nothing else.`, n, level, level)

	reqBody := chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: "You are a helpful assistant. You have to strictly follow the instructions."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("API returned no choices")
	}

	var phrases []string
	for _, m := range numberedLine.FindAllStringSubmatch(parsed.Choices[0].Message.Content, -1) {
		phrase := strings.TrimSpace(m[1])
		if phrase != "" {
			phrases = append(phrases, phrase)
		}
	}
	if len(phrases) == 0 {
		return nil, fmt.Errorf("no phrases found in model output")
	}
	return phrases, nil
}
