package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Suggestion is the classifier's verdict for an untagged message.
type Suggestion struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// Client calls an OpenAI-compatible chat-completions endpoint and asks it to
// pick the best-fit board for a message out of a closed candidate set.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

const systemPrompt = `You are a message categorizer. You are given a short message and a list of board names. Pick the single board that best fits the message, or "untagged" if none fit. Respond with only a JSON object: {"category": "<board name or untagged>", "confidence": <0.0-1.0>, "reasoning": "<one sentence>"}.`

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Classify(ctx context.Context, text string, candidates []string) (Suggestion, error) {
	userPrompt := fmt.Sprintf("Boards: %s\n\nMessage: %s", strings.Join(candidates, ", "), text)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return Suggestion{}, err
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Suggestion{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Suggestion{}, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Suggestion{}, fmt.Errorf("failed to read classifier response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Suggestion{}, fmt.Errorf("classifier returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Suggestion{}, fmt.Errorf("failed to parse classifier response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Suggestion{}, fmt.Errorf("classifier returned no choices")
	}

	var suggestion Suggestion
	content := extractJSON(parsed.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		return Suggestion{}, fmt.Errorf("failed to parse suggestion: %w", err)
	}
	return suggestion, nil
}

// extractJSON tolerates models that wrap the JSON object in markdown fences
// or prose.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
