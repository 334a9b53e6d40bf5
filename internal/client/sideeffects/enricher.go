package sideeffects

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const complimentPrompt = "Write one short, warm compliment (at most 20 words) for a member named %s. Reply with the compliment only."

var errNoModels = errors.New("enricher: no models configured")

// HTTPEnricher asks an OpenAI-compatible chat completions endpoint for a
// compliment. Models are tried in order; the first non-empty answer wins.
type HTTPEnricher struct {
	endpoint string
	apiKey   string
	models   []string
	client   *http.Client
}

func NewHTTPEnricher(endpoint, apiKey string, models []string, timeout time.Duration, client *http.Client) (*HTTPEnricher, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("enricher: endpoint is required")
	}
	if len(models) == 0 {
		return nil, errNoModels
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPEnricher{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		models:   append([]string(nil), models...),
		client:   client,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (e *HTTPEnricher) Compliment(ctx context.Context, givenName string) (string, error) {
	var errs []error
	for _, model := range e.models {
		text, err := e.complete(ctx, model, fmt.Sprintf(complimentPrompt, givenName))
		if err == nil {
			return text, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", model, err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Join(errs...)
}

func (e *HTTPEnricher) complete(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:     model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: 60,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}
