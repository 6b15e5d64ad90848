package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash-exp"

	// PlaceholderAPIKey is what example env files ship with.
	PlaceholderAPIKey = "your-api-key-here"
)

// Completer turns a prompt into raw completion text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type ClientConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client talks to the hosted generateContent endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(cfg ClientConfig, log *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

// Configured reports whether a usable API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.apiKey != PlaceholderAPIKey
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var defaultGenerationConfig = generationConfig{
	Temperature:     0.7,
	TopK:            40,
	TopP:            0.95,
	MaxOutputTokens: 2048,
}

var harmCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

func newGenerateRequest(prompt string) generateRequest {
	safety := make([]safetySetting, 0, len(harmCategories))
	for _, cat := range harmCategories {
		safety = append(safety, safetySetting{Category: cat, Threshold: "BLOCK_MEDIUM_AND_ABOVE"})
	}
	return generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: defaultGenerationConfig,
		SafetySettings:   safety,
	}
}

// Complete sends one prompt and returns the first candidate's first text part.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(newGenerateRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("sending generation request",
		zap.String("model", c.model),
		zap.String("key_prefix", keyPrefix(c.apiKey)),
		zap.Int("prompt_len", len(prompt)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: KindRequestFailed, Message: "API request failed: service unavailable", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindRequestFailed, StatusCode: resp.StatusCode, Message: "API request failed: unreadable response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("generation request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(respBody), 512)),
		)
		return "", statusError(resp.StatusCode, resp.Status)
	}

	var data generateResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", &Error{Kind: KindRequestFailed, StatusCode: resp.StatusCode, Message: "API request failed: malformed response envelope", Err: err}
	}
	if len(data.Candidates) == 0 {
		return "", &Error{Kind: KindEmptyResponse, Message: "No response generated from AI service"}
	}
	parts := data.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", ErrEmptyResponse
	}
	return parts[0].Text, nil
}

func keyPrefix(key string) string {
	if len(key) <= 6 {
		return "***"
	}
	return key[:6] + "..."
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
