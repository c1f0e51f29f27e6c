package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/siherrmann/chronicle/helper"
)

// Completer is the minimal surface the analysis tiers need from a language
// model backend. Implementations must be safe for concurrent use.
type Completer interface {
	Complete(ctx context.Context, request CompletionRequest) (string, error)
	Available(ctx context.Context) bool
}

// CompletionRequest carries one prompt to the backend.
type CompletionRequest struct {
	Prompt      string
	System      string
	Temperature float64
	MaxTokens   int
}

// OllamaConfig holds configuration for a local Ollama instance.
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultOllamaConfig returns sensible defaults for a local instance.
func DefaultOllamaConfig() OllamaConfig {
	return OllamaConfig{
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1:8b",
		Timeout: 120 * time.Second,
	}
}

// OllamaClient implements Completer against the Ollama generate API.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaClient creates a client with default config.
func NewOllamaClient() *OllamaClient {
	return NewOllamaClientWithConfig(DefaultOllamaConfig())
}

// NewOllamaClientWithConfig creates a client with custom config.
func NewOllamaClientWithConfig(config OllamaConfig) *OllamaClient {
	return &OllamaClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type ollamaGenerateRequest struct {
	Model   string             `json:"model"`
	Prompt  string             `json:"prompt"`
	System  string             `json:"system,omitempty"`
	Stream  bool               `json:"stream"`
	Options map[string]float64 `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Complete sends the request to /api/generate and returns the trimmed
// completion text.
func (c *OllamaClient) Complete(ctx context.Context, request CompletionRequest) (string, error) {
	options := map[string]float64{
		"temperature": request.Temperature,
	}
	if request.MaxTokens > 0 {
		options["num_predict"] = float64(request.MaxTokens)
	}

	reqBody := ollamaGenerateRequest{
		Model:   c.model,
		Prompt:  request.Prompt,
		System:  request.System,
		Stream:  false,
		Options: options,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", helper.NewError("marshaling generate request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", helper.NewError("creating generate request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", helper.NewError("sending generate request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", helper.NewError("reading generate response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", helper.NewError("generate request", fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var generateResp ollamaGenerateResponse
	if err := json.Unmarshal(body, &generateResp); err != nil {
		return "", helper.NewError("parsing generate response", err)
	}
	if generateResp.Error != "" {
		return "", helper.NewError("generate request", fmt.Errorf("%s", generateResp.Error))
	}

	return strings.TrimSpace(generateResp.Response), nil
}

// Available reports whether the backend answers on /api/tags.
func (c *OllamaClient) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string {
	return c.model
}
