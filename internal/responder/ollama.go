package responder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Ollama answers queries with a local Ollama server.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates a responder. Empty values default to localhost and llama3.2.
func NewOllama(client *http.Client, baseURL, model string) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Ollama{
		baseURL: baseURL,
		model:   model,
		client:  client,
	}
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Respond sends text as the prompt of a non-streaming generate call.
func (o *Ollama) Respond(ctx context.Context, text string) (string, error) {
	jsonData, err := json.Marshal(ollamaGenerateRequest{
		Model:  o.model,
		Prompt: text,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var genResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return genResp.Response, nil
}
