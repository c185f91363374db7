// Package ollama is a thin client for a local Ollama inference server.
// Both operations are single best-effort, non-streaming JSON calls; there
// is no retry and no client-side timeout, so cancellation is entirely up
// to the caller's context.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Message is one turn of a chat exchange in the inference server's wire
// format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to an Ollama server at a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client for the given base URL (e.g.
// "http://localhost:11434").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Generate sends a one-shot prompt to /api/generate and returns the plain
// response text.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	body := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}
	var out struct {
		Response string `json:"response"`
	}
	if err := c.post(ctx, "/api/generate", body, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// Chat sends a full message history to /api/chat and returns the
// assistant's reply text.
func (c *Client) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	body := map[string]any{
		"model":    model,
		"messages": messages,
		"stream":   false,
	}
	var out struct {
		Message Message `json:"message"`
	}
	if err := c.post(ctx, "/api/chat", body, &out); err != nil {
		return "", err
	}
	return out.Message.Content, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: %s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
