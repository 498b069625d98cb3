package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes caps how much of a response body is read
const maxBodyBytes = 1 << 20

type completionRequest struct {
	Message string `json:"message"`
}

type completionResponse struct {
	Response *string `json:"response"`
	Error    string  `json:"error,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// Backend posts each chat message to a JSON endpoint.
//
//	POST {url}  {"message": "..."}  ->  200 {"response": "..."}
//
// Non-2xx answers become errors carrying the body's "error" or "message" field.
type Backend struct {
	url    string
	client *http.Client
}

// NewBackend creates an HTTP backend. A nil client uses http.DefaultClient;
// deadlines come from the caller's context.
func NewBackend(url string, client *http.Client) (*Backend, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("backend URL is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Backend{url: url, client: client}, nil
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "http"
}

// Complete posts text and returns the "response" field.
func (b *Backend) Complete(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(completionRequest{Message: text})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		// Surface cancellation as-is so callers can tell it apart
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var decoded completionResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil {
			if decoded.Error != "" {
				return "", errors.New(decoded.Error)
			}
			if decoded.Message != "" {
				return "", errors.New(decoded.Message)
			}
		}
		return "", fmt.Errorf("backend returned %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}
	if decoded.Response == nil {
		return "", fmt.Errorf("decode response: missing \"response\" field")
	}

	return *decoded.Response, nil
}
