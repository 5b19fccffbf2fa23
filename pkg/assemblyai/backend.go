// Package assemblyai is a minimal client for the AssemblyAI speech-to-text
// API: upload media, request a transcription, and poll its status.
package assemblyai

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

const defaultBaseURL = "https://api.assemblyai.com/v2"

// Backend executes API requests. It exists so the client can be exercised in
// tests without real HTTP calls.
type Backend interface {
	// Call sends params as a JSON body (nil params for a bodyless request)
	// and unmarshals the response into v.
	Call(ctx context.Context, method, path string, params, v interface{}) error
	// CallRaw sends an opaque request body (application/octet-stream) and
	// unmarshals the response into v.
	CallRaw(ctx context.Context, method, path string, body io.Reader, v interface{}) error
}

// APIError is a structured non-2xx response from the API.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("assemblyai: status=%d: %s", e.StatusCode, e.Message)
}

type backendConfiguration struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newBackend(baseURL, apiKey string, httpClient *http.Client) Backend {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &backendConfiguration{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (b *backendConfiguration) Call(ctx context.Context, method, path string, params, v interface{}) error {
	var body io.Reader
	contentType := ""
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return b.do(ctx, method, path, contentType, body, v)
}

func (b *backendConfiguration) CallRaw(ctx context.Context, method, path string, body io.Reader, v interface{}) error {
	return b.do(ctx, method, path, "application/octet-stream", body, v)
}

func (b *backendConfiguration) do(ctx context.Context, method, path, contentType string, body io.Reader, v interface{}) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", b.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("assemblyai: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("assemblyai: read response: %w", err)
	}

	if res.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		if err := json.Unmarshal(resBody, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(resBody))
		}
		return apiErr
	}

	if v != nil {
		if err := json.Unmarshal(resBody, v); err != nil {
			return fmt.Errorf("assemblyai: decode response: %w", err)
		}
	}
	return nil
}
