package assemblyai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUploadMedia(t *testing.T) {
	media := []byte("fake video bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "test-key" {
			t.Errorf("Authorization header = %q, want %q", got, "test-key")
		}
		if got := r.Header.Get("Content-Type"); got != "application/octet-stream" {
			t.Errorf("Content-Type = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != string(media) {
			t.Errorf("Body = %q, want %q", body, media)
		}
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/upload/abc"})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIKey: "test-key", BaseURL: server.URL})

	uploadURL, err := client.UploadMedia(context.Background(), media)
	if err != nil {
		t.Fatalf("UploadMedia failed: %v", err)
	}
	if uploadURL != "https://cdn.example/upload/abc" {
		t.Errorf("Upload URL = %q", uploadURL)
	}
}

func TestRequestTranscription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transcript" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Decode request: %v", err)
		}
		if req["audio_url"] != "https://cdn.example/upload/abc" {
			t.Errorf("audio_url = %q", req["audio_url"])
		}
		if req["language_code"] != "en" {
			t.Errorf("language_code = %q", req["language_code"])
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "tr_123", "status": "queued"})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIKey: "test-key", BaseURL: server.URL})

	id, err := client.RequestTranscription(context.Background(), "https://cdn.example/upload/abc", "en")
	if err != nil {
		t.Fatalf("RequestTranscription failed: %v", err)
	}
	if id != "tr_123" {
		t.Errorf("Transcript id = %q, want tr_123", id)
	}
}

func TestGetTranscript_Statuses(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Transcript
	}{
		{
			name: "still processing",
			body: `{"id":"tr_1","status":"processing"}`,
			want: Transcript{ID: "tr_1", Status: StatusProcessing},
		},
		{
			name: "completed with text",
			body: `{"id":"tr_1","status":"completed","text":"hello world"}`,
			want: Transcript{ID: "tr_1", Status: StatusCompleted, Text: "hello world"},
		},
		{
			name: "provider-side error is a valid response",
			body: `{"id":"tr_1","status":"error","error":"audio too short"}`,
			want: Transcript{ID: "tr_1", Status: StatusError, Error: "audio too short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/transcript/tr_1" {
					t.Errorf("Unexpected path: %s", r.URL.Path)
				}
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := NewClient(ClientConfig{APIKey: "k", BaseURL: server.URL})

			got, err := client.GetTranscript(context.Background(), "tr_1")
			if err != nil {
				t.Fatalf("GetTranscript failed: %v", err)
			}
			if *got != tt.want {
				t.Errorf("GetTranscript = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestAPIErrorOnRejectedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"invalid api key"}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIKey: "bad", BaseURL: server.URL})

	_, err := client.UploadMedia(context.Background(), []byte("data"))
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "invalid api key" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // shut down immediately so the call fails at transport level

	client := NewClient(ClientConfig{APIKey: "k", BaseURL: server.URL})

	_, err := client.GetTranscript(context.Background(), "tr_1")
	if err == nil {
		t.Fatal("Expected transport error, got nil")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("Transport failure must not surface as *APIError: %v", err)
	}
}
