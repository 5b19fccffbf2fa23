package assemblyai

import (
	"bytes"
	"context"
	"net/http"
)

// TranscriptStatus is the provider-side lifecycle of a transcription request.
type TranscriptStatus string

const (
	StatusQueued     TranscriptStatus = "queued"
	StatusProcessing TranscriptStatus = "processing"
	StatusCompleted  TranscriptStatus = "completed"
	StatusError      TranscriptStatus = "error"
)

// Transcript is the provider's view of one transcription request. A Status of
// StatusError is a valid response (the provider rejected or failed the job),
// distinct from a transport error reaching the API at all.
type Transcript struct {
	ID     string           `json:"id"`
	Status TranscriptStatus `json:"status"`
	Text   string           `json:"text"`
	Error  string           `json:"error"`
}

// ClientConfig configures the AssemblyAI client. The API key is required and
// passed in explicitly rather than read from ambient state.
type ClientConfig struct {
	APIKey string
	// BaseURL overrides the production API URL, mainly for tests.
	BaseURL string
	// HTTPClient is optional and defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// Client talks to the AssemblyAI v2 API.
type Client struct {
	b Backend
}

func NewClient(cfg ClientConfig) *Client {
	return &Client{b: newBackend(cfg.BaseURL, cfg.APIKey, cfg.HTTPClient)}
}

// NewClientWithBackend constructs a client over a custom backend, for tests.
func NewClientWithBackend(b Backend) *Client {
	return &Client{b: b}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

// UploadMedia transmits raw media bytes to the provider and returns the
// provider-side URL of the uploaded resource.
func (c *Client) UploadMedia(ctx context.Context, media []byte) (string, error) {
	var res uploadResponse
	if err := c.b.CallRaw(ctx, http.MethodPost, "/upload", bytes.NewReader(media), &res); err != nil {
		return "", err
	}
	return res.UploadURL, nil
}

type transcriptRequest struct {
	AudioURL     string `json:"audio_url"`
	LanguageCode string `json:"language_code,omitempty"`
}

// RequestTranscription asks the provider to begin transcribing a previously
// uploaded resource and returns the transcript id used for polling.
func (c *Client) RequestTranscription(ctx context.Context, audioURL, languageCode string) (string, error) {
	var res Transcript
	err := c.b.Call(ctx, http.MethodPost, "/transcript", transcriptRequest{
		AudioURL:     audioURL,
		LanguageCode: languageCode,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

// GetTranscript fetches the current status of a transcription request.
func (c *Client) GetTranscript(ctx context.Context, id string) (*Transcript, error) {
	var res Transcript
	if err := c.b.Call(ctx, http.MethodGet, "/transcript/"+id, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
