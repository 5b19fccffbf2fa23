package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TranscriptionStatus tracks the lifecycle stage of a video's transcription.
type TranscriptionStatus string

const (
	StatusPending    TranscriptionStatus = "pending"
	StatusProcessing TranscriptionStatus = "processing"
	StatusCompleted  TranscriptionStatus = "completed"
	StatusFailed     TranscriptionStatus = "failed"
)

// Terminal reports whether no further status transitions are allowed.
func (s TranscriptionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Video represents an uploaded media file and its transcription state.
//
// Transcription is empty until the job reaches StatusCompleted. TranscriptID is
// the provider-assigned identifier, set once the transcription request has been
// accepted; it is the polling key. FailureDetail keeps the provider error or
// transport error for failed jobs without widening the status enum.
type Video struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Filename      string              `bson:"filename" json:"filename"`
	OriginalName  string              `bson:"original_name" json:"originalName"`
	Path          string              `bson:"path" json:"path"`
	Transcription string              `bson:"transcription,omitempty" json:"transcription,omitempty"`
	Keywords      []string            `bson:"keywords,omitempty" json:"keywords,omitempty"`
	Status        TranscriptionStatus `bson:"transcription_status" json:"transcriptionStatus"`
	TranscriptID  string              `bson:"transcript_id,omitempty" json:"transcriptId,omitempty"`
	FailureDetail string              `bson:"failure_detail,omitempty" json:"failureDetail,omitempty"`
	UploadDate    time.Time           `bson:"upload_date" json:"uploadDate"`
}

// SuggestionType classifies where an autocomplete suggestion was derived from.
type SuggestionType string

const (
	SuggestionFilename      SuggestionType = "filename"
	SuggestionTranscription SuggestionType = "transcription"
)

// Suggestion is one autocomplete candidate for a partial search query.
type Suggestion struct {
	Type    SuggestionType `json:"type"`
	Text    string         `json:"text"`
	VideoID string         `json:"videoId"`
}
