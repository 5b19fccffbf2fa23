package domain

import (
	"errors"
	"fmt"
)

// ErrTerminalStatus is returned when a transition is attempted on a video whose
// transcription already completed or failed.
var ErrTerminalStatus = errors.New("transcription already in a terminal status")

// StartProcessing returns a copy of the video moved from pending to processing.
func StartProcessing(v Video) (Video, error) {
	if v.Status.Terminal() {
		return v, ErrTerminalStatus
	}
	if v.Status != StatusPending {
		return v, fmt.Errorf("invalid transition: %s -> %s", v.Status, StatusProcessing)
	}
	v.Status = StatusProcessing
	return v, nil
}

// Complete returns a copy of the video moved from processing to completed with
// the transcript attached. A completed video always carries its transcription.
func Complete(v Video, transcription string) (Video, error) {
	if v.Status.Terminal() {
		return v, ErrTerminalStatus
	}
	if v.Status != StatusProcessing {
		return v, fmt.Errorf("invalid transition: %s -> %s", v.Status, StatusCompleted)
	}
	v.Status = StatusCompleted
	v.Transcription = transcription
	return v, nil
}

// Fail returns a copy of the video moved from processing to failed. The detail
// records what went wrong (provider error or transport error) for diagnostics;
// the status enum stays the externally observable failure channel.
func Fail(v Video, detail string) (Video, error) {
	if v.Status.Terminal() {
		return v, ErrTerminalStatus
	}
	if v.Status != StatusProcessing {
		return v, fmt.Errorf("invalid transition: %s -> %s", v.Status, StatusFailed)
	}
	v.Status = StatusFailed
	v.FailureDetail = detail
	return v, nil
}
