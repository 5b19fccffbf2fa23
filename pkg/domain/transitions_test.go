package domain

import (
	"errors"
	"testing"
)

func TestStartProcessing(t *testing.T) {
	v := Video{Status: StatusPending}

	got, err := StartProcessing(v)
	if err != nil {
		t.Fatalf("StartProcessing failed: %v", err)
	}
	if got.Status != StatusProcessing {
		t.Errorf("Expected status %s, got %s", StatusProcessing, got.Status)
	}

	// The input value must not be mutated.
	if v.Status != StatusPending {
		t.Errorf("Input video was mutated: %s", v.Status)
	}
}

func TestComplete_SetsTranscription(t *testing.T) {
	v := Video{Status: StatusProcessing}

	got, err := Complete(v, "hello world")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("Expected status %s, got %s", StatusCompleted, got.Status)
	}
	if got.Transcription != "hello world" {
		t.Errorf("Expected transcription to be set, got %q", got.Transcription)
	}
}

func TestFail_RecordsDetail(t *testing.T) {
	v := Video{Status: StatusProcessing}

	got, err := Fail(v, "provider unreachable")
	if err != nil {
		t.Fatalf("Fail failed: %v", err)
	}
	if got.Status != StatusFailed {
		t.Errorf("Expected status %s, got %s", StatusFailed, got.Status)
	}
	if got.FailureDetail != "provider unreachable" {
		t.Errorf("Expected failure detail to be recorded, got %q", got.FailureDetail)
	}
	if got.Transcription != "" {
		t.Errorf("Failed video must not carry a transcription, got %q", got.Transcription)
	}
}

func TestTerminalStatusesAreAbsorbing(t *testing.T) {
	tests := []struct {
		name  string
		video Video
	}{
		{"completed", Video{Status: StatusCompleted, Transcription: "done"}},
		{"failed", Video{Status: StatusFailed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := StartProcessing(tt.video); !errors.Is(err, ErrTerminalStatus) {
				t.Errorf("StartProcessing from %s: expected ErrTerminalStatus, got %v", tt.video.Status, err)
			}
			if _, err := Complete(tt.video, "text"); !errors.Is(err, ErrTerminalStatus) {
				t.Errorf("Complete from %s: expected ErrTerminalStatus, got %v", tt.video.Status, err)
			}
			if _, err := Fail(tt.video, "boom"); !errors.Is(err, ErrTerminalStatus) {
				t.Errorf("Fail from %s: expected ErrTerminalStatus, got %v", tt.video.Status, err)
			}
		})
	}
}

func TestInvalidTransitionsFromPending(t *testing.T) {
	v := Video{Status: StatusPending}

	if _, err := Complete(v, "text"); err == nil {
		t.Error("Expected error completing a pending video, got nil")
	}
	if _, err := Fail(v, "boom"); err == nil {
		t.Error("Expected error failing a pending video, got nil")
	}
}
