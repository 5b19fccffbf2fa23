package search

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"video-transcriber/pkg/domain"
)

func video(name, transcription string, uploadedAt time.Time) domain.Video {
	return domain.Video{
		ID:            primitive.NewObjectID(),
		OriginalName:  name,
		Transcription: transcription,
		Status:        domain.StatusPending,
		UploadDate:    uploadedAt,
	}
}

func TestSearch_EmptyQueryReturnsAllNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	videos := []domain.Video{
		video("oldest.mp4", "", base),
		video("newest.mp4", "", base.Add(2*time.Hour)),
		video("middle.mp4", "", base.Add(time.Hour)),
	}

	for _, query := range []string{"", "   ", "\t"} {
		got := Search(videos, query)
		if len(got) != 3 {
			t.Fatalf("Search(%q) returned %d videos, want 3", query, len(got))
		}
		want := []string{"newest.mp4", "middle.mp4", "oldest.mp4"}
		for i, name := range want {
			if got[i].OriginalName != name {
				t.Errorf("Search(%q)[%d] = %s, want %s", query, i, got[i].OriginalName, name)
			}
		}
	}
}

func TestSearch_SubstringMatching(t *testing.T) {
	now := time.Now()
	videos := []domain.Video{
		video("demo.mp4", "", now),
		video("interview.mov", "we talked about the hiring process", now.Add(time.Minute)),
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"matches filename", "demo", []string{"demo.mp4"}},
		{"matches transcription", "hiring", []string{"interview.mov"}},
		{"case-insensitive", "DEMO", []string{"demo.mp4"}},
		{"no matches", "xyz", nil},
		{"matches both fields across records", "i", []string{"interview.mov"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(videos, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) returned %d videos, want %d", tt.query, len(got), len(tt.want))
			}
			for i, name := range tt.want {
				if got[i].OriginalName != name {
					t.Errorf("Search(%q)[%d] = %s, want %s", tt.query, i, got[i].OriginalName, name)
				}
			}
		})
	}
}

func TestSearch_MissingTranscriptionDoesNotMatch(t *testing.T) {
	// A pending video has no transcription yet; only its name is searchable.
	pending := video("demo.mp4", "", time.Now())

	if got := Search([]domain.Video{pending}, "demo"); len(got) != 1 {
		t.Errorf("Expected pending video to match on name, got %d results", len(got))
	}
	if got := Search([]domain.Video{pending}, "xyz"); len(got) != 0 {
		t.Errorf("Expected no matches, got %d results", len(got))
	}
}

func TestSearch_MatchesSortedNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	videos := []domain.Video{
		video("team sync old.mp4", "", base),
		video("team sync new.mp4", "", base.Add(time.Hour)),
		video("unrelated.mp4", "", base.Add(2*time.Hour)),
	}

	got := Search(videos, "team sync")
	if len(got) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(got))
	}
	if got[0].OriginalName != "team sync new.mp4" || got[1].OriginalName != "team sync old.mp4" {
		t.Errorf("Matches not sorted newest first: %s, %s", got[0].OriginalName, got[1].OriginalName)
	}
}
