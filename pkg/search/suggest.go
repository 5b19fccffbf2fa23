package search

import (
	"strings"

	"video-transcriber/pkg/domain"
)

const (
	// maxSuggestions bounds the overall suggestion list.
	maxSuggestions = 5
	// maxCandidateVideos bounds how many matching videos contribute entries.
	// These are the first matches encountered, not a ranked top five.
	maxCandidateVideos = 5
	// maxPhrasesPerVideo bounds transcript phrases collected per video.
	maxPhrasesPerVideo = 3
	// maxPhraseWords is the largest sliding-window phrase length.
	maxPhraseWords = 5
)

// Suggest produces up to five autocomplete suggestions for a partial query,
// drawn from the names and transcript phrases of matching videos. Entries are
// deduplicated by exact text, first occurrence wins.
func Suggest(videos []domain.Video, query string) []domain.Suggestion {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)

	var candidates []domain.Video
	for _, v := range videos {
		if Matches(v, query) {
			candidates = append(candidates, v)
			if len(candidates) == maxCandidateVideos {
				break
			}
		}
	}

	var entries []domain.Suggestion
	for _, v := range candidates {
		id := v.ID.Hex()

		if strings.Contains(strings.ToLower(v.OriginalName), q) {
			entries = append(entries, domain.Suggestion{
				Type:    domain.SuggestionFilename,
				Text:    v.OriginalName,
				VideoID: id,
			})
		}

		if v.Transcription != "" {
			for _, phrase := range matchingPhrases(v.Transcription, q) {
				entries = append(entries, domain.Suggestion{
					Type:    domain.SuggestionTranscription,
					Text:    phrase,
					VideoID: id,
				})
			}
		}
	}

	return dedupeAndTruncate(entries)
}

// matchingPhrases scans the transcript with a sliding window, trying windows of
// 1..maxPhraseWords words at each start index, and keeps the first
// maxPhrasesPerVideo phrases containing the query. Scan order is ascending
// start index, then ascending window length; there is no scoring.
func matchingPhrases(transcription, loweredQuery string) []string {
	words := strings.Fields(transcription)

	var phrases []string
	for i := 0; i < len(words) && len(phrases) < maxPhrasesPerVideo; i++ {
		for j := 1; j <= maxPhraseWords && i+j <= len(words); j++ {
			phrase := strings.Join(words[i:i+j], " ")
			if strings.Contains(strings.ToLower(phrase), loweredQuery) {
				phrases = append(phrases, phrase)
				if len(phrases) == maxPhrasesPerVideo {
					break
				}
			}
		}
	}
	return phrases
}

func dedupeAndTruncate(entries []domain.Suggestion) []domain.Suggestion {
	seen := make(map[string]bool, len(entries))
	out := make([]domain.Suggestion, 0, maxSuggestions)
	for _, e := range entries {
		if seen[e.Text] {
			continue
		}
		seen[e.Text] = true
		out = append(out, e)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
