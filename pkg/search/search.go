// Package search implements substring search and autocomplete suggestions over
// video records. Both operations are pure functions of their inputs so they can
// be tested without a database and always produce deterministic output.
package search

import (
	"sort"
	"strings"

	"video-transcriber/pkg/domain"
)

// Matches reports whether the query is a case-insensitive substring of the
// video's original name or its transcription. Videos without a transcription
// can still match on name.
func Matches(v domain.Video, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(v.OriginalName), q) {
		return true
	}
	return v.Transcription != "" && strings.Contains(strings.ToLower(v.Transcription), q)
}

// Search returns the videos matching the query, newest first. An empty or
// whitespace-only query returns every video, still newest first.
func Search(videos []domain.Video, query string) []domain.Video {
	query = strings.TrimSpace(query)

	matched := make([]domain.Video, 0, len(videos))
	for _, v := range videos {
		if query == "" || Matches(v, query) {
			matched = append(matched, v)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].UploadDate.After(matched[j].UploadDate)
	})

	return matched
}
