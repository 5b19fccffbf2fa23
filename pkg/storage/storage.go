// Package storage places uploaded media files on disk and reads them back.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrMediaNotFound is returned when a stored media file does not exist.
var ErrMediaNotFound = errors.New("media file not found")

// allowedExtensions are the accepted upload formats.
var allowedExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
}

// AllowedExtension reports whether the original filename has an accepted
// video extension.
func AllowedExtension(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// AllowedMimeType reports whether the declared content type names one of the
// accepted video formats, e.g. "video/mp4" or "video/x-msvideo" for avi.
func AllowedMimeType(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, format := range []string{"mp4", "mov", "quicktime", "avi", "msvideo"} {
		if strings.Contains(ct, format) {
			return true
		}
	}
	return false
}

// Store keeps media files in a single uploads directory. Stored filenames are
// generated, so original names never collide or escape the directory.
type Store struct {
	dir string
}

// NewStore creates the uploads directory if needed and returns a store
// rooted there.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("uploads directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the media stream to a new file and returns the stored filename.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	filename := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))

	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write media file: %w", err)
	}
	return filename, nil
}

// ReadMedia returns the raw bytes of a stored media file.
func (s *Store) ReadMedia(filename string) ([]byte, error) {
	path, err := s.Path(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read media file: %w", err)
	}
	return data, nil
}

// Path resolves a stored filename to its on-disk path, rejecting names that
// would escape the uploads directory.
func (s *Store) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", ErrMediaNotFound
	}
	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", ErrMediaNotFound
	} else if err != nil {
		return "", fmt.Errorf("stat media file: %w", err)
	}
	return path, nil
}
