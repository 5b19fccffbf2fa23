// Package transcribe orchestrates the transcription lifecycle of uploaded
// videos: submit media to the provider, then poll the provider until the job
// completes or fails, persisting each transition.
package transcribe

import (
	"context"
	"errors"
	"fmt"

	"video-transcriber/pkg/assemblyai"
	"video-transcriber/pkg/domain"
)

// ErrAlreadySubmitted is returned when a video is submitted while a provider
// job for it is still outstanding.
var ErrAlreadySubmitted = errors.New("transcription already submitted for this video")

// Store persists video records. Individual writes replace the record's mutable
// fields; concurrent writers are last-write-wins at the store layer.
type Store interface {
	UpdateVideo(ctx context.Context, video domain.Video) error
}

// Provider is the external speech-to-text service.
type Provider interface {
	UploadMedia(ctx context.Context, media []byte) (string, error)
	RequestTranscription(ctx context.Context, audioURL, languageCode string) (string, error)
	GetTranscript(ctx context.Context, id string) (*assemblyai.Transcript, error)
}

// Service submits transcription jobs and hands accepted jobs to the poller.
type Service struct {
	store        Store
	provider     Provider
	poller       *Poller
	languageCode string
}

func NewService(store Store, provider Provider, poller *Poller, languageCode string) *Service {
	if languageCode == "" {
		languageCode = "en"
	}
	return &Service{
		store:        store,
		provider:     provider,
		poller:       poller,
		languageCode: languageCode,
	}
}

// Submit uploads the video's media to the provider, requests transcription,
// and enqueues the job for background polling. It returns as soon as the
// request is accepted; the transcript arrives later through the poll loop.
//
// Any provider or transport error during submission moves the video to failed
// before the error is returned. The video never returns to pending.
func (s *Service) Submit(ctx context.Context, video domain.Video, media []byte) (domain.Video, error) {
	if video.TranscriptID != "" && video.Status == domain.StatusProcessing {
		return video, ErrAlreadySubmitted
	}

	processing, err := domain.StartProcessing(video)
	if err != nil {
		return video, err
	}
	if err := s.store.UpdateVideo(ctx, processing); err != nil {
		return video, fmt.Errorf("persist processing status: %w", err)
	}

	audioURL, err := s.provider.UploadMedia(ctx, media)
	if err != nil {
		return s.failSubmission(ctx, processing, err)
	}

	transcriptID, err := s.provider.RequestTranscription(ctx, audioURL, s.languageCode)
	if err != nil {
		return s.failSubmission(ctx, processing, err)
	}

	processing.TranscriptID = transcriptID
	if err := s.store.UpdateVideo(ctx, processing); err != nil {
		return processing, fmt.Errorf("persist transcript id: %w", err)
	}

	if err := s.poller.Enqueue(ctx, processing); err != nil {
		return processing, err
	}

	return processing, nil
}

func (s *Service) failSubmission(ctx context.Context, video domain.Video, cause error) (domain.Video, error) {
	failed, terr := domain.Fail(video, cause.Error())
	if terr != nil {
		return video, cause
	}
	if serr := s.store.UpdateVideo(ctx, failed); serr != nil {
		return video, fmt.Errorf("persist failed status after %v: %w", cause, serr)
	}
	return failed, fmt.Errorf("submit transcription: %w", cause)
}
