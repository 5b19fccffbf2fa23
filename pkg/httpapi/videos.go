package httpapi

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"video-transcriber/pkg/db"
	"video-transcriber/pkg/domain"
	"video-transcriber/pkg/search"
	"video-transcriber/pkg/storage"
	"video-transcriber/pkg/transcribe"
)

// VideoStore is the persistence surface the handlers need.
type VideoStore interface {
	InsertVideo(ctx context.Context, video domain.Video) (domain.Video, error)
	FindVideoByID(ctx context.Context, id string) (domain.Video, error)
	GetAllVideos(ctx context.Context) ([]domain.Video, error)
}

// MediaStore reads and writes the media files behind video records.
type MediaStore interface {
	Save(r io.Reader, originalName string) (string, error)
	ReadMedia(filename string) ([]byte, error)
	Path(filename string) (string, error)
}

// Transcriber submits a video's media for transcription.
type Transcriber interface {
	Submit(ctx context.Context, video domain.Video, media []byte) (domain.Video, error)
}

// VideoHandler serves the video upload, search and transcription endpoints.
type VideoHandler struct {
	store       VideoStore
	media       MediaStore
	transcriber Transcriber
}

func NewVideoHandler(store VideoStore, media MediaStore, transcriber Transcriber) *VideoHandler {
	return &VideoHandler{
		store:       store,
		media:       media,
		transcriber: transcriber,
	}
}

func (h *VideoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.GET("", h.list)
	rg.GET("/search", h.search)
	rg.GET("/suggestions", h.suggestions)
	rg.POST("/:id/transcribe", h.startTranscription)
	rg.GET("/:id/transcription-status", h.transcriptionStatus)
}

func (h *VideoHandler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No video file uploaded"})
		return
	}
	if !storage.AllowedExtension(fileHeader.Filename) ||
		!storage.AllowedMimeType(fileHeader.Header.Get("Content-Type")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error: Videos Only!"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload", "details": err.Error()})
		return
	}
	defer f.Close()

	filename, err := h.media.Save(f, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload", "details": err.Error()})
		return
	}

	video, err := h.store.InsertVideo(c.Request.Context(), domain.Video{
		Filename:     filename,
		OriginalName: fileHeader.Filename,
		Path:         "uploads/" + filename,
		Status:       domain.StatusPending,
		UploadDate:   time.Now().UTC(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save video", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) list(c *gin.Context) {
	videos, err := h.store.GetAllVideos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if videos == nil {
		videos = []domain.Video{}
	}
	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandler) search(c *gin.Context) {
	videos, err := h.store.GetAllVideos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, search.Search(videos, c.Query("query")))
}

func (h *VideoHandler) suggestions(c *gin.Context) {
	videos, err := h.store.GetAllVideos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	suggestions := search.Suggest(videos, c.Query("query"))
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}
	c.JSON(http.StatusOK, suggestions)
}

func (h *VideoHandler) startTranscription(c *gin.Context) {
	video, err := h.store.FindVideoByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, db.ErrVideoNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	media, err := h.media.ReadMedia(video.Filename)
	if errors.Is(err, storage.ErrMediaNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media file not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing video", "details": err.Error()})
		return
	}

	submitted, err := h.transcriber.Submit(c.Request.Context(), video, media)
	switch {
	case errors.Is(err, transcribe.ErrAlreadySubmitted), errors.Is(err, domain.ErrTerminalStatus):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Printf("transcription submit for video %s failed: %v", video.ID.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing video", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Transcription started",
		"transcriptId": submitted.TranscriptID,
	})
}

func (h *VideoHandler) transcriptionStatus(c *gin.Context) {
	video, err := h.store.FindVideoByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, db.ErrVideoNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if video.Status == domain.StatusCompleted {
		c.JSON(http.StatusOK, gin.H{
			"status":        video.Status,
			"transcription": video.Transcription,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": video.Status})
}

// stream serves a stored media file. http.ServeFile handles Range requests,
// so players can seek.
func (h *VideoHandler) stream(c *gin.Context) {
	path, err := h.media.Path(c.Param("filename"))
	if errors.Is(err, storage.ErrMediaNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.File(path)
}
