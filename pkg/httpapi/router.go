package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP surface of the service.
func NewRouter(store VideoStore, media MediaStore, transcriber Transcriber) http.Handler {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	videoHandler := NewVideoHandler(store, media, transcriber)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		videoHandler.RegisterRoutes(api.Group("/videos"))
	}

	r.GET("/uploads/:filename", videoHandler.stream)

	return r
}
