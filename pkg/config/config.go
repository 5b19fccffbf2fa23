// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort        string
	ShutdownTimeout time.Duration

	MongoURI   string
	DBName     string
	Collection string

	UploadDir string

	// AssemblyAIKey authenticates against the transcription provider. It is
	// the only required setting.
	AssemblyAIKey string
	LanguageCode  string

	PollInterval  time.Duration
	PollWorkers   int
	PollQueueSize int
}

func Load() Config {
	return Config{
		HTTPPort:        getEnv("HTTP_PORT", "5000"),
		ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnv("MONGO_DB", "videotranscriber"),
		Collection:      getEnv("MONGO_COLLECTION", "videos"),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		AssemblyAIKey:   os.Getenv("ASSEMBLYAI_API_KEY"),
		LanguageCode:    getEnv("TRANSCRIPTION_LANGUAGE", "en"),
		PollInterval:    getDuration("POLL_INTERVAL", 5*time.Second),
		PollWorkers:     getInt("POLL_WORKERS", 4),
		PollQueueSize:   getInt("POLL_QUEUE_SIZE", 64),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
