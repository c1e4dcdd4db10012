package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Metadata
		Export
		Covers
		Backup
		Tasks
		Upload
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		ReadOnly                 bool // Reject every request that modifies the library
	}
	Database struct {
		Path string
	}
	Metadata struct {
		GoogleBooksURL    string
		GoogleBooksAPIKey string
		OpenLibraryURL    string
		Timeout           time.Duration
		EnrichDelay       time.Duration // Minimum spacing between lookups in a batch
	}
	Export struct {
		Filename string
	}
	Covers struct {
		CacheDir string // Empty disables the local cover cache
	}
	Backup struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Dir      string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Upload struct {
		MaxMB int64
	}
	Log struct {
		Level  string
		Format string // "console" or "json"
	}
)

// MaxBytes is the upload limit in bytes.
func (u Upload) MaxBytes() int64 {
	return u.MaxMB << 20
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("read_only", false)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Metadata providers; empty URLs mean the public endpoints
	v.SetDefault("google_books_url", "")
	v.SetDefault("google_books_api_key", "")
	v.SetDefault("openlibrary_url", "")
	v.SetDefault("metadata_timeout", "10s")
	v.SetDefault("enrich_delay", "100ms")

	v.SetDefault("export_filename", "biblioteca_libros.xlsx")
	v.SetDefault("covers_cache_dir", "")

	v.SetDefault("backup_enabled", false)
	v.SetDefault("backup_schedule", "0 3 * * *")
	v.SetDefault("backup_dir", DefaultBackupDir)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("max_upload_mb", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			ReadOnly:                 v.GetBool("READ_ONLY"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Metadata: Metadata{
			GoogleBooksURL:    v.GetString("GOOGLE_BOOKS_URL"),
			GoogleBooksAPIKey: v.GetString("GOOGLE_BOOKS_API_KEY"),
			OpenLibraryURL:    v.GetString("OPENLIBRARY_URL"),
			Timeout:           v.GetDuration("METADATA_TIMEOUT"),
			EnrichDelay:       v.GetDuration("ENRICH_DELAY"),
		},
		Export: Export{
			Filename: v.GetString("EXPORT_FILENAME"),
		},
		Covers: Covers{
			CacheDir: v.GetString("COVERS_CACHE_DIR"),
		},
		Backup: Backup{
			Enabled:  v.GetBool("BACKUP_ENABLED"),
			Schedule: v.GetString("BACKUP_SCHEDULE"),
			Dir:      v.GetString("BACKUP_DIR"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Upload: Upload{
			MaxMB: v.GetInt64("MAX_UPLOAD_MB"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}
