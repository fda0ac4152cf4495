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
		Uploads
		Media
		Import
		Tasks
		Cleanup
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Uploads struct {
		Dir          string // Where committed uploads are spilled before background processing
		MaxSizeBytes int64  // Upload size limit, enforced at the HTTP boundary
	}
	Media struct {
		Dir string // Where extracted attachments are stored
	}
	Import struct {
		PreviewCardCap int // How many cards a preview response includes
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Cleanup struct {
		Enabled   bool
		Schedule  string        // Cron format: "0 * * * *" = hourly
		Retention time.Duration // How long finished import sessions are kept
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("uploads_dir", "./uploads")
	v.SetDefault("max_upload_size_bytes", int64(100*1024*1024)) // 100 MB
	v.SetDefault("media_dir", "./media")
	v.SetDefault("preview_card_cap", 10)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Session cleanup defaults
	v.SetDefault("cleanup_enabled", true)
	v.SetDefault("cleanup_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("cleanup_retention", "72h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Uploads: Uploads{
			Dir:          v.GetString("UPLOADS_DIR"),
			MaxSizeBytes: v.GetInt64("MAX_UPLOAD_SIZE_BYTES"),
		},
		Media: Media{
			Dir: v.GetString("MEDIA_DIR"),
		},
		Import: Import{
			PreviewCardCap: v.GetInt("PREVIEW_CARD_CAP"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Cleanup: Cleanup{
			Enabled:   v.GetBool("CLEANUP_ENABLED"),
			Schedule:  v.GetString("CLEANUP_SCHEDULE"),
			Retention: v.GetDuration("CLEANUP_RETENTION"),
		},
	}
}
