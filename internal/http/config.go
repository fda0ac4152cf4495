package http

import (
	"github.com/avolkov/memodeck/internal/database"
	"github.com/avolkov/memodeck/internal/database/flashcards"
	"github.com/avolkov/memodeck/internal/database/sessions"
	"github.com/avolkov/memodeck/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database   *database.Database
	Flashcards *flashcards.Repository
	Sessions   *sessions.Repository

	// Upload handling
	UploadsDir     string
	MaxUploadBytes int64
	PreviewCardCap int

	// Media serving: directory the stored attachments live in, served
	// under /media
	MediaDir string

	// Background processing; nil disables commit mode
	TaskClient *tasks.Client

	// Application info
	Version string
}
