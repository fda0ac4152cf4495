package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	apkgImporter := NewAPKGImportController(cfg)
	sessionsController := NewSessionsController(cfg.Sessions)
	decksController := NewDecksController(cfg.Flashcards)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Import endpoints
	router.POST("/import/apkg", apkgImporter.Import)
	router.GET("/import/sessions/:id", sessionsController.Get)

	// Deck browsing endpoints
	router.GET("/api/decks", decksController.List)
	router.GET("/api/decks/:id/cards", decksController.Cards)

	// Stored attachments, rewritten card references point here
	if cfg.MediaDir != "" {
		router.Static("/media", cfg.MediaDir)
	}

	return router
}
