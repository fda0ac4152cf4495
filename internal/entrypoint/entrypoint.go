package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/memodeck/internal/apkg"
	"github.com/avolkov/memodeck/internal/config"
	"github.com/avolkov/memodeck/internal/database"
	"github.com/avolkov/memodeck/internal/database/flashcards"
	"github.com/avolkov/memodeck/internal/database/sessions"
	http_controllers "github.com/avolkov/memodeck/internal/http"
	"github.com/avolkov/memodeck/internal/scheduler"
	"github.com/avolkov/memodeck/internal/services"
	"github.com/avolkov/memodeck/internal/storage"
	"github.com/avolkov/memodeck/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting memodeck v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	flashcardRepo := flashcards.NewRepository(db.DB)
	sessionRepo := sessions.NewRepository(db.DB)

	mediaStore, err := storage.NewMediaStore(cfg.Media.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	importService := services.NewImportService(flashcardRepo, mediaStore)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewImportAPKGQueue(importService, sessionRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Periodically drop finished import sessions and their spilled uploads
	var cleanupScheduler *scheduler.SessionCleanupScheduler
	if cfg.Cleanup.Enabled {
		cleanupScheduler = scheduler.NewSessionCleanupScheduler(sessionRepo, cfg.Cleanup.Schedule, cfg.Cleanup.Retention)
		if err := cleanupScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start session cleanup scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Flashcards:     flashcardRepo,
		Sessions:       sessionRepo,
		UploadsDir:     cfg.Uploads.Dir,
		MaxUploadBytes: cfg.Uploads.MaxSizeBytes,
		PreviewCardCap: cfg.Import.PreviewCardCap,
		MediaDir:       mediaStore.Dir(),
		TaskClient:     taskClient,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// RunImport performs a one-shot import of a local APKG file without the
// HTTP server: parse, and unless previewOnly, persist cards and media.
func RunImport(cfg *config.Config, path string, previewOnly bool) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	onProgress := func(done, total int, stage string) {
		log.Printf("Import: %s %d/%d", stage, done, total)
	}

	if previewOnly {
		result, err := apkg.Import(context.Background(), buf, onProgress)
		if err != nil {
			return err
		}
		log.Printf("Preview: deck %q, %d notes (%d skipped), %d cards, %d media files, tags: %v",
			result.Stats.Label, result.Stats.NoteCount, result.Stats.SkippedNoteCount,
			result.Stats.CardCount, result.Stats.MediaCount, result.Stats.TagSample)
		return nil
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	mediaStore, err := storage.NewMediaStore(cfg.Media.Dir)
	if err != nil {
		return fmt.Errorf("initialize media store: %w", err)
	}

	importService := services.NewImportService(flashcards.NewRepository(db.DB), mediaStore)

	result, pipeline, err := apkg.ImportWithMedia(context.Background(), buf, onProgress)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	summary, err := importService.Commit(result, pipeline.Media())
	if err != nil {
		return err
	}

	log.Printf("Imported %d cards into deck %q (category %s), %d media stored, %d media missing, %d notes skipped",
		summary.CardsCreated, summary.DeckName, summary.Category,
		summary.MediaStored, summary.MediaMissing, result.Stats.SkippedNoteCount)
	return nil
}
