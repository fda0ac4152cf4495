package tasks

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/avolkov/memodeck/internal/apkg"
	"github.com/avolkov/memodeck/internal/database/sessions"
	"github.com/avolkov/memodeck/internal/entities"
	"github.com/avolkov/memodeck/internal/services"
)

// ImportAPKGTask processes one committed APKG upload in the background:
// run the full pipeline over the spilled archive and persist the result.
type ImportAPKGTask struct {
	SessionID uint   `json:"session_id"`
	Path      string `json:"path"`
}

// Config returns the queue configuration for APKG import tasks.
func (t ImportAPKGTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_apkg",
		MaxAttempts: 2,
		Backoff:     30 * time.Second,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportAPKGProcessor creates a processor function for ImportAPKGTask.
func ImportAPKGProcessor(importer *services.ImportService, sessionRepo *sessions.Repository) backlite.QueueProcessor[ImportAPKGTask] {
	return func(ctx context.Context, task ImportAPKGTask) error {
		if err := sessionRepo.MarkRunning(task.SessionID); err != nil {
			return fmt.Errorf("mark session %d running: %w", task.SessionID, err)
		}

		buf, err := os.ReadFile(task.Path)
		if err != nil {
			failSession(sessionRepo, task.SessionID, err)
			return fmt.Errorf("read upload %s: %w", task.Path, err)
		}

		onProgress := func(done, total int, stage string) {
			if err := sessionRepo.Progress(task.SessionID, done, total); err != nil {
				log.Printf("[TASK] failed to record progress for session %d: %v", task.SessionID, err)
			}
		}

		result, pipeline, err := apkg.ImportWithMedia(ctx, buf, onProgress)
		if err != nil {
			failSession(sessionRepo, task.SessionID, err)
			return fmt.Errorf("import session %d: %w", task.SessionID, err)
		}
		defer pipeline.Close()

		summary, err := importer.Commit(result, pipeline.Media())
		if err != nil {
			failSession(sessionRepo, task.SessionID, err)
			return fmt.Errorf("persist session %d: %w", task.SessionID, err)
		}

		session, err := sessionRepo.Get(task.SessionID)
		if err != nil {
			return fmt.Errorf("load session %d: %w", task.SessionID, err)
		}
		now := time.Now()
		session.Status = entities.ImportStatusCompleted
		session.DeckLabel = summary.DeckName
		session.NotesProcessed = result.Stats.NoteCount + result.Stats.SkippedNoteCount
		session.NotesTotal = len(result.Collection.Notes)
		session.CardsCreated = summary.CardsCreated
		session.NotesSkipped = result.Stats.SkippedNoteCount
		session.MediaStored = summary.MediaStored
		session.CompletedAt = &now
		if err := sessionRepo.Update(session); err != nil {
			return fmt.Errorf("finalize session %d: %w", task.SessionID, err)
		}

		log.Printf("[TASK] Imported %d cards into deck %q (session %d, %d notes skipped)",
			summary.CardsCreated, summary.DeckName, task.SessionID, result.Stats.SkippedNoteCount)
		return nil
	}
}

func failSession(sessionRepo *sessions.Repository, id uint, cause error) {
	if err := sessionRepo.MarkFailed(id, cause); err != nil {
		log.Printf("[TASK ERROR] failed to mark session %d failed: %v", id, err)
	}
}

// NewImportAPKGQueue creates a backlite queue for APKG import tasks.
func NewImportAPKGQueue(importer *services.ImportService, sessionRepo *sessions.Repository) backlite.Queue {
	return backlite.NewQueue(ImportAPKGProcessor(importer, sessionRepo))
}
