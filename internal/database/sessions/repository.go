// Package sessions tracks import sessions so upload progress can be
// polled and stale records cleaned up.
package sessions

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/memodeck/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(session *entities.ImportSession) error {
	session.Status = entities.ImportStatusPending
	session.StartedAt = time.Now()
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("create import session: %w", err)
	}
	return nil
}

func (r *Repository) Get(id uint) (*entities.ImportSession, error) {
	var session entities.ImportSession
	if err := r.db.First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *Repository) Update(session *entities.ImportSession) error {
	return r.db.Save(session).Error
}

// MarkRunning flips a pending session to running.
func (r *Repository) MarkRunning(id uint) error {
	return r.db.Model(&entities.ImportSession{}).
		Where("id = ?", id).
		Update("status", entities.ImportStatusRunning).Error
}

// MarkFailed records the failure message and completion time.
func (r *Repository) MarkFailed(id uint, cause error) error {
	now := time.Now()
	return r.db.Model(&entities.ImportSession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       entities.ImportStatusFailed,
			"error":        cause.Error(),
			"completed_at": &now,
		}).Error
}

// Progress updates the processed/total counters of a running session.
func (r *Repository) Progress(id uint, processed, total int) error {
	return r.db.Model(&entities.ImportSession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"notes_processed": processed,
			"notes_total":     total,
		}).Error
}

// DeleteFinishedBefore removes completed and failed sessions older than
// the cutoff and returns their upload spill paths for file cleanup.
func (r *Repository) DeleteFinishedBefore(cutoff time.Time) ([]string, error) {
	var stale []entities.ImportSession
	err := r.db.
		Where("status IN ?", []entities.ImportStatus{entities.ImportStatusCompleted, entities.ImportStatusFailed}).
		Where("completed_at IS NOT NULL AND completed_at < ?", cutoff).
		Find(&stale).Error
	if err != nil {
		return nil, fmt.Errorf("find stale sessions: %w", err)
	}

	paths := make([]string, 0, len(stale))
	for _, session := range stale {
		if session.UploadPath != "" {
			paths = append(paths, session.UploadPath)
		}
		if err := r.db.Delete(&entities.ImportSession{}, session.ID).Error; err != nil {
			return paths, fmt.Errorf("delete session %d: %w", session.ID, err)
		}
	}
	return paths, nil
}
