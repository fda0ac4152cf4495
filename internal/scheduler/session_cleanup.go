package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avolkov/memodeck/internal/database/sessions"
)

// SessionCleanupScheduler periodically removes finished import sessions
// and their spilled upload files once they age past the retention window.
type SessionCleanupScheduler struct {
	sessions  *sessions.Repository
	schedule  string
	retention time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewSessionCleanupScheduler creates a new scheduler instance.
func NewSessionCleanupScheduler(repo *sessions.Repository, schedule string, retention time.Duration) *SessionCleanupScheduler {
	return &SessionCleanupScheduler{
		sessions:  repo,
		schedule:  schedule,
		retention: retention,
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *SessionCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session cleanup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Session cleanup scheduler: started with schedule '%s', retention %v", s.schedule, s.retention)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *SessionCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Session cleanup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *SessionCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will occur.
func (s *SessionCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow triggers an immediate cleanup pass.
func (s *SessionCleanupScheduler) RunNow() {
	go s.runCleanup()
}

// runCleanup deletes stale sessions and their uploaded archives.
func (s *SessionCleanupScheduler) runCleanup() {
	cutoff := time.Now().Add(-s.retention)

	uploadPaths, err := s.sessions.DeleteFinishedBefore(cutoff)
	if err != nil {
		log.Printf("Session cleanup: failed to delete stale sessions: %v", err)
		return
	}

	var removed int
	for _, path := range uploadPaths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Session cleanup: warning - failed to remove upload %s: %v", path, err)
			continue
		}
		removed++
	}

	if len(uploadPaths) > 0 {
		log.Printf("Session cleanup: removed %d sessions and %d upload files older than %v",
			len(uploadPaths), removed, s.retention)
	}
}
