// Package jobs holds the periodic background work of the API server.
package jobs

import (
	"context"
	"log"
	"time"

	"aesthetx/internal/repositories"
)

// SessionCleanup removes expired sessions and the sessions of users who
// are deactivated or deleted.
type SessionCleanup struct {
	sessions repositories.SessionRepository
	interval time.Duration
	now      func() time.Time
}

func NewSessionCleanup(sessions repositories.SessionRepository, interval time.Duration) *SessionCleanup {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionCleanup{sessions: sessions, interval: interval, now: time.Now}
}

// Run ticks until ctx is cancelled.
func (j *SessionCleanup) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log.Printf("session cleanup scheduled every %s", j.interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("session cleanup stopped")
			return
		case <-ticker.C:
			if _, err := j.RunOnce(ctx); err != nil {
				log.Printf("⚠️ Session cleanup failed: %v", err)
			}
		}
	}
}

// RunOnce performs one sweep and returns the number of sessions removed.
func (j *SessionCleanup) RunOnce(ctx context.Context) (int64, error) {
	expired, err := j.sessions.DeleteExpired(ctx, j.now())
	if err != nil {
		return 0, err
	}
	inactive, err := j.sessions.DeleteForInactiveUsers(ctx)
	if err != nil {
		return expired, err
	}

	removed := expired + inactive
	if removed > 0 {
		log.Printf("session cleanup removed %d sessions (%d expired, %d inactive users)", removed, expired, inactive)
	}
	return removed, nil
}
