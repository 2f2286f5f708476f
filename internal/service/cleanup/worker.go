package cleanup

import (
	"context"
	"log"
	"time"

	"github.com/iamasit07/connect4/internal/service/game"
)

type Worker struct {
	SessionManager *game.SessionManager
	Interval       time.Duration
	MaxIdle        time.Duration
}

func NewWorker(sm *game.SessionManager, interval, maxIdle time.Duration) *Worker {
	return &Worker{SessionManager: sm, Interval: interval, MaxIdle: maxIdle}
}

// Start runs the cleanup on every tick until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	log.Println("[CLEANUP] Background worker started")

	for {
		select {
		case <-ctx.Done():
			log.Println("[CLEANUP] Background worker stopped")
			return
		case <-ticker.C:
			w.RunCleanup()
		}
	}
}

// RunCleanup executes one eviction pass and returns how many games went.
func (w *Worker) RunCleanup() int {
	removed := w.SessionManager.CleanupIdleSessions(w.MaxIdle)
	if removed > 0 {
		log.Printf("[CLEANUP] Evicted %d games idle for more than %s", removed, w.MaxIdle)
	}
	return removed
}
