package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultCleanupInterval is the default interval between cleanup runs.
const DefaultCleanupInterval = 10 * time.Minute

// CleanupJob periodically sweeps the registry and deactivates expired
// sessions, bounding how long lazy expiry can lag behind real time.
type CleanupJob struct {
	registry *Registry
	interval time.Duration

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewCleanupJob creates a cleanup job for the registry.
func NewCleanupJob(registry *Registry, interval time.Duration) *CleanupJob {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &CleanupJob{
		registry: registry,
		interval: interval,
	}
}

// Start begins the periodic cleanup in a goroutine. Calling Start on a
// running job is a no-op.
func (j *CleanupJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return
	}
	j.running = true
	j.stopChan = make(chan struct{})

	go j.run(ctx)

	slog.Info("session cleanup job started", "interval", j.interval)
}

// Stop stops the cleanup job.
func (j *CleanupJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return
	}
	close(j.stopChan)
	j.running = false

	slog.Info("session cleanup job stopped")
}

// RunOnce executes a single cleanup sweep immediately.
func (j *CleanupJob) RunOnce() int {
	return j.registry.CleanupExpired()
}

// IsRunning reports whether the job is currently running.
func (j *CleanupJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

func (j *CleanupJob) run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stopChan:
			return
		case <-ticker.C:
			if count := j.registry.CleanupExpired(); count > 0 {
				slog.Info("session cleanup completed", "deactivated", count)
			}
		}
	}
}
