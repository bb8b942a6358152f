package service

import (
	"context"
	"sync"
	"time"

	"github.com/chapelworks/mediasync/internal/collection"
	"github.com/chapelworks/mediasync/internal/logger"
	"github.com/chapelworks/mediasync/internal/store"
)

// RefreshJob periodically refreshes every collection client and persists
// the confirmed views to the snapshot cache. It also exposes Kick for
// out-of-band refreshes, used when the session's credential changes.
type RefreshJob struct {
	clients []*collection.Client
	cache   store.SnapshotCache
	logger  *logger.Logger

	kick chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefreshJob creates a RefreshJob over the given clients. The job is
// idle until Start is called.
func NewRefreshJob(clients []*collection.Client, cache store.SnapshotCache, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		clients: clients,
		cache:   cache,
		logger:  log,
		kick:    make(chan struct{}, 1),
	}
}

// Start stops any previously running job, then launches a background
// goroutine that refreshes every collection on each tick and on each
// Kick. If interval is zero or negative it defaults to 5 minutes. The
// goroutine exits when ctx is cancelled or Stop is called.
func (j *RefreshJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.refreshAll(jobCtx)
			case <-j.kick:
				j.refreshAll(jobCtx)
			}
		}
	}()
}

// Kick requests an immediate refresh round. Non-blocking; a kick while a
// round is already queued is coalesced into it.
func (j *RefreshJob) Kick() {
	select {
	case j.kick <- struct{}{}:
	default:
	}
}

// Stop cancels the background goroutine and blocks until it has fully
// exited. Safe to call when the job is not running.
func (j *RefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *RefreshJob) refreshAll(ctx context.Context) {
	for _, client := range j.clients {
		if err := client.Refresh(ctx); err != nil {
			// the previous view stays on screen; the next round retries
			j.logger.Warn().Err(err).Str("collection", client.Collection()).Msg("refresh failed")
			continue
		}

		if j.cache == nil {
			continue
		}
		if err := j.cache.Save(ctx, client.Collection(), client.Records()); err != nil {
			j.logger.Warn().Err(err).Str("collection", client.Collection()).Msg("snapshot save failed")
		}
	}
}
