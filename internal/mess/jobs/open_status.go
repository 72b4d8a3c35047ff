package jobs

import (
	"context"
	"sync"
	"time"

	"kampuskart/internal/mess/hours"
	"kampuskart/internal/mess/model"
	"kampuskart/internal/mess/util"
)

// MessStore is the slice of the repository the job needs.
type MessStore interface {
	FindMesses(ctx context.Context, filter model.MessFilter) ([]*model.Mess, error)
	SetOpenFlags(ctx context.Context, flags map[string]bool) error
}

// OpenStatusJob keeps the stored isOpen flag of every mess in line with its
// operating hours. Reads never depend on it; it only serves consumers that
// read the collection directly.
type OpenStatusJob struct {
	store    MessStore
	location *time.Location
	interval time.Duration
	now      func() time.Time

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

func NewOpenStatusJob(store MessStore, loc *time.Location, interval time.Duration) *OpenStatusJob {
	if interval <= 0 {
		interval = time.Minute
	}
	if loc == nil {
		loc = time.UTC
	}
	return &OpenStatusJob{
		store:    store,
		location: loc,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

func (j *OpenStatusJob) Start() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.mu.Unlock()

	j.wg.Add(1)
	go j.run()
	util.GetLogger().Info("open status job started", "interval", j.interval.String())
}

// Stop waits for an in-flight pass to finish.
func (j *OpenStatusJob) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	j.mu.Unlock()

	close(j.stopCh)
	j.wg.Wait()
	util.GetLogger().Info("open status job stopped")
}

func (j *OpenStatusJob) run() {
	defer j.wg.Done()

	j.tick()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.tick()
		case <-j.stopCh:
			return
		}
	}
}

func (j *OpenStatusJob) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	changed, err := j.RunOnce(ctx)
	if err != nil {
		util.GetLogger().Error("open status refresh failed", "error", err)
		return
	}
	if changed > 0 {
		util.GetLogger().Debug("open status refreshed", "changed", changed)
	}
}

// RunOnce recomputes every flag and writes back only the ones that changed.
func (j *OpenStatusJob) RunOnce(ctx context.Context) (int, error) {
	messes, err := j.store.FindMesses(ctx, model.MessFilter{})
	if err != nil {
		return 0, err
	}

	at := j.now().In(j.location)
	flags := make(map[string]bool)
	for _, m := range messes {
		open := hours.IsCurrentlyOpen(m, at)
		if open != m.IsOpen {
			flags[m.ID] = open
		}
	}
	if len(flags) == 0 {
		return 0, nil
	}
	if err := j.store.SetOpenFlags(ctx, flags); err != nil {
		return 0, err
	}
	return len(flags), nil
}

func (j *OpenStatusJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}
