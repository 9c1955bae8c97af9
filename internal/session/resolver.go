package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CommitFunc receives the outcome of a resolution that was not superseded
type CommitFunc func(name string, err error)

type task struct {
	gen        uint64
	cancel     context.CancelFunc
	done       chan struct{}
	committing bool
}

// Resolver runs school-name lookups in the background. Each key has at most one live task:
// starting a new one cancels the previous, and only the latest task may commit.
type Resolver struct {
	finder  SchoolNameFinder
	timeout time.Duration
	logger  zerolog.Logger

	mu      sync.Mutex
	tasks   map[string]*task
	nextGen uint64
	closed  bool
	wg      sync.WaitGroup
}

// NewResolver creates a resolver; timeout bounds a single lookup
func NewResolver(finder SchoolNameFinder, timeout time.Duration, logger zerolog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Resolver{
		finder:  finder,
		timeout: timeout,
		logger:  logger,
		tasks:   make(map[string]*task),
	}
}

// Start launches a lookup of schoolID under key. parent supplies request values such as the
// backend token; its cancellation is not inherited so the lookup outlives the request.
func (r *Resolver) Start(parent context.Context, key, schoolID string, commit CommitFunc) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.cancelLocked(key)

	r.nextGen++
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), r.timeout)
	t := &task{gen: r.nextGen, cancel: cancel, done: make(chan struct{})}
	r.tasks[key] = t
	r.wg.Add(1)
	r.mu.Unlock()

	go r.run(ctx, key, schoolID, t, commit)
}

func (r *Resolver) run(ctx context.Context, key, schoolID string, t *task, commit CommitFunc) {
	defer r.wg.Done()
	defer close(t.done)
	defer t.cancel()

	name, err := r.finder.FindSchoolName(ctx, schoolID)

	r.mu.Lock()
	if cur, ok := r.tasks[key]; !ok || cur != t {
		r.mu.Unlock()
		r.logger.Debug().Str("key", key).Uint64("generation", t.gen).Msg("Discarding superseded school name resolution")
		return
	}
	t.committing = true
	r.mu.Unlock()

	// The commit may hit a remote store; other keys stay usable meanwhile
	commit(name, err)

	r.mu.Lock()
	if cur, ok := r.tasks[key]; ok && cur == t {
		delete(r.tasks, key)
	}
	r.mu.Unlock()
}

// Cancel stops the task under key, if any. A cancelled task never commits; one already
// committing is waited for, so the caller observes its write.
func (r *Resolver) Cancel(key string) {
	r.mu.Lock()
	t, ok := r.tasks[key]
	wait := ok && t.committing
	r.cancelLocked(key)
	r.mu.Unlock()

	if wait {
		<-t.done
	}
}

func (r *Resolver) cancelLocked(key string) {
	if t, ok := r.tasks[key]; ok {
		t.cancel()
		delete(r.tasks, key)
	}
}

// Pending reports whether a task is in flight for key
func (r *Resolver) Pending(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[key]
	return ok
}

// Done returns a channel closed when the current task for key finishes.
// It returns nil when nothing is in flight, which blocks forever in a select.
func (r *Resolver) Done(key string) <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[key]; ok {
		return t.done
	}
	return nil
}

// Close cancels every task and waits for the goroutines to exit
func (r *Resolver) Close() {
	r.mu.Lock()
	r.closed = true
	for key := range r.tasks {
		r.cancelLocked(key)
	}
	r.mu.Unlock()
	r.wg.Wait()
}
