package queue

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmaia/balanco/internal/core/domain"
)

// Sender delivers one count draft to the server.
type Sender interface {
	Send(ctx context.Context, draft domain.CountDraft) error
}

// Store persists the backlog across process restarts.
type Store interface {
	Load() ([]Submission, error)
	Save(subs []Submission) error
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusInflight Status = "inflight"
	StatusFailed   Status = "failed"
)

// Submission is a count draft tracked by the queue. The ID is local,
// used only for backlog bookkeeping; the server assigns its own.
type Submission struct {
	ID         string            `json:"id"`
	Draft      domain.CountDraft `json:"draft"`
	RetryCount int               `json:"retryCount"`
	Status     Status            `json:"status"`
	LastError  string            `json:"lastError,omitempty"`
}

type Options struct {
	Concurrency   int
	RetryInterval time.Duration
	MaxAttempts   int
	SendTimeout   time.Duration
}

func (o *Options) withDefaults() {
	if o.Concurrency <= 0 {
		o.Concurrency = 3
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = 5 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
	if o.SendTimeout <= 0 {
		o.SendTimeout = 10 * time.Second
	}
}

// Queue is the offline-resilient submission pipeline: a bounded worker
// pool dispatches drafts, failures land in a durable backlog, a timer
// re-dispatches retry-eligible items, and Flush drains everything for
// an "all your counts are saved" answer.
//
// Validation failures and items that exhausted their attempts are
// parked: repeating identical input cannot succeed, so only an explicit
// Flush retries them.
type Queue struct {
	sender Sender
	store  Store
	opts   Options

	mu          sync.Mutex
	cond        *sync.Cond
	backlog     []Submission
	outstanding int
	started     bool

	sem  chan struct{}
	stop chan struct{}
	once sync.Once
}

func New(sender Sender, store Store, opts Options) *Queue {
	opts.withDefaults()
	q := &Queue{
		sender: sender,
		store:  store,
		opts:   opts,
		sem:    make(chan struct{}, opts.Concurrency),
		stop:   make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Start restores the persisted backlog and starts the retry timer. It
// must be called before Submit so counts captured before a restart are
// never silently dropped behind fresh ones.
func (q *Queue) Start() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return nil
	}

	restored, err := q.store.Load()
	if err != nil {
		return fmt.Errorf("restore backlog: %w", err)
	}
	for i := range restored {
		// An item persisted as inflight means the process died mid-send;
		// it becomes retry-eligible again.
		if restored[i].Status == StatusInflight {
			restored[i].Status = StatusPending
		}
	}
	q.backlog = restored
	q.started = true

	go q.retryLoop()
	return nil
}

// Submit enqueues a draft and dispatches it as soon as a worker slot is
// free. It never blocks the caller.
func (q *Queue) Submit(draft domain.CountDraft) string {
	sub := Submission{ID: uuid.NewString(), Draft: draft, Status: StatusPending}
	q.dispatch(sub)
	return sub.ID
}

func (q *Queue) dispatch(sub Submission) {
	q.mu.Lock()
	q.outstanding++
	q.mu.Unlock()

	go func() {
		q.sem <- struct{}{}
		ctx, cancel := context.WithTimeout(context.Background(), q.opts.SendTimeout)
		err := q.sender.Send(ctx, sub.Draft)
		cancel()
		<-q.sem
		q.settle(sub, err)
	}()
}

func (q *Queue) settle(sub Submission, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	defer func() {
		q.outstanding--
		q.cond.Broadcast()
	}()

	if err == nil {
		return
	}

	sub.RetryCount++
	sub.LastError = err.Error()
	if domain.KindOf(err) == domain.KindValidation || sub.RetryCount >= q.opts.MaxAttempts {
		sub.Status = StatusFailed
	} else {
		sub.Status = StatusPending
	}
	q.backlog = append(q.backlog, sub)
	q.persistLocked()
}

func (q *Queue) persistLocked() {
	snapshot := make([]Submission, len(q.backlog))
	copy(snapshot, q.backlog)
	if err := q.store.Save(snapshot); err != nil {
		log.Printf("failed to persist backlog: %v", err)
	}
}

func (q *Queue) retryLoop() {
	ticker := time.NewTicker(q.opts.RetryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-q.stop:
			return
		case <-ticker.C:
			q.redispatchEligible()
		}
	}
}

// redispatchEligible drains retry-eligible items out of the backlog
// before dispatching, so no item can be inflight twice.
func (q *Queue) redispatchEligible() {
	q.mu.Lock()
	var keep, eligible []Submission
	for _, sub := range q.backlog {
		if sub.Status == StatusPending {
			eligible = append(eligible, sub)
		} else {
			keep = append(keep, sub)
		}
	}
	if len(eligible) > 0 {
		q.backlog = keep
		q.persistLocked()
	}
	q.mu.Unlock()

	for _, sub := range eligible {
		q.dispatch(sub)
	}
}

// Flush waits for in-flight work to settle, re-attempts every backlog
// item exactly once (parked ones included, this is the manual retry),
// waits again, and persists whatever is left.
func (q *Queue) Flush(ctx context.Context) error {
	if err := q.waitIdle(ctx); err != nil {
		return err
	}

	q.mu.Lock()
	items := q.backlog
	q.backlog = nil
	if len(items) > 0 {
		q.persistLocked()
	}
	q.mu.Unlock()

	for _, sub := range items {
		sub.Status = StatusPending
		q.dispatch(sub)
	}

	if err := q.waitIdle(ctx); err != nil {
		return err
	}

	q.mu.Lock()
	q.persistLocked()
	q.mu.Unlock()
	return nil
}

func (q *Queue) waitIdle(ctx context.Context) error {
	watcherDone := make(chan struct{})
	defer close(watcherDone)
	go func() {
		select {
		case <-ctx.Done():
			// The broadcast must hold the mutex, or a waiter between its
			// ctx.Err() check and cond.Wait() misses the wakeup.
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		case <-watcherDone:
		}
	}()

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.outstanding > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		q.cond.Wait()
	}
	return ctx.Err()
}

// Backlog returns a copy of the current backlog for a "pending sync" view.
func (q *Queue) Backlog() []Submission {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Submission, len(q.backlog))
	copy(out, q.backlog)
	return out
}

// Close stops the retry timer. In-flight sends finish on their own;
// retries are bounded, so abandoned work self-terminates.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.stop) })
}
