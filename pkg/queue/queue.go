// Package queue runs background jobs on a pluggable driver.
//
// Jobs register a factory under their name and are dispatched by value:
//
//	q := queue.New(queue.NewMemoryDriver())
//	q.Register(jobs.BetaInviteName, func() queue.Job { return &jobs.BetaInvite{} })
//	_ = q.Dispatch(ctx, &jobs.BetaInvite{Email: "a@b.eg"})
//	q.Start(ctx, 2)
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/souqhup/pkg/logger"
	"github.com/shashiranjanraj/souqhup/pkg/metrics"
)

// Job is one unit of background work.
type Job interface {
	JobName() string
	Handle(ctx context.Context) error
}

// Driver stores encoded jobs between dispatch and processing.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	// Pop blocks until a payload is available. A nil payload with a nil
	// error means the driver timed out and the caller should poll again.
	Pop(ctx context.Context) ([]byte, error)
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Manager dispatches and processes jobs.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failures *failures
	maxRetry int
	backoff  time.Duration
	wg       sync.WaitGroup
}

// Option tunes a Manager.
type Option func(*Manager)

// WithRetry sets how many attempts a job gets and the linear backoff unit.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(m *Manager) {
		if attempts > 0 {
			m.maxRetry = attempts
		}
		m.backoff = backoff
	}
}

func New(d Driver, opts ...Option) *Manager {
	m := &Manager{
		driver:   d,
		registry: map[string]func() Job{},
		failures: &failures{},
		maxRetry: 3,
		backoff:  time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register makes a job name decodable by the workers.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	m.registry[name] = factory
	m.mu.Unlock()
}

// Dispatch encodes job and pushes it onto the driver.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", job.JobName(), err)
	}
	env, err := json.Marshal(envelope{Type: job.JobName(), Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return m.driver.Push(ctx, env)
}

// Start launches n workers that run until ctx is cancelled.
func (m *Manager) Start(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
}

// Wait blocks until every worker started by Start has returned.
func (m *Manager) Wait() { m.wg.Wait() }

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.driver.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw != nil {
			m.process(ctx, raw)
		}
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if lastErr = job.Handle(ctx); lastErr == nil {
			logger.Debug("queue: job processed", "type", env.Type)
			metrics.RecordQueueJob(env.Type, "success", start)
			return
		}
		logger.Warn("queue: job failed", "type", env.Type, "attempt", attempt, "error", lastErr)
		if attempt < m.maxRetry && !sleep(ctx, time.Duration(attempt)*m.backoff) {
			break
		}
	}

	metrics.RecordQueueJob(env.Type, "failed", start)
	m.failures.record(ctx, env.Type, env.Payload, lastErr, m.maxRetry)
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
}

// sleep waits d or until ctx ends. Returns false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
