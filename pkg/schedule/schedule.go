// Package schedule runs periodic maintenance tasks.
//
//	s := schedule.New()
//	s.Every(30).Seconds().Name("catalog.gauges").Run(refreshGauges)
//	s.Hourly().Name("kv.prune").WithoutOverlapping().Run(prune)
//	s.Cron("0 3 * * *").Name("nightly").Run(report)
//	s.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

// Task is the function signature for a scheduled task. ctx ends when the
// scheduler stops.
type Task func(ctx context.Context)

type entry struct {
	id        string
	interval  time.Duration
	cronExpr  string
	task      Task
	lastRun   time.Time
	running   bool
	noOverlap bool
	mu        sync.Mutex
}

// Scheduler holds the registered entries.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	wg      sync.WaitGroup
}

func New() *Scheduler { return &Scheduler{} }

// Schedule is a fluent builder for a single entry before it is registered.
type Schedule struct {
	s *Scheduler
	e *entry
}

func (s *Scheduler) EveryMinute() *Schedule { return s.Every(1).Minutes() }

// Every starts a fluent builder with n units.
func (s *Scheduler) Every(n int) *FreqBuilder { return &FreqBuilder{s: s, n: n} }

func (s *Scheduler) Hourly() *Schedule { return s.Every(1).Hours() }

func (s *Scheduler) Daily() *Schedule { return s.Every(24).Hours() }

// Cron schedules with a 5-field expression (min hour dom mon dow). It
// fires at most once per matching minute.
func (s *Scheduler) Cron(expr string) *Schedule {
	return &Schedule{s: s, e: &entry{cronExpr: expr}}
}

type FreqBuilder struct {
	s *Scheduler
	n int
}

func (f *FreqBuilder) build(unit time.Duration) *Schedule {
	return &Schedule{s: f.s, e: &entry{interval: time.Duration(f.n) * unit}}
}

func (f *FreqBuilder) Seconds() *Schedule { return f.build(time.Second) }
func (f *FreqBuilder) Minutes() *Schedule { return f.build(time.Minute) }
func (f *FreqBuilder) Hours() *Schedule   { return f.build(time.Hour) }

// WithoutOverlapping skips a run while the previous one is still executing.
func (s *Schedule) WithoutOverlapping() *Schedule {
	s.e.noOverlap = true
	return s
}

// Name gives the entry an identifier for logging.
func (s *Schedule) Name(id string) *Schedule {
	s.e.id = id
	return s
}

// Run registers the task.
func (s *Schedule) Run(fn Task) {
	s.e.task = fn
	s.s.mu.Lock()
	defer s.s.mu.Unlock()
	if s.e.id == "" {
		s.e.id = fmt.Sprintf("task-%d", len(s.s.entries)+1)
	}
	s.s.entries = append(s.s.entries, s.e)
}

// Start runs the scheduler loop in the background until ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx, time.Second)
	}()
	logger.Info("schedule: scheduler started", "tasks", len(s.List()))
}

// Wait blocks until the loop and every running task returned.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: scheduler stopped")
			return
		case now := <-ticker.C:
			s.Tick(ctx, now)
		}
	}
}

// Tick dispatches every entry due at now.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	current := make([]*entry, len(s.entries))
	copy(current, s.entries)
	s.mu.Unlock()

	for _, e := range current {
		if isDue(e, now) {
			s.dispatch(ctx, e, now)
		}
	}
}

func isDue(e *entry, now time.Time) bool {
	e.mu.Lock()
	last := e.lastRun
	e.mu.Unlock()

	if e.cronExpr != "" {
		return matchCron(e.cronExpr, now) && !sameMinute(last, now)
	}
	if last.IsZero() {
		return true
	}
	return now.Sub(last) >= e.interval
}

func sameMinute(a, b time.Time) bool {
	return !a.IsZero() && a.Truncate(time.Minute).Equal(b.Truncate(time.Minute))
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping task", "id", e.id)
		return
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "id", e.id, "panic", r)
			}
		}()

		logger.Debug("schedule: running task", "id", e.id)
		e.task(ctx)
	}()
}

// matchCron supports * | n | */step | a-b in each of the five fields.
func matchCron(expr string, t time.Time) bool {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return false
	}
	vals := []int{t.Minute(), t.Hour(), t.Day(), int(t.Month()), int(t.Weekday())}
	for i, f := range fields {
		if !matchField(f, vals[i]) {
			return false
		}
	}
	return true
}

func matchField(field string, val int) bool {
	if field == "*" {
		return true
	}
	if strings.HasPrefix(field, "*/") {
		var step int
		fmt.Sscanf(field[2:], "%d", &step)
		return step > 0 && val%step == 0
	}
	if strings.Contains(field, "-") {
		var lo, hi int
		fmt.Sscanf(field, "%d-%d", &lo, &hi)
		return val >= lo && val <= hi
	}
	var n int
	if _, err := fmt.Sscanf(field, "%d", &n); err != nil {
		return false
	}
	return n == val
}

// List describes every registered entry, for the CLI.
func (s *Scheduler) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		freq := e.cronExpr
		if freq == "" {
			freq = e.interval.String()
		}
		out = append(out, fmt.Sprintf("%s  [%s]", e.id, freq))
	}
	return out
}
