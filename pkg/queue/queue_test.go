package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/pkg/queue"
)

var handled atomic.Int32

type echoJob struct {
	Val string `json:"val"`
}

func (echoJob) JobName() string { return "echo" }
func (j *echoJob) Handle(context.Context) error {
	if j.Val == "" {
		return errors.New("empty")
	}
	handled.Add(1)
	return nil
}

type failJob struct{}

func (failJob) JobName() string               { return "fail" }
func (*failJob) Handle(context.Context) error { return errors.New("always fails") }

func newManager(t *testing.T) (*queue.Manager, context.CancelFunc) {
	t.Helper()
	q := queue.New(queue.NewMemoryDriver(), queue.WithRetry(2, 0))
	q.Register("echo", func() queue.Job { return &echoJob{} })
	q.Register("fail", func() queue.Job { return &failJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx, 2)
	t.Cleanup(func() { cancel(); q.Wait() })
	return q, cancel
}

func TestDispatchAndProcess(t *testing.T) {
	q, _ := newManager(t)
	before := handled.Load()

	require.NoError(t, q.Dispatch(context.Background(), &echoJob{Val: "hello"}))
	assert.Eventually(t, func() bool { return handled.Load() == before+1 }, time.Second, 5*time.Millisecond)
}

func TestFailedJobIsRecorded(t *testing.T) {
	q, _ := newManager(t)

	require.NoError(t, q.Dispatch(context.Background(), &failJob{}))
	assert.Eventually(t, func() bool { return len(q.Failed()) == 1 }, time.Second, 5*time.Millisecond)

	f := q.Failed()[0]
	assert.Equal(t, "fail", f.JobType)
	assert.Equal(t, 2, f.Attempts)
	assert.Equal(t, "always fails", f.Error)
}

func TestWorkersStopOnCancel(t *testing.T) {
	q := queue.New(queue.NewMemoryDriver())
	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx, 3)
	cancel()

	done := make(chan struct{})
	go func() { q.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}
}
