package listeners_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/app/listeners"
	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/event"
	"github.com/shashiranjanraj/souqhup/pkg/metrics"
	"github.com/shashiranjanraj/souqhup/pkg/queue"
)

type pushed struct {
	device string
	topic  string
}

type fakeHub struct {
	mu   sync.Mutex
	sent []pushed
}

func (h *fakeHub) Broadcast(topic string, _ interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, pushed{topic: topic})
	return nil
}

func (h *fakeHub) SendTo(device, topic string, _ interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, pushed{device: device, topic: topic})
	return nil
}

func (h *fakeHub) topics() []pushed {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]pushed(nil), h.sent...)
}

func TestMetricListeners(t *testing.T) {
	bus := event.NewBus()
	listeners.Register(bus, nil, nil)

	before := testutil.ToFloat64(metrics.Logins.WithLabelValues("MERCHANT"))
	bus.Fire(event.SessionLogin, services.SessionEvent{DeviceID: "d1", Role: models.RoleMerchant})
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Logins.WithLabelValues("MERCHANT")))

	beforeCalls := testutil.ToFloat64(metrics.GenAICalls.WithLabelValues("visual_search", "ok"))
	bus.Fire(event.GenAICalled, services.GenAIEvent{Feature: "visual_search", Outcome: "ok"})
	assert.Equal(t, beforeCalls+1, testutil.ToFloat64(metrics.GenAICalls.WithLabelValues("visual_search", "ok")))

	rotations := metrics.AutomationRotations.WithLabelValues("Souq Store", "TRENDING")
	beforeRotations := testutil.ToFloat64(rotations)
	bus.Fire(event.AutomationRotated, services.AutomationEvent{ProfileID: "5", Service: models.ServiceSouqStore, Strategy: models.StrategyTrending})
	assert.Equal(t, beforeRotations+1, testutil.ToFloat64(rotations))
}

func TestPushListeners(t *testing.T) {
	bus := event.NewBus()
	hub := &fakeHub{}
	listeners.Register(bus, hub, nil)

	bus.Fire(event.FlagChanged, services.FlagEvent{Service: models.ServiceHATOo, Enabled: false})
	bus.Fire(event.ChatMessage, services.ChatEvent{DeviceID: "d1", Message: models.ChatMessage{Text: "hi"}})
	bus.Fire(event.AutomationRotated, services.AutomationEvent{ProfileID: "1", Service: models.ServiceMarketLook})

	assert.Equal(t, []pushed{
		{topic: listeners.TopicFlags},
		{device: "d1", topic: listeners.TopicMessage},
		{topic: listeners.TopicAutomation},
	}, hub.topics())
}

func TestPublishedPostIsBroadcastThroughQueue(t *testing.T) {
	bus := event.NewBus()
	hub := &fakeHub{}
	q := queue.New(queue.NewMemoryDriver(), queue.WithRetry(1, 0))
	listeners.RegisterJobs(q, hub, nil, nil)
	listeners.Register(bus, hub, q)

	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx, 1)
	t.Cleanup(func() { cancel(); q.Wait() })

	bus.Fire(event.PostPublished, services.PostEvent{Post: models.Post{ID: "p-new", Title: "Cotton"}})

	require.Eventually(t, func() bool {
		for _, p := range hub.topics() {
			if p.topic == "post.published" {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}
