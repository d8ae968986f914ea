// Package listeners connects bus events to metrics, the live channel and
// the job queue.
package listeners

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/souqhup/app/jobs"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/event"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
	"github.com/shashiranjanraj/souqhup/pkg/mail"
	"github.com/shashiranjanraj/souqhup/pkg/metrics"
	"github.com/shashiranjanraj/souqhup/pkg/queue"
)

// Live topics pushed to connected clients.
const (
	TopicFlags   = "flags.changed"
	TopicTrend   = "ledger.trend"
	TopicLedger  = "ledger.toggled"
	TopicMessage = "chat.message"

	TopicAutomation = "automation.rotated"
)

// Hub is the live channel the listeners push to.
type Hub interface {
	Broadcast(topic string, payload interface{}) error
	SendTo(device, topic string, payload interface{}) error
}

// Register subscribes the metric listeners, and the push listeners when
// hub is set. Published posts are announced through q so a slow hub
// never holds up the publisher.
func Register(bus *event.Bus, hub Hub, q services.Dispatcher) {
	bus.Listen(event.SessionLogin, func(p interface{}) {
		if e, ok := p.(services.SessionEvent); ok {
			metrics.Logins.WithLabelValues(string(e.Role)).Inc()
		}
	})
	bus.Listen(event.FlagChanged, func(p interface{}) {
		if e, ok := p.(services.FlagEvent); ok {
			metrics.FlagToggles.WithLabelValues(string(e.Service), strconv.FormatBool(e.Enabled)).Inc()
		}
	})
	bus.Listen(event.LedgerToggled, func(p interface{}) {
		if e, ok := p.(services.LedgerEvent); ok {
			metrics.LedgerToggles.WithLabelValues(e.Set, strconv.FormatBool(e.Member)).Inc()
		}
	})
	bus.Listen(event.UpgradePrompt, func(p interface{}) {
		if e, ok := p.(services.UpgradeEvent); ok {
			metrics.UpgradePrompts.WithLabelValues(string(e.Service)).Inc()
		}
	})
	bus.Listen(event.PostPublished, func(interface{}) { metrics.PostsPublished.Inc() })
	bus.Listen(event.ChatMessage, func(interface{}) { metrics.ChatMessages.Inc() })
	bus.Listen(event.GenAICalled, func(p interface{}) {
		if e, ok := p.(services.GenAIEvent); ok {
			metrics.GenAICalls.WithLabelValues(e.Feature, e.Outcome).Inc()
		}
	})
	bus.Listen(event.AutomationRotated, func(p interface{}) {
		if e, ok := p.(services.AutomationEvent); ok {
			metrics.AutomationRotations.WithLabelValues(string(e.Service), string(e.Strategy)).Inc()
		}
	})

	if hub == nil {
		return
	}

	bus.Listen(event.FlagChanged, func(p interface{}) { push(hub.Broadcast(TopicFlags, p)) })
	bus.Listen(event.TrendChanged, func(p interface{}) { push(hub.Broadcast(TopicTrend, p)) })
	bus.Listen(event.LedgerToggled, func(p interface{}) { push(hub.Broadcast(TopicLedger, p)) })
	bus.Listen(event.AutomationRotated, func(p interface{}) { push(hub.Broadcast(TopicAutomation, p)) })
	bus.Listen(event.ChatMessage, func(p interface{}) {
		if e, ok := p.(services.ChatEvent); ok {
			push(hub.SendTo(e.DeviceID, TopicMessage, e))
		}
	})

	if q == nil {
		return
	}
	bus.Listen(event.PostPublished, func(p interface{}) {
		e, ok := p.(services.PostEvent)
		if !ok {
			return
		}
		job := jobs.NewPostBroadcast(nil)
		job.Post = e.Post
		if err := q.Dispatch(context.Background(), job); err != nil {
			logger.Warn("listeners: queue post broadcast", "post_id", e.Post.ID, "error", err)
		}
	})
}

// RegisterJobs makes the queued jobs decodable by the workers.
func RegisterJobs(m *queue.Manager, hub jobs.Broadcaster, db *gorm.DB, mailer mail.Sender) {
	m.Register(jobs.PostBroadcastName, func() queue.Job { return jobs.NewPostBroadcast(hub) })
	m.Register(jobs.BetaInviteName, func() queue.Job { return jobs.NewBetaInvite(db, mailer) })
}

func push(err error) {
	if err != nil {
		logger.Warn("listeners: live push dropped", "error", err)
	}
}
