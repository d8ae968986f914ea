// Package event is an in-process publish/subscribe bus.
package event

import (
	"sync"
)

// Names of the events the gateway fires.
const (
	SessionLogin   = "session.login"
	SessionLogout  = "session.logout"
	FlagChanged    = "flags.changed"
	TrendChanged   = "ledger.trend"
	PostPublished  = "post.published"
	ChatMessage    = "chat.message"
	UpgradePrompt  = "view.upgrade_prompt"
	ProfileUpdated = "profile.updated"
	LedgerToggled  = "ledger.toggled"
	GenAICalled    = "genai.called"

	AutomationRotated = "automation.rotated"
)

// Handler receives an event payload.
type Handler func(payload interface{})

// Bus holds listeners keyed by event name.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for name.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	b.handlers[name] = append(b.handlers[name], h)
	b.mu.Unlock()
}

func (b *Bus) snapshot(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[name]))
	copy(hs, b.handlers[name])
	return hs
}

// Fire runs every listener of name on the caller's goroutine, in
// registration order.
func (b *Bus) Fire(name string, payload interface{}) {
	if b == nil {
		return
	}
	for _, h := range b.snapshot(name) {
		h(payload)
	}
}

// FireAsync runs every listener of name on its own goroutine.
func (b *Bus) FireAsync(name string, payload interface{}) {
	if b == nil {
		return
	}
	for _, h := range b.snapshot(name) {
		go h(payload)
	}
}
