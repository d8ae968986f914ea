package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/event"
)

// ChatService keeps at most one open chat per device. Opening a chat
// replaces the previous one. Chats are never persisted.
type ChatService struct {
	mu    sync.Mutex
	chats map[string]*models.ChatContext
	bus   *event.Bus
	now   func() time.Time
}

// NewChatService closes a device's chat when it logs out.
func NewChatService(bus *event.Bus) *ChatService {
	c := &ChatService{chats: map[string]*models.ChatContext{}, bus: bus, now: time.Now}
	bus.Listen(event.SessionLogout, func(payload interface{}) {
		if e, ok := payload.(SessionEvent); ok {
			c.Close(e.DeviceID)
		}
	})
	return c
}

// Open starts a chat with merchantID or buyerName, optionally about post.
func (c *ChatService) Open(deviceID, merchantID, buyerName string, post *models.Post) models.ChatContext {
	subject := "our catalog"
	if post != nil {
		subject = post.Title
	}

	now := c.now()
	chat := &models.ChatContext{
		MerchantID: merchantID,
		BuyerName:  buyerName,
		Post:       post,
		OpenedAt:   now,
		Messages: []models.ChatMessage{{
			ID:        uuid.NewString(),
			Text:      "Direct trade channel established. Interested in " + subject + "?",
			Sender:    models.SenderOther,
			Timestamp: now,
		}},
	}

	c.mu.Lock()
	c.chats[deviceID] = chat
	out := copyChat(chat)
	c.mu.Unlock()
	return out
}

func (c *ChatService) Close(deviceID string) {
	c.mu.Lock()
	delete(c.chats, deviceID)
	c.mu.Unlock()
}

func (c *ChatService) Current(deviceID string) (models.ChatContext, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	chat, ok := c.chats[deviceID]
	if !ok {
		return models.ChatContext{}, false
	}
	return copyChat(chat), true
}

// Send appends a message from the device to its open chat.
func (c *ChatService) Send(deviceID, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}

	c.mu.Lock()
	chat, ok := c.chats[deviceID]
	if !ok {
		c.mu.Unlock()
		return models.ChatMessage{}, ErrNoChat
	}
	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    models.SenderMe,
		Timestamp: c.now(),
	}
	chat.Messages = append(chat.Messages, msg)
	c.mu.Unlock()

	c.bus.Fire(event.ChatMessage, ChatEvent{DeviceID: deviceID, Message: msg})
	return msg, nil
}

func (c *ChatService) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.chats)
}

func copyChat(chat *models.ChatContext) models.ChatContext {
	out := *chat
	out.Messages = append([]models.ChatMessage(nil), chat.Messages...)
	return out
}
