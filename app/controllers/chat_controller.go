package controllers

import (
	"encoding/json"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
	"github.com/shashiranjanraj/souqhup/pkg/ws"
)

// TopicChatSend is the inbound websocket topic carrying a chat message.
const TopicChatSend = "chat.send"

type ChatController struct {
	chats   *services.ChatService
	catalog *services.Catalog
	hub     *ws.Hub
}

func NewChatController(chats *services.ChatService, catalog *services.Catalog, hub *ws.Hub) *ChatController {
	return &ChatController{chats: chats, catalog: catalog, hub: hub}
}

type openChatRequest struct {
	MerchantID string `json:"merchant_id" validate:"nullable,max=120"`
	BuyerName  string `json:"buyer_name"  validate:"nullable,max=120"`
	PostID     string `json:"post_id"     validate:"nullable,max=64"`
}

type sendRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// Show returns the open chat of the device.
func (h *ChatController) Show(c *ctx.Context) {
	chat, ok := h.chats.Current(c.DeviceID())
	if !ok {
		fail(c, services.ErrNoChat, nil)
		return
	}
	c.Success(chat)
}

// Open replaces any open chat of the device.
func (h *ChatController) Open(c *ctx.Context) {
	var req openChatRequest
	if !c.BindJSON(&req) {
		return
	}

	var post *models.Post
	if req.PostID != "" {
		p, err := h.catalog.Get(req.PostID)
		if err != nil {
			fail(c, err, nil)
			return
		}
		post = &p
		if req.MerchantID == "" {
			req.MerchantID = p.MerchantName
		}
	}
	c.Created(h.chats.Open(c.DeviceID(), req.MerchantID, req.BuyerName, post))
}

func (h *ChatController) Close(c *ctx.Context) {
	h.chats.Close(c.DeviceID())
	c.Success(nil)
}

// Send appends a message to the open chat.
func (h *ChatController) Send(c *ctx.Context) {
	var req sendRequest
	if !c.BindJSON(&req) {
		return
	}
	msg, err := h.chats.Send(c.DeviceID(), req.Text)
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Created(msg)
}

// Socket upgrades the request to the device's live channel.
func (h *ChatController) Socket(c *ctx.Context) {
	ws.Upgrade(c.W, c.R, h.hub, c.DeviceID())
}

// OnSocketMessage handles inbound frames. Failures are answered on the
// "chat.error" topic of the sending device only.
func (h *ChatController) OnSocketMessage(hub *ws.Hub, msg ws.Message) {
	if msg.Envelope.Topic != TopicChatSend {
		return
	}
	device := msg.Client.Device

	var req sendRequest
	var text string
	if err := json.Unmarshal(msg.Envelope.Payload, &req); err != nil {
		text = "Malformed chat frame"
	} else if _, err := h.chats.Send(device, req.Text); err != nil {
		_, text = statusOf(err)
	}
	if text == "" {
		return
	}
	if err := hub.SendTo(device, "chat.error", map[string]string{"message": text}); err != nil {
		logger.Warn("chat: reply to device failed", "device_id", device, "error", err)
	}
}
