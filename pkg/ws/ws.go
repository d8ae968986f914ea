// Package ws pushes live marketplace events to browsers over
// gorilla/websocket.
//
//	hub := ws.NewHub()
//	go hub.Run(ctx)
//
//	router.Get("/ws", "ws", ctx.Wrap(func(c *ctx.Context) {
//	    ws.Upgrade(c.W, c.R, hub, c.DeviceID())
//	}))
//
//	_ = hub.Broadcast("post.published", post)
//	_ = hub.SendTo(deviceID, "chat.message", msg)
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// ErrHubBusy is returned when the outbound buffer of the hub is full.
var ErrHubBusy = errors.New("ws: hub outbound buffer full")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// Envelope is the frame exchanged in both directions.
type Envelope struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client is one connected browser tab.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	Device string
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "device_id", c.Device, "error", err)
			}
			break
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Topic == "" {
			logger.Debug("ws: dropped malformed frame", "device_id", c.Device)
			continue
		}
		c.hub.inbound <- Message{Client: c, Envelope: env}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Message is a frame received from a client.
type Message struct {
	Client   *Client
	Envelope Envelope
}

type outbound struct {
	device string // empty means every client
	data   []byte
}

// Hub tracks connected clients and fans frames out to them.
type Hub struct {
	clients    map[*Client]bool
	outbound   chan outbound
	inbound    chan Message
	register   chan *Client
	unregister chan *Client
	count      atomic.Int64

	// OnMessage is called for every inbound frame, on the hub goroutine.
	OnMessage func(hub *Hub, msg Message)
}

// NewHub creates a Hub. Call hub.Run in a goroutine at startup.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		outbound:   make(chan outbound, 256),
		inbound:    make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub event loop. It closes every client when ctx ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.count.Store(0)
			return

		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			logger.Info("ws: client connected", "device_id", client.Device, "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.count.Store(int64(len(h.clients)))
				logger.Info("ws: client disconnected", "device_id", client.Device, "total", len(h.clients))
			}

		case out := <-h.outbound:
			for client := range h.clients {
				if out.device != "" && client.Device != out.device {
					continue
				}
				select {
				case client.send <- out.data:
				default:
					close(client.send)
					delete(h.clients, client)
					h.count.Store(int64(len(h.clients)))
				}
			}

		case msg := <-h.inbound:
			if h.OnMessage != nil {
				h.OnMessage(h, msg)
			}
		}
	}
}

// Broadcast sends topic and payload to every client.
func (h *Hub) Broadcast(topic string, payload interface{}) error {
	return h.enqueue("", topic, payload)
}

// SendTo sends topic and payload to every tab of one device.
func (h *Hub) SendTo(device, topic string, payload interface{}) error {
	if device == "" {
		return errors.New("ws: empty device")
	}
	return h.enqueue(device, topic, payload)
}

func (h *Hub) enqueue(device, topic string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ws: encode %s: %w", topic, err)
	}
	data, err := json.Marshal(Envelope{Topic: topic, Payload: body})
	if err != nil {
		return fmt.Errorf("ws: encode envelope: %w", err)
	}
	select {
	case h.outbound <- outbound{device: device, data: data}:
		return nil
	default:
		return ErrHubBusy
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int { return int(h.count.Load()) }

// Upgrade upgrades the request to a websocket bound to device and
// registers it with hub.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub, device string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithCtx(r.Context()).Error("ws: upgrade failed", "error", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256), Device: device}
	hub.register <- client
	go client.writePump()
	go client.readPump()
}
