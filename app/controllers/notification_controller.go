package controllers

import (
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
)

type NotificationController struct {
	notifications *services.NotificationService
	sessions      *services.SessionService
}

func NewNotificationController(notifications *services.NotificationService, sessions *services.SessionService) *NotificationController {
	return &NotificationController{notifications: notifications, sessions: sessions}
}

func (n *NotificationController) Show(c *ctx.Context) {
	state, err := n.sessions.State(c.Context(), c.DeviceID())
	if err != nil {
		fail(c, err, nil)
		return
	}
	settings, err := n.notifications.Settings(c.Context(), state, c.DeviceID())
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(settings)
}

func (n *NotificationController) Toggle(c *ctx.Context) {
	state, err := n.sessions.State(c.Context(), c.DeviceID())
	if err != nil {
		fail(c, err, nil)
		return
	}
	settings, err := n.notifications.Toggle(c.Context(), state, c.DeviceID(), c.Param("key"))
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.Success(settings)
}
