package jobs

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/souqhup/app/models"
)

const PostBroadcastName = "post_broadcast"

// Broadcaster pushes an event to every connected client.
type Broadcaster interface {
	Broadcast(topic string, payload interface{}) error
}

// PostBroadcast announces a newly published post to all open libraries.
type PostBroadcast struct {
	Post models.Post `json:"post"`

	hub Broadcaster
}

func NewPostBroadcast(hub Broadcaster) *PostBroadcast { return &PostBroadcast{hub: hub} }

func (j *PostBroadcast) JobName() string { return PostBroadcastName }

func (j *PostBroadcast) Handle(_ context.Context) error {
	if j.hub == nil {
		return errors.New("post broadcast: no hub")
	}
	return j.hub.Broadcast("post.published", j.Post)
}
