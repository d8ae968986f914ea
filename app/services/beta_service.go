package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/souqhup/app/jobs"
	"github.com/shashiranjanraj/souqhup/pkg/queue"
)

// Dispatcher queues a job for background processing.
type Dispatcher interface {
	Dispatch(ctx context.Context, job queue.Job) error
}

type BetaRequest struct {
	Name    string `json:"name"    validate:"nullable,max=120"`
	Email   string `json:"email"   validate:"required,email"`
	Company string `json:"company" validate:"nullable,max=160"`
}

// BetaService takes public beta sign-ups.
type BetaService struct {
	queue Dispatcher
}

func NewBetaService(q Dispatcher) *BetaService { return &BetaService{queue: q} }

// Request queues the invitation and returns its id.
func (s *BetaService) Request(ctx context.Context, req BetaRequest) (string, error) {
	job := &jobs.BetaInvite{
		UUID:    uuid.NewString(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Company: strings.TrimSpace(req.Company),
	}
	if err := s.queue.Dispatch(ctx, job); err != nil {
		return "", err
	}
	return job.UUID, nil
}
