package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/event"
	"github.com/shashiranjanraj/souqhup/pkg/genai"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
	"github.com/shashiranjanraj/souqhup/pkg/workerpool"
)

const insightFallback = "Insight unavailable"

// Insights holds the buyer inquiries of the command hub and asks the model
// to rate them as leads.
type Insights struct {
	mu        sync.RWMutex
	inquiries []models.Inquiry

	ai       Generator
	pool     *workerpool.Pool
	inflight *inFlight
	bus      *event.Bus
}

func NewInsights(seed []models.Inquiry, ai Generator, pool *workerpool.Pool, bus *event.Bus) *Insights {
	inq := make([]models.Inquiry, len(seed))
	copy(inq, seed)
	return &Insights{inquiries: inq, ai: ai, pool: pool, inflight: newInFlight(), bus: bus}
}

func (s *Insights) List() []models.Inquiry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Inquiry, len(s.inquiries))
	copy(out, s.inquiries)
	return out
}

func (s *Insights) Get(id int) (models.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inq := range s.inquiries {
		if inq.ID == id {
			return inq, nil
		}
	}
	return models.Inquiry{}, ErrUnknownInquiry
}

func insightPrompt(merchantName string, inq models.Inquiry) string {
	return fmt.Sprintf(
		"Analyze this wholesale inquiry for %s. Buyer: %s from %s. Needs: %s Quantity: %s Summarize in one short punchy sentence: Is this a hot lead? What is the main urgency? Return text only.",
		merchantName, inq.UserName, inq.Company, inq.Needs, inq.Quantity,
	)
}

// Analyze asks for a one-sentence lead summary of inquiry id on behalf of
// merchantName. A failed model call leaves the inquiry without insight and
// is not an error.
func (s *Insights) Analyze(ctx context.Context, deviceID, merchantName string, id int) (models.Inquiry, error) {
	inq, err := s.Get(id)
	if err != nil {
		return inq, err
	}

	release, ok := s.inflight.TryAcquire(deviceID)
	if !ok {
		return inq, ErrAnalysisInFlight
	}
	done := releaseAfter(2, release)
	defer done()

	text, err := generate(ctx, s.pool, s.ai, s.bus, "lead_insight", []genai.Part{genai.Text(insightPrompt(merchantName, inq))}, done)
	if err != nil {
		if errors.Is(err, ErrBusy) || ctx.Err() != nil {
			return inq, err
		}
		logger.WithCtx(ctx).Error("insight: lead analysis failed", "inquiry_id", id, "error", err)
		return inq, nil
	}

	insight := strings.TrimSpace(text)
	if insight == "" {
		insight = insightFallback
	}

	s.mu.Lock()
	for i := range s.inquiries {
		if s.inquiries[i].ID == id {
			s.inquiries[i].AIInsight = insight
			inq = s.inquiries[i]
			break
		}
	}
	s.mu.Unlock()
	return inq, nil
}
