package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/souqhup/pkg/event"
	"github.com/shashiranjanraj/souqhup/pkg/genai"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
	"github.com/shashiranjanraj/souqhup/pkg/workerpool"
)

const (
	// MaxSearchImages is how many photos one visual search looks at.
	MaxSearchImages = 4

	searchPrompt   = "Briefly identify exactly what products are in these photos for the Egyptian wholesale market. Return only the product category name in 3 words max."
	searchFallback = "Wholesale Merchandise"
	searchResults  = 6
)

var searchMerchants = []string{"Al-Amin Group", "Delta Trading", "Cairo Importers", "Port Said Hub", "Nile Suppliers"}

// Generator produces text from a multimodal prompt.
type Generator interface {
	Generate(ctx context.Context, parts ...genai.Part) (string, error)
}

// SearchImage is one uploaded photo, base64 encoded.
type SearchImage struct {
	MimeType string `json:"mime_type" validate:"required,media"`
	Data     string `json:"data"      validate:"required,base64"`
}

type SearchMerchant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SearchMatch struct {
	ID       string         `json:"id"`
	Image    string         `json:"image"`
	Merchant SearchMerchant `json:"merchant"`
}

// SearchResult is empty when the model call failed.
type SearchResult struct {
	Category string        `json:"category,omitempty"`
	Matches  []SearchMatch `json:"matches"`
	Used     int           `json:"images_used"`
}

// VisualSearch identifies products in photos and returns matching catalog
// listings. A device runs at most one search at a time.
type VisualSearch struct {
	ai       Generator
	pool     *workerpool.Pool
	latency  time.Duration
	inflight *inFlight
	bus      *event.Bus
}

func NewVisualSearch(ai Generator, pool *workerpool.Pool, latency time.Duration, bus *event.Bus) *VisualSearch {
	return &VisualSearch{ai: ai, pool: pool, latency: latency, inflight: newInFlight(), bus: bus}
}

// Search runs one visual search for deviceID. Only the first
// MaxSearchImages images are sent.
func (s *VisualSearch) Search(ctx context.Context, deviceID string, images []SearchImage) (SearchResult, error) {
	if len(images) == 0 {
		return SearchResult{}, ErrNoImages
	}
	if len(images) > MaxSearchImages {
		images = images[:MaxSearchImages]
	}

	release, ok := s.inflight.TryAcquire(deviceID)
	if !ok {
		return SearchResult{}, ErrSearchInFlight
	}
	done := releaseAfter(2, release)
	defer done()

	parts := make([]genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, genai.Image(img.MimeType, img.Data))
	}
	parts = append(parts, genai.Text(searchPrompt))

	text, err := generate(ctx, s.pool, s.ai, s.bus, "visual_search", parts, done)
	if err != nil {
		if errors.Is(err, ErrBusy) || ctx.Err() != nil {
			return SearchResult{}, err
		}
		logger.WithCtx(ctx).Error("hatoo: product identification failed", "device_id", deviceID, "error", err)
		return SearchResult{Matches: []SearchMatch{}, Used: len(images)}, nil
	}

	category := strings.TrimSpace(text)
	if category == "" {
		category = searchFallback
	}

	if err := sleep(ctx, s.latency); err != nil {
		return SearchResult{}, err
	}

	matches := make([]SearchMatch, searchResults)
	for i := range matches {
		matches[i] = SearchMatch{
			ID:    fmt.Sprintf("hup-search-%d", i),
			Image: fmt.Sprintf("https://picsum.photos/seed/market-res-%d/600/600", i+40),
			Merchant: SearchMerchant{
				ID:   fmt.Sprintf("m-hatoo-%d", i),
				Name: searchMerchants[i%len(searchMerchants)],
			},
		}
	}
	return SearchResult{Category: category, Matches: matches, Used: len(images)}, nil
}

// generate runs one model call on the pool. finished is called once the
// call is over, which may be after generate returned on a cancelled ctx.
// An empty model answer is not an error; the caller substitutes its
// fallback text.
func generate(ctx context.Context, pool *workerpool.Pool, ai Generator, bus *event.Bus, feature string, parts []genai.Part, finished func()) (string, error) {
	var (
		text    string
		callErr error
	)
	err := pool.Run(ctx, func(ctx context.Context) {
		defer finished()
		text, callErr = ai.Generate(ctx, parts...)
	})
	switch {
	case errors.Is(err, workerpool.ErrPoolFull), errors.Is(err, workerpool.ErrPoolClosed):
		finished()
		bus.Fire(event.GenAICalled, GenAIEvent{Feature: feature, Outcome: "rejected"})
		return "", ErrBusy
	case err != nil:
		return "", err
	}

	if errors.Is(callErr, genai.ErrNoContent) {
		callErr = nil
	}
	outcome := "ok"
	if callErr != nil {
		outcome = "error"
	}
	bus.Fire(event.GenAICalled, GenAIEvent{Feature: feature, Outcome: outcome})
	return text, callErr
}
