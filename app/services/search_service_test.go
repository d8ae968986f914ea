package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/event"
	"github.com/shashiranjanraj/souqhup/pkg/genai"
	"github.com/shashiranjanraj/souqhup/pkg/workerpool"
)

type fakeAI struct {
	mu    sync.Mutex
	text  string
	err   error
	block chan struct{}
	calls [][]genai.Part
}

func (f *fakeAI) Generate(ctx context.Context, parts ...genai.Part) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, parts)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func (f *fakeAI) lastParts() []genai.Part {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func images(n int) []services.SearchImage {
	out := make([]services.SearchImage, n)
	for i := range out {
		out[i] = services.SearchImage{MimeType: "image/jpeg", Data: "aGk="}
	}
	return out
}

func newSearch(t *testing.T, ai services.Generator) *services.VisualSearch {
	t.Helper()
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)
	return services.NewVisualSearch(ai, pool, time.Millisecond, event.NewBus())
}

func TestSearchReturnsCategoryAndSixMatches(t *testing.T) {
	ai := &fakeAI{text: "  Cotton Bales \n"}
	res, err := newSearch(t, ai).Search(context.Background(), "d1", images(6))
	require.NoError(t, err)

	assert.Equal(t, "Cotton Bales", res.Category)
	assert.Equal(t, 4, res.Used)
	require.Len(t, res.Matches, 6)
	assert.Equal(t, "hup-search-0", res.Matches[0].ID)
	assert.Equal(t, "https://picsum.photos/seed/market-res-40/600/600", res.Matches[0].Image)
	assert.Equal(t, services.SearchMerchant{ID: "m-hatoo-5", Name: "Al-Amin Group"}, res.Matches[5].Merchant)

	parts := ai.lastParts()
	require.Len(t, parts, 5)
	assert.Contains(t, parts[4].Text, "Egyptian wholesale market")
}

func TestSearchFallbackCategory(t *testing.T) {
	res, err := newSearch(t, &fakeAI{err: genai.ErrNoContent}).Search(context.Background(), "d1", images(1))
	require.NoError(t, err)
	assert.Equal(t, "Wholesale Merchandise", res.Category)
}

func TestSearchModelFailureIsEmptyResult(t *testing.T) {
	res, err := newSearch(t, &fakeAI{err: errors.New("boom")}).Search(context.Background(), "d1", images(1))
	require.NoError(t, err)
	assert.Empty(t, res.Category)
	assert.Empty(t, res.Matches)
}

func TestSearchNeedsImages(t *testing.T) {
	_, err := newSearch(t, &fakeAI{}).Search(context.Background(), "d1", nil)
	assert.ErrorIs(t, err, services.ErrNoImages)
}

func TestOneSearchPerDevice(t *testing.T) {
	ai := &fakeAI{text: "Denim", block: make(chan struct{})}
	s := newSearch(t, ai)

	done := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), "d1", images(1))
		done <- err
	}()

	require.Eventually(t, func() bool {
		ai.mu.Lock()
		defer ai.mu.Unlock()
		return len(ai.calls) == 1
	}, time.Second, time.Millisecond)

	_, err := s.Search(context.Background(), "d1", images(1))
	assert.ErrorIs(t, err, services.ErrSearchInFlight)

	close(ai.block)
	require.NoError(t, <-done)

	_, err = s.Search(context.Background(), "d1", images(1))
	assert.NoError(t, err)
}

// stubbornAI ignores cancellation and returns only once block is closed.
type stubbornAI struct {
	started chan struct{}
	block   chan struct{}
}

func (s *stubbornAI) Generate(context.Context, ...genai.Part) (string, error) {
	select {
	case s.started <- struct{}{}:
	default:
	}
	<-s.block
	return "Linen", nil
}

func TestSlotHeldUntilPooledCallEnds(t *testing.T) {
	ai := &stubbornAI{started: make(chan struct{}, 1), block: make(chan struct{})}
	s := newSearch(t, ai)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Search(ctx, "d1", images(1))
		done <- err
	}()
	<-ai.started
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	_, err := s.Search(context.Background(), "d1", images(1))
	assert.ErrorIs(t, err, services.ErrSearchInFlight)

	close(ai.block)
	require.Eventually(t, func() bool {
		res, err := s.Search(context.Background(), "d1", images(1))
		return err == nil && res.Category == "Linen"
	}, time.Second, 5*time.Millisecond)
}

func TestSearchCancelledDuringLatency(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()
	s := services.NewVisualSearch(&fakeAI{text: "Silk"}, pool, time.Hour, event.NewBus())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Search(ctx, "d1", images(1))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInsightAnalyze(t *testing.T) {
	ai := &fakeAI{text: "Hot lead: weekly volume."}
	pool := workerpool.New(1)
	defer pool.Shutdown()
	in := services.NewInsights(models.SeedInquiries(), ai, pool, event.NewBus())

	inq, err := in.Analyze(context.Background(), "d1", "Cairo Textiles Co.", 1)
	require.NoError(t, err)
	assert.Equal(t, "Hot lead: weekly volume.", inq.AIInsight)
	assert.Equal(t, "Hot lead: weekly volume.", in.List()[0].AIInsight)

	prompt := ai.lastParts()[0].Text
	assert.Contains(t, prompt, "Analyze this wholesale inquiry for Cairo Textiles Co.")
	assert.Contains(t, prompt, "Buyer: Ahmed M. from Giza Wholesale.")
	assert.Contains(t, prompt, "Quantity: 500kg / Week")
}

func TestInsightFallbackAndFailure(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	in := services.NewInsights(models.SeedInquiries(), &fakeAI{text: "  "}, pool, event.NewBus())
	inq, err := in.Analyze(context.Background(), "d1", "m", 2)
	require.NoError(t, err)
	assert.Equal(t, "Insight unavailable", inq.AIInsight)

	in = services.NewInsights(models.SeedInquiries(), &fakeAI{err: errors.New("down")}, pool, event.NewBus())
	inq, err = in.Analyze(context.Background(), "d1", "m", 2)
	require.NoError(t, err)
	assert.Empty(t, inq.AIInsight)

	_, err = in.Analyze(context.Background(), "d1", "m", 99)
	assert.ErrorIs(t, err, services.ErrUnknownInquiry)
}
