package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/event"
)

func TestLikeAddsFavorite(t *testing.T) {
	l := services.NewLedger(event.NewBus())

	assert.True(t, l.ToggleLike("p1"))
	assert.True(t, l.IsLiked("p1"))
	assert.True(t, l.IsFavorited("p1"))
}

func TestUnlikeKeepsFavorite(t *testing.T) {
	l := services.NewLedger(event.NewBus())

	l.ToggleLike("p1")
	assert.False(t, l.ToggleLike("p1"))
	assert.False(t, l.IsLiked("p1"))
	assert.True(t, l.IsFavorited("p1"))
}

func TestLikeWhenAlreadyFavorited(t *testing.T) {
	l := services.NewLedger(event.NewBus())
	l.ToggleFavorite("p1")

	l.ToggleLike("p1")
	assert.Equal(t, []string{"p1"}, l.Snapshot().Favorited)
}

func TestFavoriteToggleIsSymmetric(t *testing.T) {
	l := services.NewLedger(event.NewBus())

	l.ToggleFavorite("p1")
	l.ToggleFavorite("p1")
	assert.False(t, l.IsFavorited("p1"))
	assert.False(t, l.IsLiked("p1"))

	l.ToggleLike("p2")
	l.ToggleFavorite("p2")
	l.ToggleFavorite("p2")
	assert.True(t, l.IsFavorited("p2"))
}

func TestUnlikeOneOfTwo(t *testing.T) {
	l := services.NewLedger(event.NewBus())
	l.ToggleLike("A")
	l.ToggleLike("B")

	l.ToggleLike("A")

	snap := l.Snapshot()
	assert.Equal(t, []string{"B"}, snap.Liked)
	assert.Equal(t, []string{"A", "B"}, snap.Favorited)
}

func TestTrendIsStaffOnly(t *testing.T) {
	bus := event.NewBus()
	var trends []services.LedgerEvent
	bus.Listen(event.TrendChanged, func(p interface{}) { trends = append(trends, p.(services.LedgerEvent)) })
	l := services.NewLedger(bus)

	for _, role := range []models.Role{models.RoleMerchant, models.RoleImporter} {
		_, err := l.ToggleTrend(role, "p1")
		assert.ErrorIs(t, err, services.ErrForbidden)
	}

	on, err := l.ToggleTrend(models.RoleAdmin, "p1")
	require.NoError(t, err)
	assert.True(t, on)
	off, err := l.ToggleTrend(models.RoleTeam, "p1")
	require.NoError(t, err)
	assert.False(t, off)

	assert.False(t, l.IsTrending("p1"))
	assert.Len(t, trends, 2)
}
