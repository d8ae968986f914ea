package services

import (
	"sync"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/event"
)

// orderedSet keeps insertion order so listings are stable.
type orderedSet struct {
	items []string
	index map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: map[string]struct{}{}}
}

func (s *orderedSet) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *orderedSet) add(id string) {
	if s.has(id) {
		return
	}
	s.index[id] = struct{}{}
	s.items = append(s.items, id)
}

func (s *orderedSet) remove(id string) {
	if !s.has(id) {
		return
	}
	delete(s.index, id)
	for i, v := range s.items {
		if v == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}

func (s *orderedSet) list() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Ledger set names.
const (
	SetLiked     = "liked"
	SetFavorited = "favorited"
	SetTrending  = "trending"
)

// LedgerSnapshot is a consistent copy of the three sets.
type LedgerSnapshot struct {
	Liked     []string `json:"liked"`
	Favorited []string `json:"favorited"`
	Trending  []string `json:"trending"`
}

// Ledger tracks liked, favorited and trending post ids for the whole
// process. Liking a post also favorites it; unliking leaves the favorite.
type Ledger struct {
	mu        sync.RWMutex
	liked     *orderedSet
	favorited *orderedSet
	trending  *orderedSet
	bus       *event.Bus
}

func NewLedger(bus *event.Bus) *Ledger {
	return &Ledger{
		liked:     newOrderedSet(),
		favorited: newOrderedSet(),
		trending:  newOrderedSet(),
		bus:       bus,
	}
}

// ToggleLike flips the like of id and returns whether it is now liked.
func (l *Ledger) ToggleLike(id string) bool {
	l.mu.Lock()
	liked := !l.liked.has(id)
	if liked {
		l.liked.add(id)
		l.favorited.add(id)
	} else {
		l.liked.remove(id)
	}
	l.mu.Unlock()

	l.bus.Fire(event.LedgerToggled, LedgerEvent{Set: SetLiked, PostID: id, Member: liked})
	return liked
}

// ToggleFavorite flips the favorite of id and returns whether it is now a
// favorite.
func (l *Ledger) ToggleFavorite(id string) bool {
	l.mu.Lock()
	fav := !l.favorited.has(id)
	if fav {
		l.favorited.add(id)
	} else {
		l.favorited.remove(id)
	}
	l.mu.Unlock()

	l.bus.Fire(event.LedgerToggled, LedgerEvent{Set: SetFavorited, PostID: id, Member: fav})
	return fav
}

// ToggleTrend flips the trending mark of id. Only the roles of the admin
// shell may call it.
func (l *Ledger) ToggleTrend(actor models.Role, id string) (bool, error) {
	if !actor.Staff() {
		return false, ErrForbidden
	}

	l.mu.Lock()
	trending := !l.trending.has(id)
	if trending {
		l.trending.add(id)
	} else {
		l.trending.remove(id)
	}
	l.mu.Unlock()

	e := LedgerEvent{Set: SetTrending, PostID: id, Member: trending}
	l.bus.Fire(event.LedgerToggled, e)
	l.bus.Fire(event.TrendChanged, e)
	return trending, nil
}

func (l *Ledger) IsLiked(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.liked.has(id)
}

func (l *Ledger) IsFavorited(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.favorited.has(id)
}

func (l *Ledger) IsTrending(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.trending.has(id)
}

func (l *Ledger) Snapshot() LedgerSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return LedgerSnapshot{
		Liked:     l.liked.list(),
		Favorited: l.favorited.list(),
		Trending:  l.trending.list(),
	}
}
