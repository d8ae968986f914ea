package services

import (
	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/collection"
)

// StoreDirectory is the read-only list of merchant storefronts behind the
// Souq Store page.
type StoreDirectory struct {
	stores []models.Store
}

func NewStoreDirectory(seed []models.Store) *StoreDirectory {
	stores := make([]models.Store, len(seed))
	copy(stores, seed)
	return &StoreDirectory{stores: stores}
}

func (d *StoreDirectory) List() []models.Store {
	out := make([]models.Store, len(d.stores))
	copy(out, d.stores)
	return out
}

func (d *StoreDirectory) Get(id string) (models.Store, error) {
	if s, ok := collection.First(d.stores, func(s models.Store) bool { return s.ID == id }); ok {
		return s, nil
	}
	return models.Store{}, ErrUnknownStore
}
