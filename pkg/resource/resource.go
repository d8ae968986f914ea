// Package resource shapes models into the JSON the API returns.
//
//	type PostResource struct{ Ledger *services.Ledger }
//	func (r PostResource) ToMap(p models.Post) resource.Map {
//	    return resource.Map{"id": p.ID, "liked": r.Ledger.IsLiked(p.ID)}
//	}
//
//	resource.New[models.Post](PostResource{ledger}, post).Respond(w)
//	resource.CollectionOf[models.Post](PostResource{ledger}, posts).Respond(w)
package resource

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/souqhup/pkg/collection"
	"github.com/shashiranjanraj/souqhup/pkg/response"
)

// Map is the output of a transformer.
type Map = map[string]interface{}

// Transformer converts one model into a Map.
type Transformer[T any] interface {
	ToMap(v T) Map
}

// Resource wraps a single model with its transformer.
type Resource[T any] struct {
	transformer Transformer[T]
	data        T
	meta        Map
}

func New[T any](t Transformer[T], data T) *Resource[T] {
	return &Resource[T]{transformer: t, data: data}
}

// WithMeta attaches additional metadata to the response envelope.
func (r *Resource[T]) WithMeta(meta Map) *Resource[T] {
	r.meta = meta
	return r
}

// MarshalJSON lets a Resource be nested in other payloads.
func (r *Resource[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.transformer.ToMap(r.data))
}

func (r *Resource[T]) Respond(w http.ResponseWriter) {
	out := Map{"status": http.StatusOK, "data": r.transformer.ToMap(r.data)}
	if r.meta != nil {
		out["meta"] = r.meta
	}
	writeJSON(w, http.StatusOK, out)
}

// Collection wraps a slice of models with a transformer.
type Collection[T any] struct {
	transformer Transformer[T]
	items       []T
	page        *response.Page
	meta        Map
}

func CollectionOf[T any](t Transformer[T], items []T) *Collection[T] {
	return &Collection[T]{transformer: t, items: items}
}

// Paginate keeps one page of the items and records the page metadata.
// page starts at 1; size below 1 keeps every item.
func (c *Collection[T]) Paginate(page, size int) *Collection[T] {
	total := len(c.items)
	if size < 1 {
		size = total
	}
	if page < 1 {
		page = 1
	}
	c.items = collection.Paginate(c.items, page, size)
	c.page = &response.Page{Page: page, PerPage: size, Total: total}
	return c
}

func (c *Collection[T]) WithMeta(meta Map) *Collection[T] {
	c.meta = meta
	return c
}

// Items returns the transformed items.
func (c *Collection[T]) Items() []Map {
	return collection.Map(c.items, c.transformer.ToMap)
}

// MarshalJSON lets a Collection be nested in other payloads.
func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items())
}

func (c *Collection[T]) Respond(w http.ResponseWriter) {
	out := Map{"status": http.StatusOK, "data": c.Items()}
	if c.page != nil {
		out["pagination"] = c.page
	}
	if c.meta != nil {
		out["meta"] = c.meta
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
