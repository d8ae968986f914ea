// Package collection holds generic slice helpers used across the catalog
// and views.
//
//	videos := collection.Filter(posts, func(p models.Post) bool { return p.Type == models.MediaVideo })
//	views := collection.Sum(posts, func(p models.Post) float64 { return float64(p.Views) })
package collection

// Map transforms each element of slice s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns elements of s for which fn returns true.
func Filter[T any](s []T, fn func(T) bool) []T {
	var out []T
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// First returns the first element matching fn, or (zero, false).
func First[T any](s []T, fn func(T) bool) (T, bool) {
	for _, v := range s {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Sum sums numeric values extracted by fn.
func Sum[T any](s []T, fn func(T) float64) float64 {
	var total float64
	for _, v := range s {
		total += fn(v)
	}
	return total
}

// Paginate returns one page from s (1-indexed page, size items per page).
// Pages past the end are nil.
func Paginate[T any](s []T, page, size int) []T {
	if size < 1 {
		return nil
	}
	if page < 1 {
		page = 1
	}
	if page-1 > len(s)/size {
		return nil
	}
	start := (page - 1) * size
	if start >= len(s) {
		return nil
	}
	end := len(s)
	if size < end-start {
		end = start + size
	}
	return s[start:end]
}
