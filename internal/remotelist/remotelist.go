// Package remotelist keeps a fetched list of entities with a search filter
// and a page window over the filtered result.
package remotelist

import (
	"context"
	"strings"
	"sync"
)

// Fetcher loads the full list from the server.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Matcher reports whether item matches term. term is already lower-cased and
// never empty.
type Matcher[T any] func(item T, term string) bool

// List is a client-side copy of a remote collection.
type List[T any] struct {
	mu       sync.Mutex
	fetch    Fetcher[T]
	match    Matcher[T]
	pageSize int

	items  []T
	term   string
	page   int
	loaded bool
}

// New returns an empty list. pageSize values below 1 are treated as 1.
func New[T any](fetch Fetcher[T], match Matcher[T], pageSize int) *List[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	return &List[T]{fetch: fetch, match: match, pageSize: pageSize, page: 1}
}

// Load replaces the items with a fresh fetch. On error the previous items are kept.
func (l *List[T]) Load(ctx context.Context) error {
	items, err := l.fetch(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
	l.loaded = true
	l.page = clamp(l.page, l.totalPagesLocked())
	return nil
}

// Loaded reports whether a fetch has succeeded at least once.
func (l *List[T]) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Len returns the number of items before filtering.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Items returns a copy of all items.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

// SetSearch changes the search term and goes back to the first page.
func (l *List[T]) SetSearch(term string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.term = term
	l.page = 1
}

// Search returns the current search term.
func (l *List[T]) Search() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.term
}

func (l *List[T]) filteredLocked() []T {
	term := strings.ToLower(l.term)
	if term == "" {
		return append([]T(nil), l.items...)
	}
	out := make([]T, 0, len(l.items))
	for _, item := range l.items {
		if l.match(item, term) {
			out = append(out, item)
		}
	}
	return out
}

// Filtered returns the items matching the search term.
func (l *List[T]) Filtered() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filteredLocked()
}

func (l *List[T]) totalPagesLocked() int {
	n := len(l.filteredLocked())
	return (n + l.pageSize - 1) / l.pageSize
}

// TotalPages is ceil(len(Filtered()) / pageSize).
func (l *List[T]) TotalPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalPagesLocked()
}

// SetPage moves to page n, clamped to [1, max(1, TotalPages())].
func (l *List[T]) SetPage(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = clamp(n, l.totalPagesLocked())
}

// CurrentPage returns the 1-based page number.
func (l *List[T]) CurrentPage() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Page returns the filtered items on the current page.
func (l *List[T]) Page() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	filtered := l.filteredLocked()
	start := (l.page - 1) * l.pageSize
	if start >= len(filtered) {
		return nil
	}
	end := min(start+l.pageSize, len(filtered))
	return filtered[start:end]
}

// Find returns the first item satisfying pred.
func (l *List[T]) Find(pred func(T) bool) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, item := range l.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Update applies mutate to every item satisfying pred and returns how many
// were changed. Used to mirror a successful write without re-fetching.
func (l *List[T]) Update(pred func(T) bool, mutate func(*T)) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for i := range l.items {
		if pred(l.items[i]) {
			mutate(&l.items[i])
			n++
		}
	}
	return n
}

// Remove drops every item satisfying pred and returns how many were removed.
func (l *List[T]) Remove(pred func(T) bool) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.items[:0]
	for _, item := range l.items {
		if !pred(item) {
			kept = append(kept, item)
		}
	}
	n := len(l.items) - len(kept)
	clear(l.items[len(kept):])
	l.items = kept
	l.page = clamp(l.page, l.totalPagesLocked())
	return n
}

func clamp(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}
