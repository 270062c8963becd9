package remotelist

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned by Next while another fetch is in flight.
var ErrBusy = errors.New("remotelist: fetch in progress")

// PageFetcher loads up to limit items starting at offset skip.
type PageFetcher[T any] func(ctx context.Context, skip, limit int) ([]T, error)

// Pager accumulates a remote collection one page at a time, the way an
// infinite-scroll feed does. Page n is fetched at skip n*limit. Items whose
// key is already held are dropped, and the first empty page marks the
// collection exhausted.
type Pager[T any] struct {
	mu    sync.Mutex
	fetch PageFetcher[T]
	key   func(T) string
	limit int

	items   []T
	page    int
	done    bool
	loading bool
	gen     int // bumped by Reset so an in-flight page is discarded
}

// NewPager returns an empty pager. limit values below 1 are treated as 1.
func NewPager[T any](fetch PageFetcher[T], key func(T) string, limit int) *Pager[T] {
	if limit < 1 {
		limit = 1
	}
	return &Pager[T]{fetch: fetch, key: key, limit: limit}
}

// Next fetches the next page and appends its new items, returning how many
// were added. It is a no-op once Done. On error nothing changes and the same
// page is retried by the following call.
func (p *Pager[T]) Next(ctx context.Context) (int, error) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return 0, nil
	}
	if p.loading {
		p.mu.Unlock()
		return 0, ErrBusy
	}
	p.loading = true
	page, gen := p.page, p.gen
	p.mu.Unlock()

	items, err := p.fetch(ctx, page*p.limit, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return 0, nil
	}
	p.loading = false
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		p.done = true
		return 0, nil
	}

	seen := make(map[string]struct{}, len(p.items))
	for _, item := range p.items {
		seen[p.key(item)] = struct{}{}
	}
	added := 0
	for _, item := range items {
		k := p.key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		p.items = append(p.items, item)
		added++
	}
	p.page++
	return added, nil
}

// Reset forgets every item and starts again from page 0.
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.page = 0
	p.done = false
	p.loading = false
	p.gen++
}

// Done reports whether an empty page has been seen.
func (p *Pager[T]) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// NextPage returns the index of the page the next call to Next will fetch.
func (p *Pager[T]) NextPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Len returns the number of items held.
func (p *Pager[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Items returns a copy of the items in fetch order.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.items...)
}

// Prepend puts item first, replacing any held item with the same key.
func (p *Pager[T]) Prepend(item T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := p.key(item)
	kept := make([]T, 0, len(p.items)+1)
	kept = append(kept, item)
	for _, it := range p.items {
		if p.key(it) != k {
			kept = append(kept, it)
		}
	}
	p.items = kept
}

// Find returns the first item satisfying pred.
func (p *Pager[T]) Find(pred func(T) bool) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Update applies mutate to every item satisfying pred and returns how many
// were changed.
func (p *Pager[T]) Update(pred func(T) bool, mutate func(*T)) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for i := range p.items {
		if pred(p.items[i]) {
			mutate(&p.items[i])
			n++
		}
	}
	return n
}

// Remove drops every item satisfying pred and returns how many were removed.
// The fetch offset is unchanged, so a later page may start past items that
// shifted down on the server; duplicates are still dropped by key.
func (p *Pager[T]) Remove(pred func(T) bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.items[:0]
	for _, item := range p.items {
		if !pred(item) {
			kept = append(kept, item)
		}
	}
	n := len(p.items) - len(kept)
	clear(p.items[len(kept):])
	p.items = kept
	return n
}
