package usecase

import (
	"slices"
	"sync"

	"github.com/ceylonhoney/storefront/internal/domain"
)

// View is the state published to Browser subscribers after every change
type View struct {
	Query    string
	Filters  domain.FilterState
	Mode     domain.ViewMode
	Products []domain.Product
}

// Browser holds one shopper's search text, filter selection and view mode
// over a fixed catalog. Every mutation recomputes the filtered products and
// publishes the new View to subscribers, in subscription order, before the
// mutating call returns.
type Browser struct {
	mu        sync.Mutex
	catalog   []domain.Product
	query     string
	filters   domain.FilterState
	mode      domain.ViewMode
	current   View
	listeners map[int]func(View)
	order     []int
	nextID    int
}

// NewBrowser starts a session with an empty query, no filters and grid view
func NewBrowser(catalog []domain.Product) *Browser {
	b := &Browser{
		catalog:   catalog,
		filters:   domain.FilterState{},
		mode:      domain.ViewGrid,
		listeners: make(map[int]func(View)),
	}
	b.current = b.compute()
	return b
}

// Subscribe registers fn to receive every published View. The returned
// function removes the subscription.
func (b *Browser) Subscribe(fn func(View)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.order = append(b.order, id)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.listeners[id]; !ok {
			return
		}
		delete(b.listeners, id)
		b.order = slices.DeleteFunc(b.order, func(v int) bool { return v == id })
	}
}

// Current returns the most recently computed View
func (b *Browser) Current() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// SetQuery replaces the search text
func (b *Browser) SetQuery(q string) {
	b.update(func() bool {
		if b.query == q {
			return false
		}
		b.query = q
		return true
	})
}

// ToggleFilter adds value to the accepted set of dim, or removes it when
// already selected.
func (b *Browser) ToggleFilter(dim domain.Dimension, value string) {
	b.update(func() bool {
		values := b.filters[dim]
		if i := slices.Index(values, value); i >= 0 {
			b.filters[dim] = slices.Delete(slices.Clone(values), i, i+1)
		} else {
			b.filters[dim] = append(slices.Clone(values), value)
		}
		return true
	})
}

// SetFilters replaces the whole filter selection
func (b *Browser) SetFilters(filters domain.FilterState) {
	b.update(func() bool {
		b.filters = filters.Clone()
		return true
	})
}

// ClearFilters drops every filter selection but keeps the query
func (b *Browser) ClearFilters() {
	b.update(func() bool {
		if !b.filters.Active() {
			return false
		}
		b.filters = domain.FilterState{}
		return true
	})
}

// SetView switches between grid and list layout
func (b *Browser) SetView(mode domain.ViewMode) {
	b.update(func() bool {
		if b.mode == mode {
			return false
		}
		b.mode = mode
		return true
	})
}

// update applies mutate under the lock and, if it reports a change,
// recomputes and notifies subscribers outside the lock.
func (b *Browser) update(mutate func() bool) {
	b.mu.Lock()
	if !mutate() {
		b.mu.Unlock()
		return
	}
	view := b.compute()
	b.current = view
	listeners := make([]func(View), 0, len(b.order))
	for _, id := range b.order {
		listeners = append(listeners, b.listeners[id])
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(view)
	}
}

func (b *Browser) compute() View {
	return View{
		Query:    b.query,
		Filters:  b.filters.Clone(),
		Mode:     b.mode,
		Products: FilterProducts(b.catalog, b.query, b.filters),
	}
}
