package core

import (
	"sync"
	"time"

	"github.com/Vigilant-co/nimble-trace-core/modules/core/catalog"
)

// SortOrder is the direction of the active sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sortable product-list columns; values match the API's sort parameter.
const (
	SortByName        = "name"
	SortByPrice       = "currentPrice"
	SortByChange      = "change24h"
	SortByLastUpdated = "lastUpdated"
)

// ViewState is the single source of truth for the product table and
// dashboard header. It is mutated only by the Controller's trigger
// handlers and push-patch handler.
type ViewState struct {
	mu sync.RWMutex

	products   []catalog.Product // server order preserved
	page       int
	pageSize   int
	totalPages int
	sortField  string
	sortOrder  SortOrder
	search     string
	site       string
	loading    bool

	metrics    catalog.MetricsSnapshot
	hasMetrics bool

	scraperHealthy bool
	connected      bool
}

// NewViewState creates the startup view state: page 1, empty filters,
// sorted by last update, newest first.
func NewViewState(pageSize int) *ViewState {
	return &ViewState{
		page:           1,
		pageSize:       pageSize,
		totalPages:     1,
		sortField:      SortByLastUpdated,
		sortOrder:      SortDesc,
		scraperHealthy: true,
	}
}

// Snapshot is an immutable copy of the view state handed to views
type Snapshot struct {
	Products   []catalog.Product
	Page       int
	PageSize   int
	TotalPages int
	SortField  string
	SortOrder  SortOrder
	Search     string
	Site       string
	Loading    bool

	Metrics    catalog.MetricsSnapshot
	HasMetrics bool

	ScraperHealthy bool
	Connected      bool
}

// HasPrevPage reports whether backward pagination is enabled
func (s Snapshot) HasPrevPage() bool { return s.Page > 1 }

// HasNextPage reports whether forward pagination is enabled
func (s Snapshot) HasNextPage() bool { return s.Page < s.TotalPages }

// Snapshot returns a copy of the current state
func (v *ViewState) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	products := make([]catalog.Product, len(v.products))
	copy(products, v.products)

	return Snapshot{
		Products:       products,
		Page:           v.page,
		PageSize:       v.pageSize,
		TotalPages:     v.totalPages,
		SortField:      v.sortField,
		SortOrder:      v.sortOrder,
		Search:         v.search,
		Site:           v.site,
		Loading:        v.loading,
		Metrics:        v.metrics,
		HasMetrics:     v.hasMetrics,
		ScraperHealthy: v.scraperHealthy,
		Connected:      v.connected,
	}
}

func (v *ViewState) setLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = loading
}

// applyList installs a pull result. The page the result was requested
// for is clamped into [1, max(totalPages, 1)]. Rows are merged with
// last-writer-wins per product: a pull that was already in flight when
// a push patch landed must not roll the patched row back to older data.
func (v *ViewState) applyList(products []catalog.Product, totalPages int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if totalPages < 1 {
		totalPages = 1
	}
	if len(v.products) > 0 {
		displayed := make(map[string]*catalog.Product, len(v.products))
		for i := range v.products {
			displayed[v.products[i].ID] = &v.products[i]
		}
		for i := range products {
			cur, ok := displayed[products[i].ID]
			if !ok || !cur.LastUpdated.After(products[i].LastUpdated) {
				continue
			}
			products[i].CurrentPrice = cur.CurrentPrice
			products[i].Change24h = cur.Change24h
			products[i].Currency = cur.Currency
			products[i].LastUpdated = cur.LastUpdated
		}
	}
	v.products = products
	v.totalPages = totalPages
	if v.page > totalPages {
		v.page = totalPages
	}
	if v.page < 1 {
		v.page = 1
	}
}

func (v *ViewState) setMetrics(m catalog.MetricsSnapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.metrics = m
	v.hasMetrics = true
}

// incrementAlerts bumps the displayed alert counter by one. The counter
// can drift from the server's true count until the next metrics pull.
func (v *ViewState) incrementAlerts() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.metrics.ActiveAlerts++
}

func (v *ViewState) setScraperHealthy(healthy bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scraperHealthy = healthy
}

func (v *ViewState) setConnected(connected bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.connected = connected
}

// listQuery reads the fields a list pull depends on
func (v *ViewState) listQuery() (page, pageSize int, sortField string, sortOrder SortOrder, search, site string) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.page, v.pageSize, v.sortField, v.sortOrder, v.search, v.site
}

func (v *ViewState) setSearch(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = query
	v.page = 1
}

func (v *ViewState) setSite(site string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.site = site
	v.page = 1
}

// stepPage moves the page by delta if the target stays in bounds.
// It reports whether the page actually changed.
func (v *ViewState) stepPage(delta int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	target := v.page + delta
	if target < 1 || target > v.totalPages {
		return false
	}
	v.page = target
	return true
}

// toggleSort flips the order when field is already active, otherwise
// activates field with descending order.
func (v *ViewState) toggleSort(field string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sortField == field {
		if v.sortOrder == SortAsc {
			v.sortOrder = SortDesc
		} else {
			v.sortOrder = SortAsc
		}
		return
	}
	v.sortField = field
	v.sortOrder = SortDesc
}

// patchPrice applies a pushed price update in place if the product is
// currently displayed, preserving row order. Updates whose logical time
// is older than the displayed value are discarded (last writer wins by
// timestamp, not arrival). now is used when the wire carries no logical
// time, so the row reads "just now". Reports whether a row changed.
func (v *ViewState) patchPrice(update catalog.PriceUpdate, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.products {
		p := &v.products[i]
		if p.ID != update.ProductID {
			continue
		}
		if !update.UpdatedAt.IsZero() && !update.UpdatedAt.After(p.LastUpdated) {
			return false
		}
		p.CurrentPrice = update.NewPrice
		p.Change24h = update.Change
		if update.Currency != "" {
			p.Currency = update.Currency
		}
		if update.UpdatedAt.IsZero() {
			p.LastUpdated = now
		} else {
			p.LastUpdated = update.UpdatedAt
		}
		return true
	}
	return false
}
