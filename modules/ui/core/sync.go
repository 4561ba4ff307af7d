package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Vigilant-co/nimble-trace-core/modules/core/catalog"
	"github.com/Vigilant-co/nimble-trace-core/modules/platform/api"
	"github.com/Vigilant-co/nimble-trace-core/modules/platform/logger"
	"github.com/Vigilant-co/nimble-trace-core/modules/platform/scheduler"
)

// sequencer hands out monotonically increasing pull sequence numbers
type sequencer struct{ n atomic.Uint64 }

func (s *sequencer) next() uint64    { return s.n.Add(1) }
func (s *sequencer) current() uint64 { return s.n.Load() }

// Options tunes the controller's timing behavior
type Options struct {
	SearchDebounce  time.Duration
	RefreshInterval time.Duration
}

// Controller orchestrates the four refresh trigger classes and
// reconciles push-delivered patches against the view state. All state
// mutation goes through it.
type Controller struct {
	state  *ViewState
	api    *api.Client
	sink   NotificationSink
	charts ChartManager
	clock  scheduler.Clock
	opts   Options
	log    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	subsMu sync.RWMutex
	subs   map[string]func(Snapshot)

	// listSeq tags each list pull; responses older than the latest
	// issued request are discarded.
	listSeq sequencer
	applyMu sync.Mutex

	debounceMu    sync.Mutex
	debounce      scheduler.Timer
	pendingSearch string

	ticker   scheduler.Ticker
	tickDone chan struct{}

	visible  atomic.Bool
	inFlight atomic.Int32
}

// NewController creates a sync controller. charts may be nil.
func NewController(state *ViewState, client *api.Client, sink NotificationSink, charts ChartManager, clock scheduler.Clock, opts Options) *Controller {
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = 300 * time.Millisecond
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 30 * time.Second
	}
	c := &Controller{
		state:  state,
		api:    client,
		sink:   sink,
		charts: charts,
		clock:  clock,
		opts:   opts,
		log:    logger.With("sync"),
		subs:   make(map[string]func(Snapshot)),
	}
	c.visible.Store(true)
	return c
}

// Start performs the initial load and begins the periodic refresh loop
func (c *Controller) Start(ctx context.Context) {
	c.ctx, c.cancel = context.WithCancel(ctx)

	c.Refresh()
	if c.charts != nil {
		if err := c.charts.Init(); err != nil {
			c.log.Warn().Err(err).Msg("chart init failed")
		}
	}

	c.ticker = c.clock.NewTicker(c.opts.RefreshInterval)
	c.tickDone = make(chan struct{})
	go c.periodicLoop()
}

// Dispose stops timers and releases all subscriptions
func (c *Controller) Dispose() {
	if c.cancel != nil {
		c.cancel()
	}
	c.debounceMu.Lock()
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.debounceMu.Unlock()
	if c.ticker != nil {
		c.ticker.Stop()
		close(c.tickDone)
		c.ticker = nil
	}
	c.subsMu.Lock()
	c.subs = make(map[string]func(Snapshot))
	c.subsMu.Unlock()
}

// Subscribe registers a snapshot listener and returns its handle
func (c *Controller) Subscribe(fn func(Snapshot)) Subscription {
	id := uuid.NewString()
	c.subsMu.Lock()
	c.subs[id] = fn
	c.subsMu.Unlock()
	return Subscription{id: id, controller: c}
}

func (c *Controller) unsubscribe(id string) {
	c.subsMu.Lock()
	delete(c.subs, id)
	c.subsMu.Unlock()
}

// Snapshot returns the current view state copy
func (c *Controller) Snapshot() Snapshot {
	return c.state.Snapshot()
}

// SetVisible gates the periodic timer. A hidden client keeps its push
// channel but stops background pulls.
func (c *Controller) SetVisible(visible bool) {
	c.visible.Store(visible)
}

// SetConnected records the push-channel state for display
func (c *Controller) SetConnected(connected bool) {
	c.state.setConnected(connected)
	c.publish()
}

// ============================================
// Trigger handlers
// ============================================

// Apply routes a user trigger to its handler. Write-trigger outcomes
// are surfaced through the NotificationSink rather than returned.
func (c *Controller) Apply(t *Trigger) {
	c.log.Debug().Str("trigger", string(t.Type)).Str("value", t.Value).Msg("applying trigger")
	switch t.Type {
	case TriggerSearch:
		c.SetSearch(t.Value)
	case TriggerSiteFilter:
		c.SetSiteFilter(t.Value)
	case TriggerPrevPage:
		c.PrevPage()
	case TriggerNextPage:
		c.NextPage()
	case TriggerSort:
		c.SortBy(t.Value)
	case TriggerRefresh:
		c.Refresh()
	case TriggerAddProduct:
		c.AddProduct(t.Value)
	case TriggerDeleteProduct:
		c.DeleteProduct(t.Value)
	default:
		c.log.Warn().Str("trigger", string(t.Type)).Msg("unknown trigger type")
	}
}

// SetSearch collapses rapid edits into a single pull after the debounce
// window settles, then resets to page 1 with the new query.
func (c *Controller) SetSearch(query string) {
	c.debounceMu.Lock()
	defer c.debounceMu.Unlock()

	c.pendingSearch = query
	if c.debounce != nil {
		c.debounce.Stop()
	}
	var timer scheduler.Timer
	timer = c.clock.AfterFunc(c.opts.SearchDebounce, func() {
		c.debounceMu.Lock()
		// A timer already firing when a new edit re-armed the window
		// loses Stop's race; only the current window may pull.
		if c.debounce != timer {
			c.debounceMu.Unlock()
			return
		}
		q := c.pendingSearch
		c.debounce = nil
		c.debounceMu.Unlock()

		c.state.setSearch(q)
		c.pullList()
	})
	c.debounce = timer
}

// SetSiteFilter applies a site filter immediately (no debounce)
func (c *Controller) SetSiteFilter(site string) {
	c.state.setSite(site)
	c.pullList()
}

// NextPage advances one page unless already at the last page
func (c *Controller) NextPage() {
	if c.state.stepPage(1) {
		c.pullList()
	}
}

// PrevPage goes back one page unless already at the first page
func (c *Controller) PrevPage() {
	if c.state.stepPage(-1) {
		c.pullList()
	}
}

// SortBy toggles the order on the active column or activates a new one
// descending, then re-pulls with the new sort.
func (c *Controller) SortBy(field string) {
	c.state.toggleSort(field)
	c.pullList()
}

// Refresh pulls the product list, the metrics and the charts
// concurrently. The loading flag clears only once all three complete.
func (c *Controller) Refresh() {
	c.state.setLoading(true)
	c.publish()

	var g errgroup.Group
	g.Go(func() error {
		c.pullListNow()
		return nil
	})
	g.Go(func() error {
		c.pullMetrics()
		return nil
	})
	g.Go(func() error {
		if c.charts != nil {
			c.charts.RefreshCharts()
		}
		return nil
	})
	g.Wait()

	c.state.setLoading(false)
	c.publish()
	c.notify("Data refreshed", NotifySuccess)
}

// AddProduct registers a product by URL. The error is returned so the
// initiating action can react; on success the list and metrics refresh.
func (c *Controller) AddProduct(url string) (catalog.Product, error) {
	product, err := c.api.AddProduct(c.context(), url)
	if err != nil {
		return catalog.Product{}, err
	}
	c.pullList()
	c.pullMetrics()
	c.publish()
	return product, nil
}

// DeleteProduct removes a product and reports success. On success the
// list and metrics refresh.
func (c *Controller) DeleteProduct(id string) bool {
	if !c.api.DeleteProduct(c.context(), id) {
		return false
	}
	c.pullList()
	c.pullMetrics()
	c.publish()
	return true
}

// FetchHistory returns the price history for a product; empty on failure
func (c *Controller) FetchHistory(productID, interval string) []catalog.PricePoint {
	return c.api.FetchPriceHistory(c.context(), productID, interval)
}

// ============================================
// Push-patch reconciliation
// ============================================

// Dispatch reconciles one push envelope against the view state without
// issuing a pull. Unrecognized types are ignored; malformed payloads are
// logged and dropped.
func (c *Controller) Dispatch(env catalog.Envelope) {
	switch env.Type {
	case catalog.EventPriceUpdate:
		update, err := env.DecodePriceUpdate()
		if err != nil {
			c.log.Warn().Err(err).Msg("dropping price update")
			return
		}
		if c.state.patchPrice(update, c.clock.Now()) {
			c.publish()
		}
		if c.charts != nil {
			c.charts.AddDataPoint(update)
		}

	case catalog.EventNewAlert:
		alert, err := env.DecodeNewAlert()
		if err != nil {
			c.log.Warn().Err(err).Msg("dropping alert")
			return
		}
		c.state.incrementAlerts()
		c.publish()
		c.notify("New alert: "+alert.Message, NotifyWarning)

	case catalog.EventScraperStatus:
		status, err := env.DecodeScraperStatus()
		if err != nil {
			c.log.Warn().Err(err).Msg("dropping scraper status")
			return
		}
		c.state.setScraperHealthy(status.Healthy())
		c.publish()

	default:
		// Forward compatible: unknown push types are not an error.
		c.log.Debug().Str("type", string(env.Type)).Msg("ignoring unknown push type")
	}
}

// ============================================
// Pull plumbing
// ============================================

// pullList fetches the current page with loading-state bookkeeping
func (c *Controller) pullList() {
	c.state.setLoading(true)
	c.publish()
	c.pullListNow()
	c.state.setLoading(false)
	c.publish()
}

// pullListNow issues a sequenced list pull and applies the response
// only if no newer list request has been issued since.
func (c *Controller) pullListNow() {
	seq := c.listSeq.next()
	page, pageSize, sortField, sortOrder, search, site := c.state.listQuery()

	c.inFlight.Add(1)
	result := c.api.ListProducts(c.context(), api.ListQuery{
		Page:      page,
		PageSize:  pageSize,
		SortField: sortField,
		SortOrder: string(sortOrder),
		Search:    search,
		Site:      site,
	})
	c.inFlight.Add(-1)

	c.applyMu.Lock()
	defer c.applyMu.Unlock()
	if seq != c.listSeq.current() {
		c.log.Debug().Uint64("seq", seq).Msg("discarding superseded list response")
		return
	}
	c.state.applyList(result.Products, result.Pages)
}

// pullMetrics refreshes the header counters; a failed pull leaves the
// displayed values untouched.
func (c *Controller) pullMetrics() {
	c.inFlight.Add(1)
	snapshot := c.api.FetchMetrics(c.context())
	c.inFlight.Add(-1)
	if snapshot == nil {
		return
	}
	c.state.setMetrics(*snapshot)
	c.publish()
}

// periodicLoop refreshes metrics and charts on the fixed interval; the
// product list is left alone to bound background load.
func (c *Controller) periodicLoop() {
	for {
		select {
		case <-c.tickDone:
			return
		case <-c.ticker.C():
			c.periodicTick()
		}
	}
}

func (c *Controller) periodicTick() {
	if !c.visible.Load() || c.inFlight.Load() > 0 {
		return
	}
	c.pullMetrics()
	if c.charts != nil {
		c.charts.UpdateCharts()
	}
}

func (c *Controller) publish() {
	snapshot := c.state.Snapshot()
	c.subsMu.RLock()
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subsMu.RUnlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

func (c *Controller) notify(message string, level NotifyLevel) {
	if c.sink != nil {
		c.sink.Notify(message, level)
	}
}

func (c *Controller) context() context.Context {
	if c.ctx != nil {
		return c.ctx
	}
	return context.Background()
}
