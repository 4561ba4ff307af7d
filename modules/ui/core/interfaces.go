package core

import "github.com/Vigilant-co/nimble-trace-core/modules/core/catalog"

// View is the interface rendering implementations must satisfy.
// A view receives immutable snapshots and never mutates state.
type View interface {
	// Render displays a new snapshot of the view state
	Render(snapshot Snapshot)
}

// NotificationSink surfaces transient messages (toasts, status lines)
type NotificationSink interface {
	Notify(message string, level NotifyLevel)
}

// ChartManager is an optional collaborator driving chart rendering.
// The controller guards every call, so a nil ChartManager is valid.
type ChartManager interface {
	// Init prepares the charts at startup
	Init() error

	// RefreshCharts redraws all charts from fresh server data
	RefreshCharts()

	// UpdateCharts refreshes chart data on the periodic cadence
	UpdateCharts()

	// AddDataPoint appends a pushed price observation to the charts
	AddDataPoint(update catalog.PriceUpdate)
}

// Subscription is a handle to a registered snapshot listener
type Subscription struct {
	id         string
	controller *Controller
}

// ID returns the identifier of the subscription
func (s Subscription) ID() string { return s.id }

// Dispose removes the subscription from the registry
func (s Subscription) Dispose() {
	if s.controller != nil {
		s.controller.unsubscribe(s.id)
	}
}
