package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Vigilant-co/nimble-trace-core/modules/ui/core"
)

// TUIView implements core.View and core.NotificationSink on top of a
// Bubble Tea program. Snapshots and notifications arrive from other
// goroutines and are forwarded through the program's message queue.
type TUIView struct {
	mu      sync.Mutex
	program *tea.Program
	model   *Model
	sub     core.Subscription

	// Buffered until the program starts
	pendingSnapshot *core.Snapshot
	pendingNotices  []core.Notification
}

// NewTUIView creates an empty dashboard view
func NewTUIView() *TUIView {
	return &TUIView{}
}

// Initialize wires the view to a controller and subscribes for snapshots
func (v *TUIView) Initialize(controller *core.Controller) {
	v.mu.Lock()
	v.model = NewModel(controller)
	v.mu.Unlock()

	v.sub = controller.Subscribe(func(snapshot core.Snapshot) {
		v.Render(snapshot)
	})
}

// Render implements core.View
func (v *TUIView) Render(snapshot core.Snapshot) {
	v.mu.Lock()
	program := v.program
	if program == nil {
		v.pendingSnapshot = &snapshot
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()
	program.Send(snapshotMsg(snapshot))
}

// Notify implements core.NotificationSink
func (v *TUIView) Notify(message string, level core.NotifyLevel) {
	n := core.Notification{Level: level, Message: message}
	v.mu.Lock()
	program := v.program
	if program == nil {
		v.pendingNotices = append(v.pendingNotices, n)
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()
	program.Send(notifyMsg(n))
}

// Run starts the view's main loop and blocks until it exits
func (v *TUIView) Run(ctx context.Context) error {
	program := tea.NewProgram(v.model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	v.mu.Lock()
	v.program = program
	snapshot := v.pendingSnapshot
	notices := v.pendingNotices
	v.pendingSnapshot = nil
	v.pendingNotices = nil
	v.mu.Unlock()

	if snapshot != nil {
		go program.Send(snapshotMsg(*snapshot))
	}
	for _, n := range notices {
		n := n
		go program.Send(notifyMsg(n))
	}

	_, err := program.Run()
	return err
}

// Stop asks the program to quit and releases the snapshot subscription
func (v *TUIView) Stop() {
	v.sub.Dispose()
	v.mu.Lock()
	program := v.program
	v.mu.Unlock()
	if program != nil {
		program.Quit()
	}
}
