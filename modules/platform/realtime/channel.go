// Package realtime owns the push-channel connection lifecycle: connect,
// dispatch incoming envelopes in arrival order, detect disconnection and
// reconnect after a fixed delay, indefinitely.
package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Vigilant-co/nimble-trace-core/modules/core/catalog"
	"github.com/Vigilant-co/nimble-trace-core/modules/platform/logger"
	"github.com/Vigilant-co/nimble-trace-core/modules/platform/scheduler"
)

// State is the connection state of the channel
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
)

// Handler receives each decoded envelope. It is invoked once per arrived
// message, in arrival order, never concurrently.
type Handler func(catalog.Envelope)

// Notifier surfaces connection-state messages to the user
type Notifier interface {
	Notify(message, level string)
}

// Channel is a persistent websocket connection with automatic reconnect
type Channel struct {
	url      string
	delay    time.Duration
	clock    scheduler.Clock
	dialer   *websocket.Dialer
	handler  Handler
	notifier Notifier
	log      zerolog.Logger

	mu        sync.Mutex
	state     State
	conn      *websocket.Conn
	reconnect scheduler.Timer
	stopped   bool
	announced bool
	onState   func(State)
}

// NewChannel creates a channel that dispatches envelopes to handler.
// notifier may be nil.
func NewChannel(url string, delay time.Duration, clock scheduler.Clock, handler Handler, notifier Notifier) *Channel {
	return &Channel{
		url:   url,
		delay: delay,
		clock: clock,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 45 * time.Second,
		},
		handler:  handler,
		notifier: notifier,
		log:      logger.With("realtime"),
		state:    StateDisconnected,
	}
}

// OnStateChange registers a callback invoked on every state transition.
// Must be called before Run.
func (c *Channel) OnStateChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onState = fn
}

// State returns the current connection state
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run starts the connection lifecycle. It returns immediately; reading
// happens on an internal goroutine. ctx cancellation stops the channel.
func (c *Channel) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	c.connect(ctx)
}

// Stop closes the connection and stops retrying
func (c *Channel) Stop() {
	c.mu.Lock()
	c.stopped = true
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}
	c.setState(StateDisconnected)
}

func (c *Channel) connect(ctx context.Context) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.setState(StateConnecting)

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		c.log.Warn().Err(err).Str("url", c.url).Msg("websocket connect failed")
		c.setState(StateReconnecting)
		c.announceReconnect()
		c.scheduleReconnect(ctx)
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		conn.Close()
		return
	}
	// A successful open implicitly cancels any pending reconnect.
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
	c.conn = conn
	c.announced = false
	c.mu.Unlock()

	c.setState(StateConnected)
	c.log.Info().Str("url", c.url).Msg("websocket connected")
	c.notify("Real-time updates connected", "success")

	go c.readLoop(ctx, conn)
}

// readLoop is the single dispatch goroutine. Envelope handling is strictly
// sequential: the next frame is not read until the handler returns.
func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			stopped := c.stopped
			if c.conn == conn {
				c.conn = nil
			}
			c.mu.Unlock()

			if stopped {
				return
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read error")
			} else {
				c.log.Info().Msg("websocket disconnected")
			}
			c.setState(StateReconnecting)
			c.announceReconnect()
			c.scheduleReconnect(ctx)
			return
		}

		env, err := catalog.ParseEnvelope(data)
		if err != nil {
			// A bad frame must not take down the dispatch loop.
			c.log.Warn().Err(err).Msg("dropping malformed push message")
			continue
		}
		if c.handler != nil {
			c.handler(env)
		}
	}
}

func (c *Channel) scheduleReconnect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || c.reconnect != nil {
		return
	}
	c.reconnect = c.clock.AfterFunc(c.delay, func() {
		c.mu.Lock()
		c.reconnect = nil
		c.mu.Unlock()
		c.connect(ctx)
	})
}

// announceReconnect surfaces the reconnecting toast once per outage;
// repeated failed dials within the same outage stay quiet.
func (c *Channel) announceReconnect() {
	c.mu.Lock()
	if c.announced || c.stopped {
		c.mu.Unlock()
		return
	}
	c.announced = true
	c.mu.Unlock()
	c.notify("Reconnecting to real-time updates...", "warning")
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	c.state = s
	fn := c.onState
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func (c *Channel) notify(message, level string) {
	if c.notifier != nil {
		c.notifier.Notify(message, level)
	}
}
