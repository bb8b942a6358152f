// Package realtime implements the live update channel: a websocket
// subscription to the backend's per-collection change feed with silent
// reconnection.
package realtime

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chapelworks/mediasync/internal/logger"
	"github.com/chapelworks/mediasync/models"
)

// Config carries the settings needed to construct a websocket channel.
type Config struct {
	// BaseURL is the backend root in http/https form; it is rewritten to
	// ws/wss for dialing.
	BaseURL string

	// ReconnectMinDelay is the initial backoff after a dropped
	// connection; ReconnectMaxDelay caps the exponential growth. The
	// delay resets after every successful connect.
	ReconnectMinDelay time.Duration
	ReconnectMaxDelay time.Duration

	// TokenSource supplies the bearer token attached to the subscribe
	// handshake, or "" for an anonymous subscription. Consulted on every
	// (re)connect so a refreshed credential takes effect without
	// reopening the channel.
	TokenSource func() string
}

type wsChannel struct {
	cfg    Config
	dialer *websocket.Dialer
	logger *logger.Logger
}

// NewWSChannel constructs a websocket [Channel].
func NewWSChannel(cfg Config, log *logger.Logger) Channel {
	if cfg.ReconnectMinDelay <= 0 {
		cfg.ReconnectMinDelay = time.Second
	}
	if cfg.ReconnectMaxDelay < cfg.ReconnectMinDelay {
		cfg.ReconnectMaxDelay = 30 * time.Second
	}

	return &wsChannel{
		cfg:    cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		logger: log,
	}
}

// Open implements [Channel]. The returned handle owns a background
// goroutine that dials, reads and redials until the handle is closed or
// ctx is cancelled.
func (c *wsChannel) Open(ctx context.Context, collection string, onEvent func(models.LiveEvent)) Handle {
	runCtx, cancel := context.WithCancel(ctx)
	h := &wsHandle{cancel: cancel}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		c.run(runCtx, collection, onEvent)
	}()

	return h
}

func (c *wsChannel) run(ctx context.Context, collection string, onEvent func(models.LiveEvent)) {
	delay := c.cfg.ReconnectMinDelay

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := c.dial(ctx, collection)
		if err != nil {
			c.logger.Debug().Err(err).Str("collection", collection).Msg("realtime dial failed")
			if !sleepCtx(ctx, delay) {
				return
			}
			delay = min(delay*2, c.cfg.ReconnectMaxDelay)
			continue
		}

		delay = c.cfg.ReconnectMinDelay
		c.logger.Debug().Str("collection", collection).Msg("realtime connected")

		c.readLoop(ctx, conn, onEvent)
		_ = conn.Close()

		if !sleepCtx(ctx, delay) {
			return
		}
	}
}

// readLoop decodes events until the connection drops or ctx is cancelled.
// Read errors are not surfaced: the caller redials and the collection
// client's periodic refresh covers anything missed.
func (c *wsChannel) readLoop(ctx context.Context, conn *websocket.Conn, onEvent func(models.LiveEvent)) {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var event models.LiveEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() == nil {
				c.logger.Debug().Err(err).Msg("realtime read failed, reconnecting")
			}
			return
		}

		switch event.Action {
		case models.ActionCreate, models.ActionUpdate, models.ActionDelete:
			onEvent(event)
		default:
			// server keepalives and unknown actions are skipped
		}
	}
}

func (c *wsChannel) dial(ctx context.Context, collection string) (*websocket.Conn, error) {
	wsURL := strings.Replace(strings.TrimRight(c.cfg.BaseURL, "/"), "http", "ws", 1) +
		"/api/realtime?collection=" + url.QueryEscape(collection)

	header := http.Header{}
	if c.cfg.TokenSource != nil {
		if token := c.cfg.TokenSource(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, resp, err := c.dialer.DialContext(ctx, wsURL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

type wsHandle struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// Close implements [Handle]. Idempotent; blocks until the read goroutine
// has exited so no event is delivered after Close returns.
func (h *wsHandle) Close() {
	h.once.Do(func() {
		h.cancel()
		h.wg.Wait()
	})
}
