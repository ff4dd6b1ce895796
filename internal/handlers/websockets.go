package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"timetrack/internal/display"
	"timetrack/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMsgSize      = 1 << 12 // 4 KB
	defaultResync   = 5 * time.Second
	maxResync       = 60 * time.Second
	maxResyncMillis = 60_000
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket. Consider tightening CheckOrigin in production.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConnect streams live display text for the caller's timer. One
// display.Controller is owned per connection: it publishes the adaptive
// elapsed text once per second while the timer runs, and the handler resyncs
// it from the tracker state on a slower interval using the two-phase update
// protocol (cancel stale ticking before re-reading committed state).
//
// @Summary      Live timer display stream
// @Description  WebSocket upgrade. Sends {"type":"display"} frames at 1 Hz while running and {"type":"state"} frames on every resync. Authenticate with ?token= or a Bearer header.
// @Tags         timer
// @Param        token      query  string  false  "JWT, alternative to the Authorization header"
// @Param        idle       query  string  false  "Idle text style: float (default), adaptive or clock"
// @Param        resync     query  string  false  "State resync interval, e.g. 2s (max 60s)"
// @Param        resync_ms  query  int     false  "State resync interval in milliseconds"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	uid, ok := h.wsAuthenticate(c)
	if !ok {
		return
	}
	resync := h.parseResyncInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	// The controller publishes from its tick goroutine; hand text to the
	// single writer loop through a small buffer. A dropped frame is fine,
	// the next tick supersedes it.
	texts := make(chan string, 8)
	ctrl := display.NewController(func(text string) {
		select {
		case texts <- text:
		default:
		}
	}, display.WithIdleStyle(parseIdleStyle(c.Query("idle"))))
	defer ctrl.Close()

	// Initial state: publish immediately, before any tick.
	ctx := c.Request.Context()
	last, err := h.syncController(ctx, ctrl, uid, models.TimerState{}, true)
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_initial_state_failed", "err", err)
		}
		return
	}
	if err := h.writeEnvelope(conn, wsEnvelope{Type: "state", Data: last}); err != nil {
		return
	}

	resyncTicker := time.NewTicker(resync)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		resyncTicker.Stop()
		ping.Stop()
	}()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case text := <-texts:
			if err := h.writeEnvelope(conn, wsEnvelope{Type: "display", Data: gin.H{"text": text}}); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		case <-resyncTicker.C:
			st, err := h.syncController(ctx, ctrl, uid, last, false)
			if err != nil {
				if h.log != nil {
					h.log.Errorw("ws_resync_failed", "err", err)
				}
				continue
			}
			if !sameTimerSource(last, st) {
				if err := h.writeEnvelope(conn, wsEnvelope{Type: "state", Data: st}); err != nil {
					return
				}
			}
			last = st
		}
	}
}

// wsAuthenticate resolves the user from ?token= or the Bearer header.
func (h *Handler) wsAuthenticate(c *gin.Context) (int, bool) {
	token := c.Query("token")
	if token == "" {
		header := c.GetHeader("Authorization")
		if after, found := cutBearer(header); found {
			token = after
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return 0, false
	}
	uid, err := h.services.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return 0, false
	}
	return uid, true
}

func cutBearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):], true
	}
	return "", false
}

// syncController reads committed tracker state and applies it to the
// controller. When force is false the two-phase update only runs if the
// observed source fields actually changed, so an unchanged running timer
// keeps its handle instead of restarting every resync.
func (h *Handler) syncController(ctx context.Context, ctrl *display.Controller, uid int, prev models.TimerState, force bool) (models.TimerState, error) {
	st, err := h.services.Tracker.State(ctx, uid)
	if err != nil {
		return models.TimerState{}, err
	}
	if force || !sameTimerSource(prev, st) {
		// Phase one stops stale ticking before the new fields are read.
		ctrl.WillChange()
		ctrl.Changed(timerSource(st))
	}
	return st, nil
}

// timerSource maps a tracker snapshot onto the controller's input contract.
func timerSource(st models.TimerState) display.Source {
	src := display.Source{Running: st.Running, Hours: st.Hours}
	if st.StartedAt != nil {
		src.Start = *st.StartedAt
	}
	return src
}

// sameTimerSource compares only the fields the controller derives from.
func sameTimerSource(a, b models.TimerState) bool {
	if a.Running != b.Running || a.EntryID != b.EntryID || a.Hours != b.Hours {
		return false
	}
	switch {
	case a.StartedAt == nil && b.StartedAt == nil:
		return true
	case a.StartedAt == nil || b.StartedAt == nil:
		return false
	default:
		return a.StartedAt.Equal(*b.StartedAt)
	}
}

// parseIdleStyle maps the ?idle= query to a rendering style for the text
// shown while no timer runs.
func parseIdleStyle(s string) display.IdleStyle {
	switch s {
	case "adaptive":
		return display.IdleAdaptive
	case "clock":
		return display.IdleClock
	default:
		return display.IdleFloatHours
	}
}

// parseResyncInterval reads ?resync=2s or ?resync_ms=2000 with bounds.
func (h *Handler) parseResyncInterval(c *gin.Context) time.Duration {
	if s := c.Query("resync"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxResync {
			return d
		}
	}
	if ms := c.Query("resync_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxResyncMillis {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultResync
}

// startReader drains incoming messages to handle control frames and detect
// closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func (h *Handler) writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
