package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"feasibility_analysis/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
)

const errMissingRunID = "missing 'run_id' query parameter"

// Envelope used for WebSocket messages: "run" carries a models.Run, "error" a message.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: read allowed origins from config.Server
}

// @Summary      Follow a run
// @Description  Upgrades to a WebSocket and pushes {"type":"run","data":Run} every interval until the run is COMPLETED or FAILED, then closes.
// @Tags         analyses
// @Param        run_id       query  string  true   "Run ID"
// @Param        interval     query  string  false  "Push interval, e.g. 500ms (max 10s)"
// @Param        interval_ms  query  int     false  "Push interval in milliseconds (max 10000)"
// @Success      101
// @Failure      400  {object}  map[string]string
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	runID := strings.TrimSpace(c.Query("run_id"))
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingRunID})
		return
	}
	interval := h.parseInterval(c)

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

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	finished, err := h.sendRun(ctx, conn, runID)
	if err != nil || finished {
		h.closeStream(conn, runID, err)
		return
	}

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
		case <-ticker.C:
			finished, err := h.sendRun(ctx, conn, runID)
			if err != nil || finished {
				h.closeStream(conn, runID, err)
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// startReader drains incoming messages to handle control frames and detect closure.
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

// sendRun writes the current run snapshot. A lookup failure is reported to
// the client as an error envelope before being returned.
func (h *Handler) sendRun(ctx context.Context, conn *websocket.Conn, runID string) (bool, error) {
	run, err := h.services.GetRun(ctx, runID)
	if err != nil {
		msg := errLoadRun
		if errors.Is(err, service.ErrRunNotFound) {
			msg = err.Error()
		} else if h.log != nil {
			h.log.Errorw("ws_get_run_failed", "run_id", runID, "err", err)
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(wsEnvelope{Type: "error", Error: msg})
		return false, err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsEnvelope{Type: "run", Data: run}); err != nil {
		return false, err
	}
	return run.Finished(), nil
}

// closeStream sends a close frame; normal closure once the run is terminal.
func (h *Handler) closeStream(conn *websocket.Conn, runID string, err error) {
	code, reason := websocket.CloseNormalClosure, "run finished"
	if err != nil {
		code, reason = websocket.CloseInternalServerErr, "run unavailable"
		if h.log != nil {
			h.log.Infow("ws_stream_stopped", "run_id", runID, "err", err)
		}
	}
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
