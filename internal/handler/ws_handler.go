package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/middleware"
	"github.com/stemsi/neetquiz-backend/internal/response"
	ws "github.com/stemsi/neetquiz-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler relays image batch progress to WebSocket clients.
type WSHandler struct {
	progress ProgressSubscriber
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(progress ProgressSubscriber, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		progress: progress,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// connWriter serializes writes; gorilla allows one concurrent writer.
type connWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *connWriter) typed(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ws.WriteTyped(w.conn, v)
}

func (w *connWriter) fail(msg string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ws.WriteError(w.conn, msg)
}

func (w *connWriter) raw(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ws.WriteRaw(w.conn, data)
}

func (w *connWriter) close(reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
		time.Now().Add(time.Second))
}

// BatchProgress godoc
// WS /ws/v1/batches/:batch_id/progress
// Streams extraction and generation events for one image batch until the
// quiz is ready or the batch fails.
func (h *WSHandler) BatchProgress(c *gin.Context) {
	batchID := c.Param("batch_id")
	if _, err := uuid.Parse(batchID); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Subscribe before upgrading so events published right after the
	// handshake are not lost.
	msgs, unsubscribe, err := h.progress.Subscribe(ctx, batchID)
	if err != nil {
		h.log.Error().Err(err).Str("batch_id", batchID).Msg("Progress subscription failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrInternal)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("batch_id", batchID).Logger()
	if userID, ok := middleware.GetUserID(c); ok {
		wsLog = wsLog.With().Str("user_id", userID.String()).Logger()
	}
	wsLog.Debug().Msg("Progress subscriber connected")

	out := &connWriter{conn: conn}
	if err := out.typed(ws.SubscribedResponse{Event: ws.EventSubscribed, BatchID: batchID}); err != nil {
		return
	}

	go h.readPump(cancel, out, wsLog)

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-msgs:
			if !ok {
				return
			}
			if err := out.raw(data); err != nil {
				wsLog.Debug().Err(err).Msg("Progress write failed")
				return
			}
			var ev ws.ProgressEvent
			if json.Unmarshal(data, &ev) == nil && ev.Terminal() {
				out.close(string(ev.Event))
				return
			}
		}
	}
}

// readPump answers pings and cancels the stream when the client goes away.
func (h *WSHandler) readPump(cancel context.CancelFunc, out *connWriter, log zerolog.Logger) {
	defer cancel()
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(out.conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			if err := out.typed(ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		default:
			if err := out.fail("unknown action: " + string(msg.Action)); err != nil {
				return
			}
		}
	}
}
