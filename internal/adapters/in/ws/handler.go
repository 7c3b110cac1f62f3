package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"deliverytracker/internal/core/application/sessions"
	"deliverytracker/internal/core/ports"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DefaultSendBuffer is the per-connection outbound queue size.
const DefaultSendBuffer = 32

// Watcher binds connections to tracking sessions.
type Watcher interface {
	Watch(conn ports.Connection, orderID string) (*sessions.Session, error)
	Disconnect(conn ports.Connection)
}

// ConnectionMetrics counts open websocket connections.
type ConnectionMetrics interface {
	ConnectionOpened()
	ConnectionClosed()
}

// Handler upgrades HTTP requests to websocket connections and serves the
// tracking protocol on them.
type Handler struct {
	watcher    Watcher
	metrics    ConnectionMetrics
	upgrader   websocket.Upgrader
	sendBuffer int
	logger     *slog.Logger
}

func NewHandler(watcher Watcher, metrics ConnectionMetrics, sendBuffer int, logger *slog.Logger) *Handler {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}

	return &Handler{
		watcher: watcher,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sendBuffer: sendBuffer,
		logger:     logger.With("component", "ws_handler"),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	conn := newConnection(uuid.NewString(), socket, h.sendBuffer, h.logger)
	h.metrics.ConnectionOpened()
	h.logger.InfoContext(r.Context(), "client connected", "conn", conn.ID(), "remote", r.RemoteAddr)

	go conn.writeLoop()
	h.readLoop(conn)

	h.watcher.Disconnect(conn)
	conn.close()
	h.metrics.ConnectionClosed()
	h.logger.InfoContext(r.Context(), "client disconnected", "conn", conn.ID())
}

func (h *Handler) readLoop(conn *Connection) {
	socket := conn.socket
	socket.SetReadLimit(maxFrame)
	_ = socket.SetReadDeadline(time.Now().Add(pongWait))
	socket.SetPongHandler(func(string) error {
		return socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read failed", "conn", conn.ID(), "error", err)
			}
			return
		}

		h.handleFrame(conn, data)
	}
}

func (h *Handler) handleFrame(conn *Connection, data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.reply(conn, errorMessage("malformed message"))
		return
	}

	switch msg.Event {
	case EventTrackOrder:
		if msg.OrderID == "" {
			h.reply(conn, errorMessage("orderId is required"))
			return
		}
		if _, err := h.watcher.Watch(conn, msg.OrderID); err != nil {
			h.logger.Warn("watch rejected", "conn", conn.ID(), "orderId", msg.OrderID, "error", err)
			h.reply(conn, errorMessage(err.Error()))
		}
	default:
		h.reply(conn, errorMessage("unknown event: "+msg.Event))
	}
}

func (h *Handler) reply(conn *Connection, msg ServerMessage) {
	if err := conn.enqueue(msg); err != nil && !errors.Is(err, ports.ErrConnectionClosed) {
		h.logger.Warn("reply dropped", "conn", conn.ID(), "error", err)
	}
}
