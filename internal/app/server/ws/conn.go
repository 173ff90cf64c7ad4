package ws

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aelshh/Excalidraw-clone/internal/config"
)

type WebSocket struct {
	*websocket.Conn
	ctx          context.Context
	cancel       context.CancelFunc
	readLimit    int64
	writeTimeout time.Duration
	pongWait     time.Duration
}

func NewWebSocket(parent context.Context, conn *websocket.Conn, cfg config.RelayConfig) *WebSocket {
	ctx, cancel := context.WithCancel(parent)
	return &WebSocket{
		Conn:         conn,
		ctx:          ctx,
		cancel:       cancel,
		readLimit:    cfg.ReadLimit,
		writeTimeout: cfg.WriteTimeout,
		pongWait:     cfg.PongWait,
	}
}

func (w *WebSocket) WriteMessage(data []byte) error {
	w.Conn.SetWriteDeadline(time.Now().Add(w.writeTimeout))
	return w.Conn.WriteMessage(websocket.TextMessage, data)
}

func (w *WebSocket) Ping() error {
	return w.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(w.writeTimeout))
}

// ReadLoop consumes inbound frames one at a time, in arrival order, and
// hands each to onMsg on the calling goroutine. It returns when the peer
// closes, the transport errors, or onMsg reports a fatal session error.
func (w *WebSocket) ReadLoop(onMsg func([]byte) error) {
	defer w.Close()

	// Protects against memory exhaustion
	w.Conn.SetReadLimit(w.readLimit)
	w.Conn.SetReadDeadline(time.Now().Add(w.pongWait))
	w.Conn.SetPongHandler(func(string) error {
		return w.Conn.SetReadDeadline(time.Now().Add(w.pongWait))
	})

	for {
		_, data, err := w.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				slog.Warn("unexpected close", "err", err)
			}
			return
		}
		if len(data) == 0 {
			continue
		}
		if err := onMsg(data); err != nil {
			return
		}
	}
}

func (w *WebSocket) Close() {
	w.cancel()
	_ = w.Conn.Close()
}
