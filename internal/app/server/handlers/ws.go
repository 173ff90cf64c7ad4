package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aelshh/Excalidraw-clone/internal/app/registry"
	"github.com/aelshh/Excalidraw-clone/internal/app/server/ws"
	"github.com/aelshh/Excalidraw-clone/internal/config"
	"github.com/aelshh/Excalidraw-clone/internal/core/domain"
	"github.com/aelshh/Excalidraw-clone/internal/core/services"
	"github.com/aelshh/Excalidraw-clone/internal/platform/logger"
)

type WSHandler struct {
	hub      *registry.Registry
	relay    *services.RelayService
	tokenSvc *services.TokenService
	relayCfg config.RelayConfig
}

func NewWSHandler(
	hub *registry.Registry,
	relay *services.RelayService,
	tokenSvc *services.TokenService,
	relayCfg config.RelayConfig,
) *WSHandler {
	return &WSHandler{
		hub:      hub,
		relay:    relay,
		tokenSvc: tokenSvc,
		relayCfg: relayCfg,
	}
}

// Handler runs one connection session: handshake, token verification, then
// the synchronous event loop until the peer closes, the transport errors, or
// a fatal event kills the session. An unauthenticated connection is told why
// and closed without ever touching the registry.
func (s *WSHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	span := trace.SpanFromContext(r.Context())

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // tighten later
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorContext(r.Context(), "ws handler - upgrade failed", "err", err)
		return
	}

	// The bearer credential rides on the handshake URL.
	token := r.URL.Query().Get("token")
	userID, err := s.tokenSvc.ValidateToken(token)
	if err != nil {
		log.WarnContext(r.Context(), "ws handler - authentication failed", "err", err)
		conn.SetWriteDeadline(time.Now().Add(s.relayCfg.WriteTimeout))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(domain.MsgAuthFailed))
		_ = conn.Close()
		return
	}
	span.SetAttributes(attribute.String("user.id", userID))

	// The session outlives the HTTP request context.
	sessionCtx := context.WithoutCancel(r.Context())
	ctx, cancel := context.WithCancel(sessionCtx)
	defer cancel()

	socket := ws.NewWebSocket(ctx, conn, s.relayCfg)
	client := ws.NewClient(ctx, socket, userID, s.relayCfg)
	defer client.Close()

	s.hub.Register(client)
	defer s.hub.Unregister(client)

	if err := client.Send(ctx, []byte(domain.MsgConnected)); err != nil {
		log.ErrorContext(r.Context(), "ws handler - handshake ack failed", "user_id", userID, "err", err)
		return
	}
	log.InfoContext(r.Context(), "ws handler - connection established", "user_id", userID)

	// One event at a time, in arrival order. A malformed payload is the
	// only fatal event error and tears the session down.
	socket.ReadLoop(func(data []byte) error {
		if err := s.relay.HandleEvent(ctx, client, data); err != nil {
			log.WarnContext(ctx, "ws handler - fatal session error", "user_id", userID, "err", err)
			return err
		}
		return nil
	})
	log.InfoContext(ctx, "ws handler - connection closed", "user_id", userID)
}
