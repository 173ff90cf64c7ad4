package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aelshh/Excalidraw-clone/internal/app/registry"
	"github.com/aelshh/Excalidraw-clone/internal/app/server/handlers"
	"github.com/aelshh/Excalidraw-clone/internal/config"
	"github.com/aelshh/Excalidraw-clone/internal/core/services"
	"github.com/aelshh/Excalidraw-clone/pkg/middleware"
)

type Server struct {
	log         *slog.Logger
	mux         *http.ServeMux
	name        string
	addr        string
	authHandler *handlers.AuthHandler
	roomHandler *handlers.RoomHandler
	wsHandler   *handlers.WSHandler
	tokenSvc    *services.TokenService
}

func NewServer(
	log *slog.Logger,
	cfg *config.Config,
	userSvc *services.UserService,
	roomSvc *services.RoomService,
	relaySvc *services.RelayService,
	tokenSvc *services.TokenService,
	hub *registry.Registry,
) *Server {
	s := &Server{
		log:         log,
		mux:         http.NewServeMux(),
		name:        cfg.Service.Name,
		addr:        cfg.Service.Addr,
		authHandler: handlers.NewAuthHandler(userSvc, tokenSvc),
		roomHandler: handlers.NewRoomHandler(roomSvc),
		wsHandler:   handlers.NewWSHandler(hub, relaySvc, tokenSvc, *cfg.Relay),
		tokenSvc:    tokenSvc,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	auth := middleware.AuthMiddleware(s.tokenSvc)

	// Public routes
	s.mux.HandleFunc("POST /api/v1/signup", s.authHandler.Signup)
	s.mux.HandleFunc("POST /api/v1/signin", s.authHandler.Signin)
	s.mux.HandleFunc("GET /api/v1/rooms/{slug}", s.roomHandler.GetRoom)

	// Protected routes: the middleware extracts the subject from the JWT
	// and puts it in the context.
	s.mux.Handle("GET /api/v1/create-room/{slug}", auth(http.HandlerFunc(s.roomHandler.CreateRoom)))

	// The relay endpoint authenticates itself from the handshake token
	// query parameter, not the Authorization header.
	s.mux.HandleFunc("/ws", s.wsHandler.Handler)
}

// Handler returns the fully wrapped HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = middleware.RequestLogger(s.log)(h)
	h = middleware.TracerMiddleware(s.name)(h)
	return h
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", s.addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("server shutting down")
		return server.Shutdown(shutdownCtx)
	}
}
