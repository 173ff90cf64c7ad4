package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aelshh/Excalidraw-clone/internal/core/contracts"
	"github.com/aelshh/Excalidraw-clone/internal/core/domain"
)

var tracer = otel.Tracer("relay-service")

// RelayService processes the inbound event stream of an active connection.
// Events from one connection arrive strictly in order: the session read loop
// calls HandleEvent synchronously.
type RelayService struct {
	log      *slog.Logger
	registry contracts.Registry
}

func NewRelayService(log *slog.Logger, registry contracts.Registry) *RelayService {
	return &RelayService{
		log:      log,
		registry: registry,
	}
}

// HandleEvent dispatches one inbound frame. A payload that is not valid JSON
// returns domain.ErrMalformedEvent, which is fatal for the session; every
// other outcome leaves the session running.
func (s *RelayService) HandleEvent(ctx context.Context, c contracts.Client, raw []byte) error {
	var ev domain.InboundEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		s.log.ErrorContext(ctx, "relay - handle event - malformed payload", "user_id", c.UserID(), "err", err)
		return domain.ErrMalformedEvent
	}
	ctx, span := tracer.Start(ctx, "RelayService.HandleEvent", trace.WithAttributes(
		attribute.String("event.type", ev.Type),
		attribute.String("user.id", c.UserID()),
	))
	defer span.End()

	switch ev.Type {
	case domain.EventJoinRoom:
		if ev.RoomID == "" {
			s.log.WarnContext(ctx, "relay - handle event - join without room id", "user_id", c.UserID())
			return nil
		}
		rooms := s.registry.Join(c, ev.RoomID)
		s.log.InfoContext(ctx, "relay - handle event - joined room", "user_id", c.UserID(), "room_id", ev.RoomID, "rooms", rooms)
		return s.confirmRooms(ctx, c, rooms)

	case domain.EventLeaveRoom:
		if ev.RoomID == "" {
			s.log.WarnContext(ctx, "relay - handle event - leave without room id", "user_id", c.UserID())
			return nil
		}
		rooms := s.registry.Leave(c, ev.RoomID)
		s.log.InfoContext(ctx, "relay - handle event - left room", "user_id", c.UserID(), "room_id", ev.RoomID, "rooms", rooms)
		return s.confirmRooms(ctx, c, rooms)

	case domain.EventChat:
		// The payload is relayed verbatim over every room the sender has
		// joined, deduplicated per recipient.
		s.registry.Broadcast(ctx, c, []byte(ev.Message))
		return nil

	default:
		// Unknown event types are echoed back, not treated as errors.
		if err := c.Send(ctx, []byte("You sent "+string(raw))); err != nil {
			s.log.WarnContext(ctx, "relay - handle event - echo failed", "user_id", c.UserID(), "err", err)
		}
		return nil
	}
}

func (s *RelayService) confirmRooms(ctx context.Context, c contracts.Client, rooms []string) error {
	if err := c.Send(ctx, []byte("Joined Rooms: "+strings.Join(rooms, ","))); err != nil {
		s.log.WarnContext(ctx, "relay - handle event - room confirmation failed", "user_id", c.UserID(), "err", err)
	}
	return nil
}
