package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aelshh/Excalidraw-clone/internal/core/contracts"
	"github.com/aelshh/Excalidraw-clone/internal/core/domain"
)

type RoomService struct {
	log       *slog.Logger
	repo      domain.RoomRepository
	cache     contracts.RoomCache
	txManager TxRunner
	cacheTTL  time.Duration
}

func NewRoomService(
	log *slog.Logger,
	repo domain.RoomRepository,
	cache contracts.RoomCache,
	txManager TxRunner,
	cacheTTL time.Duration,
) *RoomService {
	return &RoomService{
		log:       log,
		repo:      repo,
		cache:     cache,
		txManager: txManager,
		cacheTTL:  cacheTTL,
	}
}

// CreateRoom persists a durable room record for the slug. The relay core
// never consults these records; they exist so clients can resolve a slug to
// a stable room id before joining it over the socket.
func (s *RoomService) CreateRoom(ctx context.Context, slug string, adminID uuid.UUID) (*domain.Room, error) {
	if slug == "" {
		return nil, domain.ErrInvalidRoomSlug
	}
	room := domain.NewRoom(slug, adminID)
	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.CreateRoom(txCtx, room)
	})
	if err != nil {
		s.log.ErrorContext(ctx, "rooms - create room failed", "slug", slug, "admin_id", adminID, "err", err)
		return nil, err
	}
	if cerr := s.cache.SetRoomID(ctx, slug, room.ID.String(), s.cacheTTL); cerr != nil {
		s.log.WarnContext(ctx, "rooms - cache prime failed", "slug", slug, "err", cerr)
	}
	s.log.InfoContext(ctx, "rooms - create room success", "slug", slug, "room_id", room.ID)
	return room, nil
}

// ResolveSlug returns the room id for a slug, cache-aside over the durable
// store.
func (s *RoomService) ResolveSlug(ctx context.Context, slug string) (string, error) {
	if slug == "" {
		return "", domain.ErrInvalidRoomSlug
	}
	if id, err := s.cache.GetRoomID(ctx, slug); err == nil && id != "" {
		return id, nil
	} else if err != nil && !errors.Is(err, domain.ErrRoomNotFound) {
		s.log.WarnContext(ctx, "rooms - cache lookup failed", "slug", slug, "err", err)
	}
	room, err := s.repo.GetRoomBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if cerr := s.cache.SetRoomID(ctx, slug, room.ID.String(), s.cacheTTL); cerr != nil {
		s.log.WarnContext(ctx, "rooms - cache prime failed", "slug", slug, "err", cerr)
	}
	return room.ID.String(), nil
}
