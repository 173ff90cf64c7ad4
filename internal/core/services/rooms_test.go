package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelshh/Excalidraw-clone/internal/core/domain"
)

type memRoomRepo struct {
	bySlug map[string]*domain.Room
	reads  int
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{bySlug: make(map[string]*domain.Room)}
}

func (r *memRoomRepo) GetRoomBySlug(_ context.Context, slug string) (*domain.Room, error) {
	r.reads++
	if room, ok := r.bySlug[slug]; ok {
		return room, nil
	}
	return nil, domain.ErrRoomNotFound
}

func (r *memRoomRepo) CreateRoom(_ context.Context, room *domain.Room) error {
	if _, ok := r.bySlug[room.Slug]; ok {
		return domain.ErrRoomExists
	}
	r.bySlug[room.Slug] = room
	return nil
}

type memRoomCache struct {
	entries map[string]string
}

func newMemRoomCache() *memRoomCache {
	return &memRoomCache{entries: make(map[string]string)}
}

func (c *memRoomCache) GetRoomID(_ context.Context, slug string) (string, error) {
	if id, ok := c.entries[slug]; ok {
		return id, nil
	}
	return "", domain.ErrRoomNotFound
}

func (c *memRoomCache) SetRoomID(_ context.Context, slug, roomID string, _ time.Duration) error {
	c.entries[slug] = roomID
	return nil
}

func (c *memRoomCache) Invalidate(_ context.Context, slug string) error {
	delete(c.entries, slug)
	return nil
}

func newRoomServiceForTest() (*RoomService, *memRoomRepo, *memRoomCache) {
	repo := newMemRoomRepo()
	cache := newMemRoomCache()
	svc := NewRoomService(slog.Default(), repo, cache, passthroughTx{}, time.Minute)
	return svc, repo, cache
}

func TestRoomService_CreateRoom(t *testing.T) {
	svc, repo, cache := newRoomServiceForTest()
	admin := uuid.New()

	room, err := svc.CreateRoom(context.Background(), "design-review", admin)
	require.NoError(t, err)
	assert.Equal(t, "design-review", room.Slug)
	assert.Equal(t, admin, room.AdminID)

	require.NotNil(t, repo.bySlug["design-review"])
	assert.Equal(t, room.ID.String(), cache.entries["design-review"], "cache primed on create")
}

func TestRoomService_CreateRoomDuplicateSlug(t *testing.T) {
	svc, _, _ := newRoomServiceForTest()
	admin := uuid.New()

	_, err := svc.CreateRoom(context.Background(), "design-review", admin)
	require.NoError(t, err)

	_, err = svc.CreateRoom(context.Background(), "design-review", admin)
	assert.ErrorIs(t, err, domain.ErrRoomExists)
}

func TestRoomService_CreateRoomEmptySlug(t *testing.T) {
	svc, _, _ := newRoomServiceForTest()

	_, err := svc.CreateRoom(context.Background(), "", uuid.New())
	assert.ErrorIs(t, err, domain.ErrInvalidRoomSlug)
}

func TestRoomService_ResolveSlugCacheAside(t *testing.T) {
	svc, repo, cache := newRoomServiceForTest()
	room := domain.NewRoom("standup", uuid.New())
	require.NoError(t, repo.CreateRoom(context.Background(), room))
	repo.reads = 0

	// First lookup misses the cache and hits the store.
	id, err := svc.ResolveSlug(context.Background(), "standup")
	require.NoError(t, err)
	assert.Equal(t, room.ID.String(), id)
	assert.Equal(t, 1, repo.reads)
	assert.Equal(t, room.ID.String(), cache.entries["standup"])

	// Second lookup is served from the cache.
	id, err = svc.ResolveSlug(context.Background(), "standup")
	require.NoError(t, err)
	assert.Equal(t, room.ID.String(), id)
	assert.Equal(t, 1, repo.reads)
}

func TestRoomService_ResolveSlugUnknown(t *testing.T) {
	svc, _, _ := newRoomServiceForTest()

	_, err := svc.ResolveSlug(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}
