package contracts

import (
	"context"
	"time"
)

// RoomCache fronts the durable room store with a slug -> room id lookup.
type RoomCache interface {
	GetRoomID(ctx context.Context, slug string) (string, error)
	SetRoomID(ctx context.Context, slug, roomID string, ttl time.Duration) error
	Invalidate(ctx context.Context, slug string) error
}
