package domain

import "context"

// UserRepository handles the persistent account identities.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
}

// RoomRepository handles the durable room records (slug -> id mapping).
type RoomRepository interface {
	GetRoomBySlug(ctx context.Context, slug string) (*Room, error)
	CreateRoom(ctx context.Context, r *Room) error
}
