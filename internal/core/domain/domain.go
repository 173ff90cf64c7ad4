package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the persistent account identity behind a bearer token.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func NewUser(email, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}

// Room is the durable room record created over HTTP. The relay itself never
// reads these; a relay room exists exactly while some live connection has
// joined its identifier.
type Room struct {
	ID        uuid.UUID
	Slug      string
	AdminID   uuid.UUID
	CreatedAt time.Time
}

func NewRoom(slug string, adminID uuid.UUID) *Room {
	return &Room{
		ID:        uuid.New(),
		Slug:      slug,
		AdminID:   adminID,
		CreatedAt: time.Now(),
	}
}
