package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aelshh/Excalidraw-clone/internal/core/domain"
)

type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepository(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

/*
	-- Rooms
	CREATE TABLE rooms (
		id          UUID PRIMARY KEY,
		slug        TEXT NOT NULL UNIQUE,
		admin_id    UUID NOT NULL REFERENCES users(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);
*/

func (r *RoomRepo) GetRoomBySlug(ctx context.Context, slug string) (*domain.Room, error) {
	if slug == "" {
		return nil, domain.ErrInvalidRoomSlug
	}
	room := &domain.Room{Slug: slug}
	query := `SELECT id, admin_id, created_at FROM rooms WHERE slug = $1`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, slug).Scan(&room.ID, &room.AdminID, &room.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *RoomRepo) CreateRoom(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (id, slug, admin_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query, room.ID, room.Slug, room.AdminID, room.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRoomExists
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
