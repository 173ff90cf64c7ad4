package domain

import "errors"

var (
	ErrMalformedEvent     = errors.New("malformed event payload")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPassword    = errors.New("password must be 5-100 characters with at least one letter and one number")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrEmailTaken         = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrInvalidRoomSlug    = errors.New("invalid room slug")
	ErrRoomExists         = errors.New("room already exists")
	ErrRoomNotFound       = errors.New("room not found")
	ErrClientClosed       = errors.New("client closed")
	ErrSendQueueFull      = errors.New("client send queue full")
)
