package contracts

import "context"

// Registry tracks every live connection and, per connection, the set of rooms
// it has joined. Membership is mutated only by the owning connection's
// session (join/leave) and by the close path (register/unregister).
type Registry interface {
	// Register adds an authenticated connection with an empty room set.
	Register(c Client)
	// Unregister removes the connection and every room membership it holds.
	Unregister(c Client)
	// Join adds the connection to a room (idempotent) and returns the
	// sorted list of rooms the connection is now joined to.
	Join(c Client, roomID string) []string
	// Leave removes the connection from a room (no-op if absent) and
	// returns the sorted list of remaining rooms.
	Leave(c Client, roomID string) []string
	// Broadcast delivers payload once to every live connection sharing at
	// least one room with origin, origin included. Best effort per
	// recipient.
	Broadcast(ctx context.Context, origin Client, payload []byte)
}

// Client is the minimal surface the registry needs to deliver to one
// WebSocket connection.
type Client interface {
	UserID() string
	Send(ctx context.Context, data []byte) error
	Close()
}
