package registry

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/aelshh/Excalidraw-clone/internal/core/contracts"
)

// Registry is the single piece of state shared across connection sessions.
// It holds every live connection together with its joined-room set, plus a
// room -> connections index maintained incrementally on join, leave and
// disconnect. Both structures are guarded by one RWMutex: joins and leaves
// come from the owning session, removal from the close path, and fan-out
// reads from the router on behalf of an originating session.
type Registry struct {
	log   *slog.Logger
	mu    sync.RWMutex
	conns map[contracts.Client]map[string]struct{}
	rooms map[string]map[contracts.Client]struct{}
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:   log,
		conns: make(map[contracts.Client]map[string]struct{}),
		rooms: make(map[string]map[contracts.Client]struct{}),
	}
}

func (h *Registry) Register(c contracts.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; ok {
		return
	}
	h.conns[c] = make(map[string]struct{})
}

// Unregister removes the connection and all of its room memberships. Safe to
// call more than once; later calls are no-ops.
func (h *Registry) Unregister(c contracts.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	joined, ok := h.conns[c]
	if !ok {
		return
	}
	for roomID := range joined {
		h.dropMember(roomID, c)
	}
	delete(h.conns, c)
}

// Join is idempotent: rejoining an already-joined room leaves the set
// unchanged. Joining after the connection was unregistered is a no-op and
// returns nil.
func (h *Registry) Join(c contracts.Client, roomID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	joined, ok := h.conns[c]
	if !ok {
		return nil
	}
	joined[roomID] = struct{}{}
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[contracts.Client]struct{})
		h.rooms[roomID] = members
	}
	members[c] = struct{}{}
	return sortedRooms(joined)
}

func (h *Registry) Leave(c contracts.Client, roomID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	joined, ok := h.conns[c]
	if !ok {
		return nil
	}
	delete(joined, roomID)
	h.dropMember(roomID, c)
	return sortedRooms(joined)
}

// Rooms returns the sorted joined-room list of a live connection.
func (h *Registry) Rooms(c contracts.Client) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	joined, ok := h.conns[c]
	if !ok {
		return nil
	}
	return sortedRooms(joined)
}

// RoomSize reports how many live connections are joined to a room.
func (h *Registry) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Broadcast delivers payload once to every connection sharing at least one
// room with origin, origin included. Delivery is best effort per recipient:
// a recipient whose sink fails is skipped, never crashing the fan-out or
// blocking the remaining recipients.
func (h *Registry) Broadcast(ctx context.Context, origin contracts.Client, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	joined, ok := h.conns[origin]
	if !ok {
		return
	}
	recipients := make(map[contracts.Client]struct{})
	for roomID := range joined {
		for member := range h.rooms[roomID] {
			recipients[member] = struct{}{}
		}
	}
	for recipient := range recipients {
		if err := recipient.Send(ctx, payload); err != nil {
			h.log.WarnContext(ctx, "registry - broadcast - delivery failed",
				"origin", origin.UserID(), "recipient", recipient.UserID(), "err", err)
		}
	}
}

// dropMember must be called with the write lock held.
func (h *Registry) dropMember(roomID string, c contracts.Client) {
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

func sortedRooms(joined map[string]struct{}) []string {
	rooms := make([]string, 0, len(joined))
	for roomID := range joined {
		rooms = append(rooms, roomID)
	}
	sort.Strings(rooms)
	return rooms
}
