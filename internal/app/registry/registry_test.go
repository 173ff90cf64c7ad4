package registry

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	id       string
	mu       sync.Mutex
	received [][]byte
	sendErr  error
	closed   bool
}

func (m *mockClient) UserID() string { return m.id }

func (m *mockClient) Send(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.received = append(m.received, data)
	return nil
}

func (m *mockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *mockClient) deliveries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.received))
	for _, d := range m.received {
		out = append(out, string(d))
	}
	return out
}

func newTestRegistry() *Registry {
	return NewRegistry(slog.Default())
}

func TestRegistry_JoinIdempotent(t *testing.T) {
	h := newTestRegistry()
	c := &mockClient{id: "u1"}
	h.Register(c)

	first := h.Join(c, "r1")
	second := h.Join(c, "r1")

	assert.Equal(t, []string{"r1"}, first)
	assert.Equal(t, []string{"r1"}, second)
	assert.Equal(t, 1, h.RoomSize("r1"))
}

func TestRegistry_JoinReturnsSortedRooms(t *testing.T) {
	h := newTestRegistry()
	c := &mockClient{id: "u1"}
	h.Register(c)

	h.Join(c, "zeta")
	h.Join(c, "alpha")
	rooms := h.Join(c, "mid")

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, rooms)
}

func TestRegistry_JoinWithoutRegisterIsNoop(t *testing.T) {
	h := newTestRegistry()
	c := &mockClient{id: "ghost"}

	rooms := h.Join(c, "r1")

	assert.Nil(t, rooms)
	assert.Equal(t, 0, h.RoomSize("r1"))
}

func TestRegistry_Leave(t *testing.T) {
	h := newTestRegistry()
	c := &mockClient{id: "u1"}
	h.Register(c)
	h.Join(c, "r1")
	h.Join(c, "r2")

	rooms := h.Leave(c, "r1")

	assert.Equal(t, []string{"r2"}, rooms)
	assert.Equal(t, 0, h.RoomSize("r1"))
	assert.Equal(t, 1, h.RoomSize("r2"))
}

func TestRegistry_Broadcast(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(h *Registry) (origin *mockClient, others []*mockClient)
		wantReceived map[string]int
	}{
		{
			name: "delivers to every member of the room including sender",
			setup: func(h *Registry) (*mockClient, []*mockClient) {
				sender := &mockClient{id: "sender"}
				recv1 := &mockClient{id: "recv1"}
				recv2 := &mockClient{id: "recv2"}
				for _, c := range []*mockClient{sender, recv1, recv2} {
					h.Register(c)
					h.Join(c, "r1")
				}
				return sender, []*mockClient{recv1, recv2}
			},
			wantReceived: map[string]int{"sender": 1, "recv1": 1, "recv2": 1},
		},
		{
			name: "no cross-room delivery",
			setup: func(h *Registry) (*mockClient, []*mockClient) {
				sender := &mockClient{id: "sender"}
				outsider := &mockClient{id: "outsider"}
				h.Register(sender)
				h.Register(outsider)
				h.Join(sender, "r1")
				h.Join(outsider, "r2")
				return sender, []*mockClient{outsider}
			},
			wantReceived: map[string]int{"sender": 1, "outsider": 0},
		},
		{
			name: "overlapping rooms deliver exactly once",
			setup: func(h *Registry) (*mockClient, []*mockClient) {
				sender := &mockClient{id: "sender"}
				both := &mockClient{id: "both"}
				h.Register(sender)
				h.Register(both)
				h.Join(sender, "a")
				h.Join(sender, "b")
				h.Join(both, "a")
				h.Join(both, "b")
				return sender, []*mockClient{both}
			},
			wantReceived: map[string]int{"sender": 1, "both": 1},
		},
		{
			name: "sender with no rooms delivers nothing",
			setup: func(h *Registry) (*mockClient, []*mockClient) {
				sender := &mockClient{id: "sender"}
				other := &mockClient{id: "other"}
				h.Register(sender)
				h.Register(other)
				h.Join(other, "r1")
				return sender, []*mockClient{other}
			},
			wantReceived: map[string]int{"sender": 0, "other": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRegistry()
			origin, others := tt.setup(h)

			h.Broadcast(context.Background(), origin, []byte("hi"))

			all := append([]*mockClient{origin}, others...)
			for _, c := range all {
				want, ok := tt.wantReceived[c.id]
				require.True(t, ok, "missing expectation for %s", c.id)
				assert.Len(t, c.deliveries(), want, "deliveries for %s", c.id)
			}
		})
	}
}

func TestRegistry_BroadcastIsolatesFailedRecipient(t *testing.T) {
	h := newTestRegistry()
	sender := &mockClient{id: "sender"}
	broken := &mockClient{id: "broken", sendErr: assert.AnError}
	healthy := &mockClient{id: "healthy"}
	for _, c := range []*mockClient{sender, broken, healthy} {
		h.Register(c)
		h.Join(c, "r1")
	}

	h.Broadcast(context.Background(), sender, []byte("hi"))

	assert.Equal(t, []string{"hi"}, healthy.deliveries())
	assert.Equal(t, []string{"hi"}, sender.deliveries())
	assert.Empty(t, broken.deliveries())
}

func TestRegistry_UnregisterRemovesMemberships(t *testing.T) {
	h := newTestRegistry()
	gone := &mockClient{id: "gone"}
	stay := &mockClient{id: "stay"}
	for _, c := range []*mockClient{gone, stay} {
		h.Register(c)
		h.Join(c, "r1")
	}

	h.Unregister(gone)

	assert.Equal(t, 1, h.RoomSize("r1"))
	h.Broadcast(context.Background(), stay, []byte("after"))
	assert.Empty(t, gone.deliveries())
	assert.Equal(t, []string{"after"}, stay.deliveries())

	// Second unregister is a no-op, not a panic.
	h.Unregister(gone)
}

func TestRegistry_BroadcastFromUnregisteredOrigin(t *testing.T) {
	h := newTestRegistry()
	sender := &mockClient{id: "sender"}
	other := &mockClient{id: "other"}
	h.Register(sender)
	h.Register(other)
	h.Join(sender, "r1")
	h.Join(other, "r1")
	h.Unregister(sender)

	h.Broadcast(context.Background(), sender, []byte("late"))

	assert.Empty(t, other.deliveries())
}

func TestRegistry_ConcurrentJoinsAndBroadcasts(t *testing.T) {
	h := newTestRegistry()
	clients := make([]*mockClient, 16)
	for i := range clients {
		clients[i] = &mockClient{id: string(rune('a' + i))}
		h.Register(clients[i])
	}

	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Add(1)
		go func(c *mockClient) {
			defer wg.Done()
			h.Join(c, "shared")
			h.Broadcast(context.Background(), c, []byte("m"))
			h.Join(c, "solo-"+c.id)
		}(c)
	}
	wg.Wait()

	assert.Equal(t, len(clients), h.RoomSize("shared"))
	for _, c := range clients {
		assert.Contains(t, h.Rooms(c), "shared")
	}
}
