package ws

import (
	"context"
	"sync"
	"time"

	"github.com/aelshh/Excalidraw-clone/internal/config"
	"github.com/aelshh/Excalidraw-clone/internal/core/domain"
)

// RuntimeClient owns the outbound side of one connection. Deliveries are
// queued on a buffered channel drained by a single write loop, so the
// relative order in which the router accepted messages for this recipient is
// preserved, and a stalled peer never blocks a sender.
type RuntimeClient struct {
	ctx          context.Context
	cancel       context.CancelFunc
	ws           *WebSocket
	userID       string
	out          chan []byte
	pingInterval time.Duration
	once         sync.Once
}

func NewClient(parent context.Context, ws *WebSocket, userID string, cfg config.RelayConfig) *RuntimeClient {
	ctx, cancel := context.WithCancel(parent)
	c := &RuntimeClient{
		ctx:          ctx,
		cancel:       cancel,
		ws:           ws,
		userID:       userID,
		out:          make(chan []byte, cfg.SendQueueSize),
		pingInterval: cfg.PingInterval,
	}
	go c.writeLoop()
	return c
}

func (c *RuntimeClient) UserID() string { return c.userID }

// Send queues one payload for delivery. It never blocks: a closed client
// reports domain.ErrClientClosed and a full queue domain.ErrSendQueueFull,
// both of which the caller treats as a best-effort miss.
func (c *RuntimeClient) Send(ctx context.Context, data []byte) error {
	select {
	case <-c.ctx.Done():
		return domain.ErrClientClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case c.out <- data:
		return nil
	case <-c.ctx.Done():
		return domain.ErrClientClosed
	default:
		return domain.ErrSendQueueFull
	}
}

func (c *RuntimeClient) Close() {
	c.once.Do(func() {
		c.cancel()
		c.ws.Close()
	})
}

func (c *RuntimeClient) writeLoop() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	defer c.Close()
	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.out:
			if err := c.ws.WriteMessage(data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.Ping(); err != nil {
				return
			}
		}
	}
}
