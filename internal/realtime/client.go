package realtime

import (
	"sync"

	"github.com/google/uuid"
)

const outboundBuffer = 32

// SSEClient is one open event stream. Outbound is closed by
// SSEHub.CloseClient and nowhere else.
type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Outbound chan SSEMessage

	channels map[string]struct{}
	done     chan struct{}
	once     sync.Once
}

func newSSEClient(userID uuid.UUID) *SSEClient {
	return &SSEClient{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan SSEMessage, outboundBuffer),
		channels: map[string]struct{}{},
		done:     make(chan struct{}),
	}
}

// offer queues msg without blocking and reports whether it fit.
func (c *SSEClient) offer(msg SSEMessage) bool {
	select {
	case c.Outbound <- msg:
		return true
	default:
		return false
	}
}
