package bus

import (
	"context"

	"github.com/yungbote/funnel-builder-backend/internal/realtime"
)

// Bus fans editor events out across instances. Every instance publishes to
// the bus and runs a forwarder that rebroadcasts into its local hub.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
