package realtime

import (
	"context"

	"github.com/chapelworks/mediasync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/channel_mock.go -package=mock

// Channel delivers a best-effort stream of change notifications for one
// collection. Liveness is an optimization, not a correctness dependency:
// a reconnect may drop events, so subscribers must be able to resolve
// divergence with a full re-fetch.
type Channel interface {
	// Open establishes the subscription and starts delivering events to
	// onEvent, in server emission order, for as long as the handle stays
	// open. onEvent may be invoked zero or more times. Connection loss is
	// not surfaced; the channel reconnects silently.
	Open(ctx context.Context, collection string, onEvent func(models.LiveEvent)) Handle
}

// Handle releases a subscription. Close blocks until delivery has fully
// stopped; calling it twice, or never, is safe.
type Handle interface {
	Close()
}
