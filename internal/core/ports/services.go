package ports

import (
	"context"

	"menthub/internal/core/domain"
)

// PresenceView is the read side of the presence registry.
type PresenceView interface {
	IsOnline(id domain.UserID) bool
	OnlineUsers() []domain.UserID
}

// Emitter pushes a server event to every connection of one identity.
// Implementations must be safe for concurrent use and must not block on a
// slow or dead peer.
type Emitter interface {
	EmitToUser(id domain.UserID, event string, payload interface{}) error
}

// PresencePublisher mirrors presence transitions to an external pub/sub
// backbone so other instances can observe them. The in-process registry
// remains the source of truth; publishing is best-effort.
type PresencePublisher interface {
	PublishPresence(ctx context.Context, id domain.UserID, online bool) error
}
