package usecases

import (
	"context"

	"github.com/planhub-io/planhub/internal/domain/subscription"
)

// AuditEntry is one record handed to the audit trail.
type AuditEntry struct {
	EntityType    string
	EntityID      string
	Event         subscription.AuditEvent
	APIID         string
	ApplicationID string
	Before        any
	After         any
}

// Entity types recorded in audit entries.
const (
	EntitySubscription = "SUBSCRIPTION"
	EntityApiKey       = "API_KEY"
)

// AuditSink receives audit entries. Implementations must tolerate being
// called from detached goroutines; failures are logged, never escalated.
type AuditSink interface {
	Audit(ctx context.Context, entry AuditEntry)
}

// Notifier dispatches hook notifications to a scope. Fire-and-forget: a
// failing notifier must never affect the triggering state transition.
type Notifier interface {
	Trigger(ctx context.Context, hook subscription.Hook, scope subscription.ScopeKind, scopeID string, params map[string]any)
}

// Locker serializes engine operations that share an eligibility window.
// Creation requests for the same application must not interleave between
// the conflicting-subscription scan and the insert.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
