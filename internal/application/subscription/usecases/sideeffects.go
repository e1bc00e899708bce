package usecases

import (
	"context"

	"github.com/planhub-io/planhub/internal/domain/subscription"
	"github.com/planhub-io/planhub/internal/shared/goroutine"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

// SideEffects dispatches audit records and hook notifications without
// blocking the calling state transition. Every dispatch runs on a detached
// goroutine; the engine never waits for, or fails on, the sink.
type SideEffects struct {
	audit  AuditSink
	notify Notifier
	logger logger.Interface
}

func NewSideEffects(audit AuditSink, notify Notifier, logger logger.Interface) *SideEffects {
	return &SideEffects{
		audit:  audit,
		notify: notify,
		logger: logger,
	}
}

// Audit records an audit entry asynchronously.
func (s *SideEffects) Audit(entry AuditEntry) {
	if s.audit == nil {
		return
	}
	goroutine.SafeGo(s.logger, "audit-dispatch", func() {
		s.audit.Audit(context.Background(), entry)
	})
}

// TriggerBoth fans a hook out to the API scope and the application scope.
func (s *SideEffects) TriggerBoth(hook subscription.Hook, apiID, applicationID string, params map[string]any) {
	s.Trigger(hook, subscription.ScopeAPI, apiID, params)
	s.Trigger(hook, subscription.ScopeApplication, applicationID, params)
}

// Trigger dispatches one hook notification asynchronously.
func (s *SideEffects) Trigger(hook subscription.Hook, scope subscription.ScopeKind, scopeID string, params map[string]any) {
	if s.notify == nil {
		return
	}
	goroutine.SafeGo(s.logger, "hook-dispatch", func() {
		s.notify.Trigger(context.Background(), hook, scope, scopeID, params)
	})
}

// hookParams builds the common notification payload for a subscription.
func hookParams(sub *subscription.Subscription) map[string]any {
	params := map[string]any{
		"subscription": sub.ID(),
		"plan":         sub.PlanID(),
		"application":  sub.ApplicationID(),
		"api":          sub.APIID(),
		"status":       sub.Status().String(),
	}
	if reason := sub.Reason(); reason != nil {
		params["reason"] = *reason
	}
	return params
}
