package usecases

import (
	"time"

	"github.com/planhub-io/planhub/internal/domain/subscription"
)

// snapshot captures the auditable fields of a subscription at a point in
// time, for before/after audit diffs.
func snapshot(sub *subscription.Subscription) map[string]any {
	if sub == nil {
		return nil
	}
	m := map[string]any{
		"id":            sub.ID(),
		"plan":          sub.PlanID(),
		"application":   sub.ApplicationID(),
		"api":           sub.APIID(),
		"status":        sub.Status().String(),
		"subscribed_by": sub.SubscribedBy(),
		"created_at":    sub.CreatedAt().Format(time.RFC3339),
		"updated_at":    sub.UpdatedAt().Format(time.RFC3339),
	}
	putString(m, "reason", sub.Reason())
	putString(m, "processed_by", sub.ProcessedBy())
	putString(m, "client_id", sub.ClientID())
	putTime(m, "processed_at", sub.ProcessedAt())
	putTime(m, "starting_at", sub.StartingAt())
	putTime(m, "ending_at", sub.EndingAt())
	putTime(m, "closed_at", sub.ClosedAt())
	return m
}

// keySnapshot captures the auditable fields of an api key.
func keySnapshot(key *subscription.ApiKey) map[string]any {
	if key == nil {
		return nil
	}
	m := map[string]any{
		"key":          key.Key(),
		"subscription": key.SubscriptionID(),
		"revoked":      key.Revoked(),
		"created_at":   key.CreatedAt().Format(time.RFC3339),
	}
	putTime(m, "expiration", key.Expiration())
	putTime(m, "revoked_at", key.RevokedAt())
	return m
}

func putString(m map[string]any, k string, v *string) {
	if v != nil {
		m[k] = *v
	}
}

func putTime(m map[string]any, k string, v *time.Time) {
	if v != nil {
		m[k] = v.Format(time.RFC3339)
	}
}
