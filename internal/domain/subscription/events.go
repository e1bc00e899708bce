package subscription

// AuditEvent names a mutation recorded in the audit trail.
type AuditEvent string

const (
	AuditSubscriptionCreated AuditEvent = "SUBSCRIPTION_CREATED"
	AuditSubscriptionUpdated AuditEvent = "SUBSCRIPTION_UPDATED"
	AuditSubscriptionClosed  AuditEvent = "SUBSCRIPTION_CLOSED"
	AuditSubscriptionDeleted AuditEvent = "SUBSCRIPTION_DELETED"
	AuditApiKeyCreated       AuditEvent = "APIKEY_CREATED"
	AuditApiKeyRevoked       AuditEvent = "APIKEY_REVOKED"
	AuditApiKeyExpired       AuditEvent = "APIKEY_EXPIRED"
)

// Hook names an asynchronous notification triggered by a transition.
type Hook string

const (
	HookSubscriptionNew      Hook = "SUBSCRIPTION_NEW"
	HookSubscriptionAccepted Hook = "SUBSCRIPTION_ACCEPTED"
	HookSubscriptionRejected Hook = "SUBSCRIPTION_REJECTED"
	HookSubscriptionClosed   Hook = "SUBSCRIPTION_CLOSED"
)

// ScopeKind is the closed set of notification scopes. Hooks fan out once per
// scope; the scope is resolved when the hook is triggered, not re-dispatched
// per consumer.
type ScopeKind string

const (
	ScopeAPI         ScopeKind = "API"
	ScopeApplication ScopeKind = "APPLICATION"
)
