// Package constants centralizes table names and environment identifiers.
package constants

// Environments
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Database table names
const (
	TableSubscriptions = "subscriptions"
	TableApiKeys       = "api_keys"
	TablePlans         = "plans"
	TableApplications  = "applications"
	TableAuditLogs     = "audit_logs"
)
