package plan

// SecurityType is the security mechanism enforced by a plan at the gateway.
type SecurityType string

const (
	SecurityAPIKey  SecurityType = "API_KEY"
	SecurityOAuth2  SecurityType = "OAUTH2"
	SecurityJWT     SecurityType = "JWT"
	SecurityKeyLess SecurityType = "KEY_LESS"
)

func (s SecurityType) String() string {
	return string(s)
}

func (s SecurityType) IsValid() bool {
	switch s {
	case SecurityAPIKey, SecurityOAuth2, SecurityJWT, SecurityKeyLess:
		return true
	}
	return false
}

// RequiresClientID reports whether an application needs an OAuth client
// identifier to subscribe to a plan with this security type.
func (s SecurityType) RequiresClientID() bool {
	return s == SecurityOAuth2 || s == SecurityJWT
}

// Status is the lifecycle status of a plan.
type Status string

const (
	StatusStaging    Status = "STAGING"
	StatusPublished  Status = "PUBLISHED"
	StatusDeprecated Status = "DEPRECATED"
	StatusClosed     Status = "CLOSED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusStaging, StatusPublished, StatusDeprecated, StatusClosed:
		return true
	}
	return false
}

// ValidationMode decides whether a subscription request needs a human decision.
type ValidationMode string

const (
	ValidationAuto   ValidationMode = "AUTO"
	ValidationManual ValidationMode = "MANUAL"
)

func (v ValidationMode) String() string {
	return string(v)
}

func (v ValidationMode) IsValid() bool {
	return v == ValidationAuto || v == ValidationManual
}
