package plan

import "fmt"

// Plan is the read model of an access plan as seen by the entitlement engine.
// Plans are owned by the plan management surface; this core never mutates them.
type Plan struct {
	id         string
	name       string
	apiID      string
	security   SecurityType
	status     Status
	validation ValidationMode
}

// ReconstructPlan rebuilds a plan read model from the directory backing store.
func ReconstructPlan(id, name, apiID string, security SecurityType, status Status, validation ValidationMode) (*Plan, error) {
	if id == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if apiID == "" {
		return nil, fmt.Errorf("plan API ID is required")
	}
	if !security.IsValid() {
		return nil, fmt.Errorf("invalid plan security type: %s", security)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid plan status: %s", status)
	}
	if !validation.IsValid() {
		return nil, fmt.Errorf("invalid plan validation mode: %s", validation)
	}

	return &Plan{
		id:         id,
		name:       name,
		apiID:      apiID,
		security:   security,
		status:     status,
		validation: validation,
	}, nil
}

func (p *Plan) ID() string {
	return p.id
}

func (p *Plan) Name() string {
	return p.name
}

// APIID returns the owning API of this plan.
func (p *Plan) APIID() string {
	return p.apiID
}

func (p *Plan) Security() SecurityType {
	return p.security
}

func (p *Plan) Status() Status {
	return p.status
}

func (p *Plan) Validation() ValidationMode {
	return p.validation
}

// IsAutoValidated reports whether subscription requests are accepted without
// a human decision.
func (p *Plan) IsAutoValidated() bool {
	return p.validation == ValidationAuto
}
