package subscription

import (
	"fmt"
	"time"

	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
	"github.com/planhub-io/planhub/internal/shared/id"
)

// Subscription is the aggregate root binding one application to one plan.
// It owns the accept/reject/close lifecycle; all transitions go through the
// methods below so that illegal moves are rejected at the aggregate.
type Subscription struct {
	subID         string
	planID        string
	applicationID string
	apiID         string
	status        vo.SubscriptionStatus
	request       string
	reason        *string
	subscribedBy  string
	processedBy   *string
	clientID      *string
	createdAt     time.Time
	updatedAt     time.Time
	processedAt   *time.Time
	startingAt    *time.Time
	endingAt      *time.Time
	closedAt      *time.Time
	version       int
}

// NewSubscription creates a subscription request in PENDING state.
// apiID is the plan's owning API, copied at creation time; clientID is the
// application's OAuth client identifier, empty when none.
func NewSubscription(planID, applicationID, apiID, request string, subscribedBy Actor, clientID string) (*Subscription, error) {
	if planID == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if applicationID == "" {
		return nil, fmt.Errorf("application ID is required")
	}
	if apiID == "" {
		return nil, fmt.Errorf("API ID is required")
	}
	if subscribedBy.IsSystem() {
		return nil, fmt.Errorf("subscription requests must come from a user")
	}

	subID, err := id.GenerateWithPrefix(id.PrefixSubscription, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscription ID: %w", err)
	}

	now := time.Now().UTC()
	s := &Subscription{
		subID:         subID,
		planID:        planID,
		applicationID: applicationID,
		apiID:         apiID,
		status:        vo.StatusPending,
		request:       request,
		subscribedBy:  subscribedBy.String(),
		createdAt:     now,
		updatedAt:     now,
		version:       1,
	}
	if clientID != "" {
		s.clientID = &clientID
	}

	return s, nil
}

// ReconstructParams carries every persisted field of a subscription.
type ReconstructParams struct {
	ID            string
	PlanID        string
	ApplicationID string
	APIID         string
	Status        vo.SubscriptionStatus
	Request       string
	Reason        *string
	SubscribedBy  string
	ProcessedBy   *string
	ClientID      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ProcessedAt   *time.Time
	StartingAt    *time.Time
	EndingAt      *time.Time
	ClosedAt      *time.Time
	Version       int
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(p ReconstructParams) (*Subscription, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("subscription ID cannot be empty")
	}
	if p.PlanID == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if p.ApplicationID == "" {
		return nil, fmt.Errorf("application ID is required")
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	if p.Version < 1 {
		p.Version = 1
	}

	return &Subscription{
		subID:         p.ID,
		planID:        p.PlanID,
		applicationID: p.ApplicationID,
		apiID:         p.APIID,
		status:        p.Status,
		request:       p.Request,
		reason:        p.Reason,
		subscribedBy:  p.SubscribedBy,
		processedBy:   p.ProcessedBy,
		clientID:      p.ClientID,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
		processedAt:   p.ProcessedAt,
		startingAt:    p.StartingAt,
		endingAt:      p.EndingAt,
		closedAt:      p.ClosedAt,
		version:       p.Version,
	}, nil
}

func (s *Subscription) ID() string {
	return s.subID
}

func (s *Subscription) PlanID() string {
	return s.planID
}

func (s *Subscription) ApplicationID() string {
	return s.applicationID
}

// APIID returns the owning API copied from the plan at creation time.
func (s *Subscription) APIID() string {
	return s.apiID
}

func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

// Request returns the subscriber's justification text.
func (s *Subscription) Request() string {
	return s.request
}

// Reason returns the processing or close note.
func (s *Subscription) Reason() *string {
	return s.reason
}

func (s *Subscription) SubscribedBy() string {
	return s.subscribedBy
}

func (s *Subscription) ProcessedBy() *string {
	return s.processedBy
}

func (s *Subscription) ClientID() *string {
	return s.clientID
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Subscription) ProcessedAt() *time.Time {
	return s.processedAt
}

func (s *Subscription) StartingAt() *time.Time {
	return s.startingAt
}

func (s *Subscription) EndingAt() *time.Time {
	return s.endingAt
}

func (s *Subscription) ClosedAt() *time.Time {
	return s.closedAt
}

// Version returns the aggregate version for optimistic locking.
func (s *Subscription) Version() int {
	return s.version
}

// Accept moves a pending subscription to ACCEPTED. startingAt defaults to now
// when nil; endingAt and reason are optional.
func (s *Subscription) Accept(processedBy Actor, startingAt, endingAt *time.Time, reason *string) error {
	if !s.status.CanTransitionTo(vo.StatusAccepted) {
		return ErrInvalidTransition(s.status.String(), vo.StatusAccepted.String())
	}
	if startingAt != nil && endingAt != nil && endingAt.Before(*startingAt) {
		return fmt.Errorf("ending date must be after starting date")
	}

	now := time.Now().UTC()
	start := now
	if startingAt != nil {
		start = *startingAt
	}

	processor := processedBy.String()
	s.status = vo.StatusAccepted
	s.processedBy = &processor
	s.processedAt = &now
	s.startingAt = &start
	s.endingAt = endingAt
	s.reason = reason
	s.updatedAt = now
	s.version++

	return nil
}

// Reject moves a pending subscription to the terminal REJECTED state.
func (s *Subscription) Reject(processedBy Actor, reason *string) error {
	if !s.status.CanTransitionTo(vo.StatusRejected) {
		return ErrInvalidTransition(s.status.String(), vo.StatusRejected.String())
	}

	now := time.Now().UTC()
	processor := processedBy.String()
	s.status = vo.StatusRejected
	s.processedBy = &processor
	s.processedAt = &now
	s.reason = reason
	s.closedAt = &now
	s.updatedAt = now
	s.version++

	return nil
}

// Close moves an accepted subscription to the terminal CLOSED state.
func (s *Subscription) Close() error {
	if !s.status.CanTransitionTo(vo.StatusClosed) {
		return ErrInvalidTransition(s.status.String(), vo.StatusClosed.String())
	}

	now := time.Now().UTC()
	s.status = vo.StatusClosed
	s.closedAt = &now
	s.updatedAt = now
	s.version++

	return nil
}

// UpdateTerms adjusts the temporal bounds and client identifier of an
// ACCEPTED subscription. Any other status is an invalid transition.
func (s *Subscription) UpdateTerms(startingAt, endingAt *time.Time, clientID *string) error {
	if s.status != vo.StatusAccepted {
		return ErrInvalidTransition(s.status.String(), s.status.String())
	}
	// Bounds are checked against the stored values when the caller
	// supplies only one side.
	effectiveStart := s.startingAt
	if startingAt != nil {
		effectiveStart = startingAt
	}
	effectiveEnd := s.endingAt
	if endingAt != nil {
		effectiveEnd = endingAt
	}
	if effectiveStart != nil && effectiveEnd != nil && effectiveEnd.Before(*effectiveStart) {
		return fmt.Errorf("ending date must be after starting date")
	}

	if startingAt != nil {
		s.startingAt = startingAt
	}
	if endingAt != nil {
		s.endingAt = endingAt
	}
	if clientID != nil {
		s.clientID = clientID
	}
	s.updatedAt = time.Now().UTC()
	s.version++

	return nil
}

// IsLive reports whether the subscription holds a live entitlement slot.
func (s *Subscription) IsLive() bool {
	return s.status.IsLive()
}
