package dto

import (
	"time"

	"github.com/planhub-io/planhub/internal/domain/subscription"
)

type SubscriptionDTO struct {
	ID            string       `json:"id"`
	PlanID        string       `json:"plan_id"`
	ApplicationID string       `json:"application_id"`
	APIID         string       `json:"api_id"`
	ClientID      *string      `json:"client_id,omitempty"`
	Status        string       `json:"status"`
	Request       string       `json:"request,omitempty"`
	Reason        *string      `json:"reason,omitempty"`
	SubscribedBy  string       `json:"subscribed_by"`
	ProcessedBy   *string      `json:"processed_by,omitempty"`
	ProcessedAt   *time.Time   `json:"processed_at,omitempty"`
	StartingAt    *time.Time   `json:"starting_at,omitempty"`
	EndingAt      *time.Time   `json:"ending_at,omitempty"`
	ClosedAt      *time.Time   `json:"closed_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	ApiKeys       []*ApiKeyDTO `json:"api_keys,omitempty"`
}

type ApiKeyDTO struct {
	Key            string     `json:"key"`
	SubscriptionID string     `json:"subscription_id"`
	Expiration     *time.Time `json:"expiration,omitempty"`
	Revoked        bool       `json:"revoked"`
	RevokedAt      *time.Time `json:"revoked_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToSubscriptionDTO converts a subscription aggregate to its transport shape.
func ToSubscriptionDTO(sub *subscription.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:            sub.ID(),
		PlanID:        sub.PlanID(),
		ApplicationID: sub.ApplicationID(),
		APIID:         sub.APIID(),
		ClientID:      sub.ClientID(),
		Status:        sub.Status().String(),
		Request:       sub.Request(),
		Reason:        sub.Reason(),
		SubscribedBy:  sub.SubscribedBy(),
		ProcessedBy:   sub.ProcessedBy(),
		ProcessedAt:   sub.ProcessedAt(),
		StartingAt:    sub.StartingAt(),
		EndingAt:      sub.EndingAt(),
		ClosedAt:      sub.ClosedAt(),
		CreatedAt:     sub.CreatedAt(),
		UpdatedAt:     sub.UpdatedAt(),
	}
}

// ToSubscriptionDTOList converts a slice of aggregates, never returning nil.
func ToSubscriptionDTOList(subs []*subscription.Subscription) []*SubscriptionDTO {
	dtos := make([]*SubscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		if sub != nil {
			dtos = append(dtos, ToSubscriptionDTO(sub))
		}
	}
	return dtos
}

// ToApiKeyDTO converts an api key entity to its transport shape.
func ToApiKeyDTO(key *subscription.ApiKey) *ApiKeyDTO {
	if key == nil {
		return nil
	}
	return &ApiKeyDTO{
		Key:            key.Key(),
		SubscriptionID: key.SubscriptionID(),
		Expiration:     key.Expiration(),
		Revoked:        key.Revoked(),
		RevokedAt:      key.RevokedAt(),
		CreatedAt:      key.CreatedAt(),
		UpdatedAt:      key.UpdatedAt(),
	}
}

// ToApiKeyDTOList converts a slice of api keys, never returning nil.
func ToApiKeyDTOList(keys []*subscription.ApiKey) []*ApiKeyDTO {
	dtos := make([]*ApiKeyDTO, 0, len(keys))
	for _, key := range keys {
		if key != nil {
			dtos = append(dtos, ToApiKeyDTO(key))
		}
	}
	return dtos
}
