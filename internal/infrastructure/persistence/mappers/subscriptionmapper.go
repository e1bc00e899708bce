package mappers

import (
	"fmt"

	"github.com/planhub-io/planhub/internal/domain/subscription"
	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
	"github.com/planhub-io/planhub/internal/infrastructure/persistence/models"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.SubscriptionStatus(model.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}

	entity, err := subscription.ReconstructSubscription(subscription.ReconstructParams{
		ID:            model.SID,
		PlanID:        model.PlanID,
		ApplicationID: model.ApplicationID,
		APIID:         model.APIID,
		Status:        status,
		Request:       model.Request,
		Reason:        model.Reason,
		SubscribedBy:  model.SubscribedBy,
		ProcessedBy:   model.ProcessedBy,
		ClientID:      model.ClientID,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
		ProcessedAt:   model.ProcessedAt,
		StartingAt:    model.StartingAt,
		EndingAt:      model.EndingAt,
		ClosedAt:      model.ClosedAt,
		Version:       model.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.SubscriptionModel{
		SID:           entity.ID(),
		PlanID:        entity.PlanID(),
		ApplicationID: entity.ApplicationID(),
		APIID:         entity.APIID(),
		Status:        entity.Status().String(),
		Request:       entity.Request(),
		Reason:        entity.Reason(),
		SubscribedBy:  entity.SubscribedBy(),
		ProcessedBy:   entity.ProcessedBy(),
		ClientID:      entity.ClientID(),
		ProcessedAt:   entity.ProcessedAt(),
		StartingAt:    entity.StartingAt(),
		EndingAt:      entity.EndingAt(),
		ClosedAt:      entity.ClosedAt(),
		Version:       entity.Version(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(subscriptionModels []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	entities := make([]*subscription.Subscription, 0, len(subscriptionModels))
	for _, model := range subscriptionModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}
