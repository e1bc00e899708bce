package mappers

import (
	"fmt"

	"github.com/planhub-io/planhub/internal/domain/subscription"
	"github.com/planhub-io/planhub/internal/infrastructure/persistence/models"
)

type ApiKeyMapper interface {
	ToEntity(model *models.ApiKeyModel) (*subscription.ApiKey, error)
	ToModel(entity *subscription.ApiKey) (*models.ApiKeyModel, error)
	ToEntities(models []*models.ApiKeyModel) ([]*subscription.ApiKey, error)
}

type ApiKeyMapperImpl struct{}

func NewApiKeyMapper() ApiKeyMapper {
	return &ApiKeyMapperImpl{}
}

func (m *ApiKeyMapperImpl) ToEntity(model *models.ApiKeyModel) (*subscription.ApiKey, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := subscription.ReconstructApiKey(
		model.Key,
		model.SubscriptionID,
		model.CreatedAt,
		model.UpdatedAt,
		model.Expiration,
		model.Revoked,
		model.RevokedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct api key entity: %w", err)
	}

	return entity, nil
}

func (m *ApiKeyMapperImpl) ToModel(entity *subscription.ApiKey) (*models.ApiKeyModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.ApiKeyModel{
		Key:            entity.Key(),
		SubscriptionID: entity.SubscriptionID(),
		Expiration:     entity.Expiration(),
		Revoked:        entity.Revoked(),
		RevokedAt:      entity.RevokedAt(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}, nil
}

func (m *ApiKeyMapperImpl) ToEntities(keyModels []*models.ApiKeyModel) ([]*subscription.ApiKey, error) {
	entities := make([]*subscription.ApiKey, 0, len(keyModels))
	for _, model := range keyModels {
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
