package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/planhub-io/planhub/internal/domain/subscription"
	"github.com/planhub-io/planhub/internal/infrastructure/persistence/mappers"
	"github.com/planhub-io/planhub/internal/infrastructure/persistence/models"
	"github.com/planhub-io/planhub/internal/shared/db"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

type ApiKeyRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ApiKeyMapper
	logger logger.Interface
}

func NewApiKeyRepository(
	db *gorm.DB,
	logger logger.Interface,
) subscription.ApiKeyRepository {
	return &ApiKeyRepositoryImpl{
		db:     db,
		mapper: mappers.NewApiKeyMapper(),
		logger: logger,
	}
}

func (r *ApiKeyRepositoryImpl) Create(ctx context.Context, keyEntity *subscription.ApiKey) error {
	model, err := r.mapper.ToModel(keyEntity)
	if err != nil {
		r.logger.Errorw("failed to map api key entity to model", "error", err)
		return fmt.Errorf("failed to map api key entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create api key in database", "error", err)
		return fmt.Errorf("failed to create api key: %w", err)
	}

	r.logger.Infow("api key created", "subscription_id", model.SubscriptionID)
	return nil
}

func (r *ApiKeyRepositoryImpl) FindBySubscription(ctx context.Context, subID string) ([]*subscription.ApiKey, error) {
	var keyModels []*models.ApiKeyModel

	if err := db.GetTxFromContext(ctx, r.db).WithContext(ctx).
		Where("subscription_id = ?", subID).
		Order("created_at ASC").
		Find(&keyModels).Error; err != nil {
		r.logger.Errorw("failed to find api keys", "subscription_id", subID, "error", err)
		return nil, fmt.Errorf("failed to find api keys: %w", err)
	}

	entities, err := r.mapper.ToEntities(keyModels)
	if err != nil {
		r.logger.Errorw("failed to map api key models to entities", "subscription_id", subID, "error", err)
		return nil, fmt.Errorf("failed to map api keys: %w", err)
	}

	return entities, nil
}

func (r *ApiKeyRepositoryImpl) Update(ctx context.Context, keyEntity *subscription.ApiKey) error {
	model, err := r.mapper.ToModel(keyEntity)
	if err != nil {
		return fmt.Errorf("failed to map api key entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.ApiKeyModel{}).
		Where("`key` = ?", model.Key).
		Updates(map[string]interface{}{
			"expiration": model.Expiration,
			"revoked":    model.Revoked,
			"revoked_at": model.RevokedAt,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update api key", "error", result.Error)
		return fmt.Errorf("failed to update api key: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("api key not found")
	}

	return nil
}

func (r *ApiKeyRepositoryImpl) Delete(ctx context.Context, key string) error {
	result := db.GetTxFromContext(ctx, r.db).WithContext(ctx).
		Where("`key` = ?", key).
		Delete(&models.ApiKeyModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete api key", "error", result.Error)
		return fmt.Errorf("failed to delete api key: %w", result.Error)
	}

	return nil
}
