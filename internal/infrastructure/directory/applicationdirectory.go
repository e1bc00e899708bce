package directory

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/planhub-io/planhub/internal/domain/application"
	"github.com/planhub-io/planhub/internal/infrastructure/persistence/models"
	"github.com/planhub-io/planhub/internal/shared/db"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

type ApplicationDirectoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewApplicationDirectory(db *gorm.DB, logger logger.Interface) application.Directory {
	return &ApplicationDirectoryImpl{
		db:     db,
		logger: logger,
	}
}

func (d *ApplicationDirectoryImpl) GetByID(ctx context.Context, id string) (*application.Application, error) {
	var model models.ApplicationModel

	if err := db.GetTxFromContext(ctx, d.db).WithContext(ctx).Where("application_id = ?", id).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		d.logger.Errorw("failed to get application", "application_id", id, "error", err)
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	entity, err := application.ReconstructApplication(model.ApplicationID, model.Name, model.ClientID)
	if err != nil {
		d.logger.Errorw("failed to reconstruct application", "application_id", id, "error", err)
		return nil, fmt.Errorf("failed to reconstruct application: %w", err)
	}

	return entity, nil
}
