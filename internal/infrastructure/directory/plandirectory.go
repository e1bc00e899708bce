// Package directory backs the read-only plan and application lookups with
// the catalog tables.
package directory

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/planhub-io/planhub/internal/domain/plan"
	"github.com/planhub-io/planhub/internal/infrastructure/persistence/models"
	"github.com/planhub-io/planhub/internal/shared/db"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

type PlanDirectoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPlanDirectory(db *gorm.DB, logger logger.Interface) plan.Directory {
	return &PlanDirectoryImpl{
		db:     db,
		logger: logger,
	}
}

func (d *PlanDirectoryImpl) GetByID(ctx context.Context, id string) (*plan.Plan, error) {
	var model models.PlanModel

	if err := db.GetTxFromContext(ctx, d.db).WithContext(ctx).Where("plan_id = ?", id).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		d.logger.Errorw("failed to get plan", "plan_id", id, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	entity, err := plan.ReconstructPlan(
		model.PlanID,
		model.Name,
		model.APIID,
		plan.SecurityType(model.Security),
		plan.Status(model.Status),
		plan.ValidationMode(model.Validation),
	)
	if err != nil {
		d.logger.Errorw("failed to reconstruct plan", "plan_id", id, "error", err)
		return nil, fmt.Errorf("failed to reconstruct plan: %w", err)
	}

	return entity, nil
}
