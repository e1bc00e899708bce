package migration

import (
	"github.com/planhub-io/planhub/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.SubscriptionModel{},
		&models.ApiKeyModel{},
		&models.PlanModel{},
		&models.ApplicationModel{},
		&models.AuditLogModel{},
	}
}
