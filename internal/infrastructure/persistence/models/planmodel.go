package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/planhub-io/planhub/internal/shared/constants"
)

// PlanModel represents the database persistence model for plans
type PlanModel struct {
	ID         uint   `gorm:"primarykey"`
	PlanID     string `gorm:"uniqueIndex;not null;size:64"`
	Name       string `gorm:"not null;size:100"`
	APIID      string `gorm:"not null;size:64;index:idx_plan_api"`
	Security   string `gorm:"not null;size:20"`
	Status     string `gorm:"not null;size:20"`
	Validation string `gorm:"not null;size:20;default:MANUAL"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (PlanModel) TableName() string {
	return constants.TablePlans
}
