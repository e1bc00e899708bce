package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/planhub-io/planhub/internal/shared/constants"
)

// ApplicationModel represents the database persistence model for applications
type ApplicationModel struct {
	ID            uint   `gorm:"primarykey"`
	ApplicationID string `gorm:"uniqueIndex;not null;size:64"`
	Name          string `gorm:"not null;size:100"`
	ClientID      string `gorm:"size:128"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (ApplicationModel) TableName() string {
	return constants.TableApplications
}
