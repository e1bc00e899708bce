package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/planhub-io/planhub/internal/shared/constants"
)

// ApiKeyModel represents the database persistence model for api keys
type ApiKeyModel struct {
	ID             uint   `gorm:"primarykey"`
	Key            string `gorm:"uniqueIndex;not null;size:64"`
	SubscriptionID string `gorm:"not null;size:50;index:idx_key_subscription"`
	Expiration     *time.Time
	Revoked        bool `gorm:"not null;default:false"`
	RevokedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (ApiKeyModel) TableName() string {
	return constants.TableApiKeys
}
