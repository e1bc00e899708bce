package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/planhub-io/planhub/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions
// This is the anti-corruption layer between domain and database
type SubscriptionModel struct {
	ID            uint    `gorm:"primarykey"`
	SID           string  `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	PlanID        string  `gorm:"not null;size:64;index:idx_app_plan,priority:2;index:idx_plan"`
	ApplicationID string  `gorm:"not null;size:64;index:idx_app_plan,priority:1"`
	APIID         string  `gorm:"not null;size:64;index:idx_api"`
	Status        string  `gorm:"not null;size:20;index:idx_status"`
	Request       string  `gorm:"size:500"`
	Reason        *string `gorm:"size:500"`
	SubscribedBy  string  `gorm:"not null;size:64"`
	ProcessedBy   *string `gorm:"size:64"`
	ClientID      *string `gorm:"size:128"`
	ProcessedAt   *time.Time
	StartingAt    *time.Time
	EndingAt      *time.Time
	ClosedAt      *time.Time
	Version       int       `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"index:idx_created_at"`
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
