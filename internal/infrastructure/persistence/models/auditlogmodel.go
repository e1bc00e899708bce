package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/planhub-io/planhub/internal/shared/constants"
)

// AuditLogModel represents the database persistence model for audit entries
type AuditLogModel struct {
	ID            uint   `gorm:"primarykey"`
	EntityType    string `gorm:"not null;size:30;index:idx_audit_entity,priority:1"`
	EntityID      string `gorm:"not null;size:64;index:idx_audit_entity,priority:2"`
	Event         string `gorm:"not null;size:40;index:idx_audit_event"`
	APIID         string `gorm:"size:64;index:idx_audit_api"`
	ApplicationID string `gorm:"size:64;index:idx_audit_application"`
	Before        datatypes.JSON
	After         datatypes.JSON
	CreatedAt     time.Time `gorm:"index:idx_audit_created_at"`
}

// TableName specifies the table name for GORM
func (AuditLogModel) TableName() string {
	return constants.TableAuditLogs
}
