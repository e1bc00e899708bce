// Package sink implements the audit trail and hook notification outlets of
// the entitlement engine.
package sink

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/planhub-io/planhub/internal/application/subscription/usecases"
	"github.com/planhub-io/planhub/internal/infrastructure/persistence/models"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

// DatabaseAuditSink persists audit entries as rows. Failures are logged and
// swallowed; the audit trail never breaks a state transition.
type DatabaseAuditSink struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewDatabaseAuditSink(db *gorm.DB, logger logger.Interface) usecases.AuditSink {
	return &DatabaseAuditSink{
		db:     db,
		logger: logger,
	}
}

func (s *DatabaseAuditSink) Audit(ctx context.Context, entry usecases.AuditEntry) {
	model := &models.AuditLogModel{
		EntityType:    entry.EntityType,
		EntityID:      entry.EntityID,
		Event:         string(entry.Event),
		APIID:         entry.APIID,
		ApplicationID: entry.ApplicationID,
	}

	if entry.Before != nil {
		data, err := json.Marshal(entry.Before)
		if err != nil {
			s.logger.Warnw("failed to marshal audit before state", "error", err, "entity_id", entry.EntityID)
		} else {
			model.Before = data
		}
	}
	if entry.After != nil {
		data, err := json.Marshal(entry.After)
		if err != nil {
			s.logger.Warnw("failed to marshal audit after state", "error", err, "entity_id", entry.EntityID)
		} else {
			model.After = data
		}
	}

	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		s.logger.Errorw("failed to write audit entry",
			"error", err,
			"event", entry.Event,
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID)
	}
}
