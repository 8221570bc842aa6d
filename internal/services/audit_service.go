package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"cafebudget/internal/logger"
	"cafebudget/internal/models"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged and swallowed so a failed
// audit write never undoes a committed budget change.
func (s *auditService) Log(ctx context.Context, entry AuditEntry) {
	var changesJSON string
	if entry.Changes != nil {
		data, err := json.Marshal(entry.Changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", entry.Action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	actor := entry.Actor
	if actor == "" {
		actor = "anonymous"
	}

	row := &models.AuditLog{
		Actor:        actor,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Month:        entry.Month,
		IPAddress:    entry.IPAddress,
		Changes:      changesJSON,
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"actor", actor,
			"action", entry.Action,
			"resource_type", entry.ResourceType,
			"resource_id", entry.ResourceID,
		)
	}
}
