package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/scafi/integration-backend/internal/domain/relay"
	"github.com/scafi/integration-backend/internal/domain/shared"
)

// GormIntegrationLogRepository persists integration attempt records.
// When the database is offline the repository degrades to a logged no-op
// so relay traffic keeps flowing without persistence.
type GormIntegrationLogRepository struct {
	db      *gorm.DB
	offline bool
	logger  *zap.Logger
}

var _ relay.IntegrationLogRepository = (*GormIntegrationLogRepository)(nil)

func NewGormIntegrationLogRepository(db *gorm.DB, offline bool, logger *zap.Logger) *GormIntegrationLogRepository {
	return &GormIntegrationLogRepository{db: db, offline: offline, logger: logger}
}

// Append inserts one row per completed relay attempt.
func (r *GormIntegrationLogRepository) Append(ctx context.Context, entry *relay.IntegrationLogEntry) error {
	if r.offline || r.db == nil {
		r.logger.Info("database offline, skipping integration log insert",
			zap.String("object_id", entry.ObjectID),
			zap.String("object_type", entry.ObjectType))
		return nil
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to insert integration log: %w", err)
	}
	return nil
}

// AmendMessage replaces the message of previously logged rows that carry
// the given remote log id.
func (r *GormIntegrationLogRepository) AmendMessage(ctx context.Context, logID, message string) error {
	if r.offline || r.db == nil {
		r.logger.Info("database offline, skipping integration log update",
			zap.String("log_id", logID))
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&relay.IntegrationLogEntry{}).
		Where("log_id = ?", logID).
		Update("message", message)
	if result.Error != nil {
		return fmt.Errorf("failed to update integration log: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no integration log rows with log_id %s: %w", logID, shared.ErrNotFound)
	}
	return nil
}
