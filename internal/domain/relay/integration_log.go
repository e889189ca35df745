package relay

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultLogID is recorded when JDE did not return a log identifier. The
// later amendment step keys on log_id, so the sentinel must stay stable.
const DefaultLogID = "0"

// IntegrationLogEntry is one audit row per outbound submission attempt.
// Rows are append-only; only the message text may be amended afterwards,
// keyed by LogID, once a deferred error-detail fetch completes.
type IntegrationLogEntry struct {
	ID                     uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ObjectID               string       `gorm:"column:object_id" json:"object_id"`
	ObjectType             string       `gorm:"column:object_type" json:"object_type"`
	Message                string       `gorm:"column:message" json:"message"`
	JDEStatus              string       `gorm:"column:jde_status" json:"jde_status"`
	StartTS                string       `gorm:"column:start_ts" json:"start_ts"`
	EndTS                  string       `gorm:"column:end_ts" json:"end_ts"`
	Status                 string       `gorm:"column:status" json:"status"`
	BatchNo                string       `gorm:"column:batch_no" json:"batch_no"`
	ServerExecutionSeconds string       `gorm:"column:server_execution_seconds" json:"server_execution_seconds"`
	LogID                  string       `gorm:"column:log_id" json:"log_id"`
	IntegrationType        DocumentType `gorm:"column:integration_type" json:"integration_type"`
	Code                   string       `gorm:"column:code" json:"code"`
	Company                string       `gorm:"column:company" json:"company"`
	CreatedAt              time.Time    `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the database table name
func (IntegrationLogEntry) TableName() string {
	return "integration_log"
}

// IntegrationLogRepository persists the audit trail of outbound submissions.
type IntegrationLogRepository interface {
	// Append inserts one audit row. Exactly one call is made per submission
	// attempt that reached an HTTP outcome.
	Append(ctx context.Context, entry *IntegrationLogEntry) error
	// AmendMessage replaces the message of the row(s) matching logID. It
	// never inserts; callers skip it entirely when no log_id was recovered.
	AmendMessage(ctx context.Context, logID, message string) error
}
