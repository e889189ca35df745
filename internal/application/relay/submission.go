package relay

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/scafi/integration-backend/internal/domain/relay"
	"github.com/scafi/integration-backend/internal/infrastructure/jde"
)

// ERPClient is the outbound transport used by the submission workflows.
type ERPClient interface {
	// Do performs one JSON exchange against the ERP, retrying only
	// connection-level failures.
	Do(ctx context.Context, method, path string, payload any, headers map[string]string) (*jde.Response, error)
	// Ping reports ERP reachability for readiness probes.
	Ping(ctx context.Context) bool
}

// Notifier delivers operator alerts. Failures are logged, never raised
// past the workflow.
type Notifier interface {
	Notify(subject, body string) error
}

// erpStatusError is the literal status value JDE uses to report a
// business-rule failure on an otherwise successful HTTP reply.
const erpStatusError = "ERROR"

// recoverToResult converts a workflow panic into a failed ServiceResult.
// The workflows never propagate a fault to their caller.
func recoverToResult(logger *zap.Logger, result *relay.ServiceResult) {
	if r := recover(); r != nil {
		logger.Error("submission workflow panicked", zap.Any("panic", r))
		*result = relay.Fail(fmt.Sprint(r))
	}
}

// buildLogEntry maps a normalized ERP reply onto one audit row. The
// log_id sentinel "0" is recorded when JDE supplied no identifier, so
// the later amendment step always has a stable key.
func buildLogEntry(objectID string, docType relay.DocumentType, code, company string, fields jde.NormalizedFields) *relay.IntegrationLogEntry {
	return &relay.IntegrationLogEntry{
		ObjectID:               objectID,
		ObjectType:             string(docType),
		Message:                fields.GetOr(jde.FieldMessage, ""),
		JDEStatus:              fields.GetOr(jde.FieldJDEStatus, ""),
		StartTS:                fields.GetOr(jde.FieldStartTimestamp, ""),
		EndTS:                  fields.GetOr(jde.FieldEndTimestamp, ""),
		Status:                 fields.GetOr(jde.FieldStatus, ""),
		BatchNo:                fields.GetOr(jde.FieldBatchNo, ""),
		ServerExecutionSeconds: fields.GetOr(jde.FieldServerExecutionSeconds, ""),
		LogID:                  fields.GetOr(jde.FieldLogID, relay.DefaultLogID),
		IntegrationType:        docType,
		Code:                   code,
		Company:                company,
	}
}
