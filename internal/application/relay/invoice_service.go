package relay

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/scafi/integration-backend/internal/domain/relay"
	"github.com/scafi/integration-backend/internal/infrastructure/config"
	"github.com/scafi/integration-backend/internal/infrastructure/jde"
)

// invoiceRejectedMessage is the fixed caller-facing text for a logical
// rejection. Details go to the integration log and the notification
// mail, never into the result.
const invoiceRejectedMessage = "JDE returned ERROR. See logs/email for details"

// errorLogResponseKey carries the diagnostic text in the error-log
// orchestration reply.
const errorLogResponseKey = "ErrorLog"

// InvoiceService relays invoices to JDE and handles the error-recovery
// workflow for logical rejections.
type InvoiceService struct {
	client      ERPClient
	credentials *jde.CredentialStore
	logs        relay.IntegrationLogRepository
	notifier    Notifier
	cfg         *config.JDEConfig
	logger      *zap.Logger
}

func NewInvoiceService(
	client ERPClient,
	credentials *jde.CredentialStore,
	logs relay.IntegrationLogRepository,
	notifier Notifier,
	cfg *config.JDEConfig,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		client:      client,
		credentials: credentials,
		logs:        logs,
		notifier:    notifier,
		cfg:         cfg,
		logger:      logger,
	}
}

// Submit relays one invoice. It always returns a ServiceResult, also on
// transport failure or panic. Exactly one audit row is appended per
// attempt that reached an HTTP outcome.
func (s *InvoiceService) Submit(ctx context.Context, inv *relay.Invoice) (result relay.ServiceResult) {
	defer recoverToResult(s.logger, &result)

	// A per-company transport credential takes precedence; without one
	// the global blob travels in the body instead. Never both.
	headers := map[string]string{}
	var payload any = inv
	if auth, ok := s.credentials.BasicAuthHeader(inv.DocumentCompany); ok {
		headers["Authorization"] = auth
	} else {
		body, err := toPayload(inv)
		if err != nil {
			s.logger.Error("invoice serialization failure",
				zap.String("document_number", inv.DocumentNumber),
				zap.Error(err))
			return relay.Fail(err.Error())
		}
		payload = s.credentials.AttachBody(body)
	}

	resp, err := s.client.Do(ctx, http.MethodPost, s.cfg.PathFatture, payload, headers)
	if err != nil {
		s.logger.Error("invoice submission transport failure",
			zap.String("document_number", inv.DocumentNumber),
			zap.Error(err))
		return relay.Fail(err.Error())
	}

	fields := jde.Normalize(resp.Body)
	entry := buildLogEntry(inv.DocumentNumber, relay.DocumentTypeInvoice,
		strconv.Itoa(inv.CustomID), inv.DocumentCompany, fields)

	if resp.StatusCode >= 400 {
		return s.rejectHTTP(ctx, inv, resp.StatusCode, fields, entry)
	}

	if entry.Status != erpStatusError {
		if entry.Message == "" {
			entry.Message = "OK"
		}
		s.appendLog(ctx, entry)
		s.logger.Info("invoice accepted by JDE",
			zap.String("document_number", inv.DocumentNumber),
			zap.String("log_id", entry.LogID))
		return relay.OK("OK")
	}

	return s.rejectLogical(ctx, inv, headers, fields, entry)
}

// rejectHTTP handles a status >= 400 reply. The attempt is logged and
// failure returned; no diagnostics are pursued.
func (s *InvoiceService) rejectHTTP(ctx context.Context, inv *relay.Invoice, status int, fields jde.NormalizedFields, entry *relay.IntegrationLogEntry) relay.ServiceResult {
	synthetic := fmt.Sprintf("JDE returned HTTP %d on invoice insert.", status)

	message := synthetic
	if erpMessage, ok := fields.Get(jde.FieldMessage); ok && erpMessage != "" {
		message = synthetic + " " + erpMessage
	}
	if entry.Message == "" {
		entry.Message = synthetic
	}
	s.appendLog(ctx, entry)

	s.logger.Warn("invoice rejected by JDE at HTTP level",
		zap.String("document_number", inv.DocumentNumber),
		zap.Int("status", status))
	return relay.Fail(message)
}

// rejectLogical handles an HTTP-successful reply whose status field is
// ERROR: log the attempt, fetch the detailed error log, amend the row,
// notify operators, and return the fixed failure result.
func (s *InvoiceService) rejectLogical(ctx context.Context, inv *relay.Invoice, headers map[string]string, fields jde.NormalizedFields, entry *relay.IntegrationLogEntry) relay.ServiceResult {
	if entry.Message == "" {
		entry.Message = invoiceRejectedMessage
	}
	s.appendLog(ctx, entry)

	logID, hasLogID := fields.Get(jde.FieldLogID)
	diagnostic := s.fetchErrorLog(ctx, logID, hasLogID, headers)

	if hasLogID {
		if err := s.logs.AmendMessage(ctx, logID, diagnostic); err != nil {
			s.logger.Error("failed to amend integration log",
				zap.String("log_id", logID),
				zap.Error(err))
		}
	}

	subject := fmt.Sprintf("JDE integration error on invoice %s", inv.DocumentNumber)
	body := fmt.Sprintf("Invoice %s (company %s, customer %s) was rejected by JDE.\n\n%s",
		inv.DocumentNumber, inv.DocumentCompany, inv.Customer, diagnostic)
	if err := s.notifier.Notify(subject, body); err != nil {
		s.logger.Error("failed to send rejection notification",
			zap.String("document_number", inv.DocumentNumber),
			zap.Error(err))
	}

	s.logger.Warn("invoice rejected by JDE",
		zap.String("document_number", inv.DocumentNumber),
		zap.String("log_id", entry.LogID))
	return relay.Fail(invoiceRejectedMessage)
}

// fetchErrorLog retrieves the detailed error text for a rejected
// submission from the error-log orchestration, reusing the transport
// headers of the original call. It never fails; a fetch problem yields
// synthetic text instead.
func (s *InvoiceService) fetchErrorLog(ctx context.Context, logID string, hasLogID bool, headers map[string]string) string {
	payload := map[string]any{}
	if hasLogID {
		payload["jdeLogId"] = logID
	}

	resp, err := s.client.Do(ctx, http.MethodPost, s.cfg.PathErrorLog, payload, headers)
	if err != nil {
		s.logger.Error("failed to fetch JDE error log",
			zap.String("log_id", logID),
			zap.Error(err))
		return fmt.Sprintf("failed to retrieve JDE error log: %v", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Sprintf("failed to retrieve JDE error log: HTTP %d", resp.StatusCode)
	}
	if text, ok := jde.StringValue(resp.Body[errorLogResponseKey]); ok && text != "" {
		return text
	}
	return "JDE error log response carried no detail"
}

// appendLog writes one audit row. Persistence failures are logged and
// swallowed so they never mask the ERP outcome.
func (s *InvoiceService) appendLog(ctx context.Context, entry *relay.IntegrationLogEntry) {
	if err := s.logs.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append integration log",
			zap.String("object_id", entry.ObjectID),
			zap.Error(err))
	}
}
