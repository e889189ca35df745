package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/scafi/integration-backend/internal/domain/relay"
	"github.com/scafi/integration-backend/internal/infrastructure/config"
	"github.com/scafi/integration-backend/internal/infrastructure/jde"
)

// PartyService relays counterparty master data to JDE. The flow is the
// short form of the invoice workflow: credentials travel in the payload
// body rather than a header, and a logical ERROR status on a successful
// HTTP reply is still treated as acceptance.
type PartyService struct {
	client      ERPClient
	credentials *jde.CredentialStore
	logs        relay.IntegrationLogRepository
	cfg         *config.JDEConfig
	logger      *zap.Logger
}

func NewPartyService(
	client ERPClient,
	credentials *jde.CredentialStore,
	logs relay.IntegrationLogRepository,
	cfg *config.JDEConfig,
	logger *zap.Logger,
) *PartyService {
	return &PartyService{
		client:      client,
		credentials: credentials,
		logs:        logs,
		cfg:         cfg,
		logger:      logger,
	}
}

// Submit relays one party record. It always returns a ServiceResult and
// appends exactly one audit row per attempt that reached an HTTP outcome.
func (s *PartyService) Submit(ctx context.Context, rec *relay.PartyRecord) (result relay.ServiceResult) {
	defer recoverToResult(s.logger, &result)

	payload, err := toPayload(rec)
	if err != nil {
		return relay.Fail(err.Error())
	}
	payload = s.credentials.AttachBody(payload)

	resp, err := s.client.Do(ctx, http.MethodPost, s.cfg.PathAnagrafiche, payload, nil)
	if err != nil {
		s.logger.Error("party submission transport failure",
			zap.String("codice", rec.Codice),
			zap.Error(err))
		return relay.Fail(err.Error())
	}

	fields := jde.Normalize(resp.Body)
	entry := buildLogEntry(rec.Codice, relay.DocumentTypeParty,
		rec.ZucchettiNumber, "", fields)

	if resp.StatusCode >= 400 {
		synthetic := fmt.Sprintf("JDE returned HTTP %d on party insert.", resp.StatusCode)
		message := synthetic
		if erpMessage, ok := fields.Get(jde.FieldMessage); ok && erpMessage != "" {
			message = synthetic + " " + erpMessage
		}
		if entry.Message == "" {
			entry.Message = synthetic
		}
		s.appendPartyLog(ctx, entry)
		s.logger.Warn("party record rejected by JDE",
			zap.String("codice", rec.Codice),
			zap.Int("status", resp.StatusCode))
		return relay.Fail(message)
	}

	if entry.Message == "" {
		entry.Message = "OK"
	}
	s.appendPartyLog(ctx, entry)
	s.logger.Info("party record accepted by JDE",
		zap.String("codice", rec.Codice),
		zap.String("jde_status", entry.JDEStatus))
	return relay.OK("OK")
}

func (s *PartyService) appendPartyLog(ctx context.Context, entry *relay.IntegrationLogEntry) {
	if err := s.logs.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append integration log",
			zap.String("object_id", entry.ObjectID),
			zap.Error(err))
	}
}

// toPayload flattens a document into a JSON object so body-level
// credentials can be attached alongside the business fields.
func toPayload(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}
	return payload, nil
}
