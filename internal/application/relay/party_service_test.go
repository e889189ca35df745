package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scafi/integration-backend/internal/domain/relay"
	"github.com/scafi/integration-backend/internal/infrastructure/config"
	"github.com/scafi/integration-backend/internal/infrastructure/jde"
)

func newPartyService(t *testing.T, baseURL, credentials string, logs relay.IntegrationLogRepository) *PartyService {
	t.Helper()
	cfg := &config.JDEConfig{
		PathAnagrafiche: "/api/anagrafiche",
		PathFatture:     "/api/fatture",
		PathErrorLog:    "/jderest/orchestrator/ALFA_ORC_RetriveErrorLog",
	}
	creds := jde.NewCredentialStore(credentials, zap.NewNop())
	return NewPartyService(newTestERPClient(t, baseURL), creds, logs, cfg, zap.NewNop())
}

func testPartyRecord() *relay.PartyRecord {
	return &relay.PartyRecord{
		Codice:          "C0042",
		Tipo:            "C",
		TipoSoggetto:    "PG",
		Anagrafica:      "ACME SPA",
		PartitaIVA:      "01234567890",
		ZucchettiNumber: "Z-42",
	}
}

func TestPartyService_Submit_Accepted(t *testing.T) {
	var requests []recordedRequest
	server := httptest.NewServer(recordRequests(&requests, func(_ string, w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","jdeLogId":"7"}`))
	}))
	defer server.Close()

	logs := new(mockLogRepository)
	logs.On("Append", mock.Anything, mock.MatchedBy(func(e *relay.IntegrationLogEntry) bool {
		return e.ObjectID == "C0042" && e.LogID == "7" &&
			e.IntegrationType == relay.DocumentTypeParty && e.Code == "Z-42"
	})).Return(nil).Once()

	svc := newPartyService(t, server.URL, testInvoiceCredentials, logs)
	result := svc.Submit(context.Background(), testPartyRecord())

	assert.Equal(t, relay.SuccessYes, result.Success)
	assert.Equal(t, "OK", result.Message)

	require.Len(t, requests, 1)
	assert.Equal(t, "/api/anagrafiche", requests[0].Path)
	// credentials travel in the body, not the Authorization header
	assert.Empty(t, requests[0].Auth)
	assert.Contains(t, requests[0].Body, "credentials")
	assert.Equal(t, "C0042", requests[0].Body["codice"])

	logs.AssertExpectations(t)
}

func TestPartyService_Submit_LogicalErrorIsStillSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ERROR","message":"duplicate party"}`))
	}))
	defer server.Close()

	logs := new(mockLogRepository)
	logs.On("Append", mock.Anything, mock.MatchedBy(func(e *relay.IntegrationLogEntry) bool {
		return e.Status == "ERROR" && e.Message == "duplicate party"
	})).Return(nil).Once()

	svc := newPartyService(t, server.URL, "", logs)
	result := svc.Submit(context.Background(), testPartyRecord())

	assert.Equal(t, relay.SuccessYes, result.Success)
	logs.AssertExpectations(t)
}

func TestPartyService_Submit_HTTPRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"missing required field"}`))
	}))
	defer server.Close()

	logs := new(mockLogRepository)
	logs.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

	svc := newPartyService(t, server.URL, "", logs)
	result := svc.Submit(context.Background(), testPartyRecord())

	assert.Equal(t, relay.SuccessNo, result.Success)
	assert.Contains(t, result.Message, "JDE returned HTTP 400 on party insert.")
	assert.Contains(t, result.Message, "missing required field")
	logs.AssertExpectations(t)
}

func TestPartyService_Submit_NoCredentialBlobConfigured(t *testing.T) {
	var requests []recordedRequest
	server := httptest.NewServer(recordRequests(&requests, func(_ string, w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	logs := new(mockLogRepository)
	logs.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

	svc := newPartyService(t, server.URL, "", logs)
	result := svc.Submit(context.Background(), testPartyRecord())

	assert.Equal(t, relay.SuccessYes, result.Success)
	require.Len(t, requests, 1)
	assert.NotContains(t, requests[0].Body, "credentials")
}

func TestPartyService_Submit_AppendFailureDoesNotMaskOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	logs := new(mockLogRepository)
	logs.On("Append", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	svc := newPartyService(t, server.URL, "", logs)
	result := svc.Submit(context.Background(), testPartyRecord())

	assert.Equal(t, relay.SuccessYes, result.Success)
}
