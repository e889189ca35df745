package jde

import (
	"encoding/base64"
	"encoding/json"

	"go.uber.org/zap"
)

// Credential is one per-company transport credential record.
type Credential struct {
	Company  string `json:"company"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// CredentialStore resolves JDE credentials from a single configured JSON
// blob. The blob is parsed on every call; a malformed blob is logged and
// treated as "no credentials found", never as a fatal error.
type CredentialStore struct {
	raw    string
	logger *zap.Logger
}

// NewCredentialStore creates a credential store over the configured blob.
func NewCredentialStore(raw string, logger *zap.Logger) *CredentialStore {
	return &CredentialStore{
		raw:    raw,
		logger: logger.Named("jde-credentials"),
	}
}

// BasicAuthHeader returns the "Basic <token>" header value for the first
// configured record matching the company code. The second return is false
// when no record matches or the blob is absent or malformed; the caller
// proceeds without a transport credential.
func (s *CredentialStore) BasicAuthHeader(company string) (string, bool) {
	if s.raw == "" {
		return "", false
	}

	var records []Credential
	if err := json.Unmarshal([]byte(s.raw), &records); err != nil {
		s.logger.Warn("Invalid JDE credentials JSON", zap.Error(err))
		return "", false
	}

	for _, rec := range records {
		if rec.Company == company {
			token := base64.StdEncoding.EncodeToString([]byte(rec.User + ":" + rec.Password))
			return "Basic " + token, true
		}
	}
	return "", false
}

// AttachBody injects the configured credential blob into the payload under
// the "credentials" key, for the legacy flows that carry credentials inside
// the JSON body. The payload is left untouched when it already carries that
// key or when no blob is configured; a copy is returned either way.
func (s *CredentialStore) AttachBody(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}

	if s.raw == "" {
		return out
	}
	if _, exists := out["credentials"]; exists {
		return out
	}

	var blob any
	if err := json.Unmarshal([]byte(s.raw), &blob); err != nil {
		s.logger.Warn("Invalid JDE credentials JSON", zap.Error(err))
		return out
	}
	out["credentials"] = blob
	return out
}
