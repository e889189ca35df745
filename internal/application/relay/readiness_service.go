package relay

import (
	"context"
)

// DatabaseProber reports database health for readiness checks.
type DatabaseProber interface {
	Healthy(ctx context.Context) bool
}

// Readiness is the aggregate health snapshot exposed to orchestrators.
type Readiness struct {
	Database bool `json:"database"`
	ERP      bool `json:"erp"`
	Ready    bool `json:"ready"`
}

// ReadinessService aggregates the database and ERP probes. Each probe
// carries its own short deadline and never raises; an offline component
// is reported healthy since it is intentionally absent.
type ReadinessService struct {
	db         DatabaseProber
	client     ERPClient
	dbOffline  bool
	erpOffline bool
}

func NewReadinessService(db DatabaseProber, client ERPClient, dbOffline, erpOffline bool) *ReadinessService {
	return &ReadinessService{
		db:         db,
		client:     client,
		dbOffline:  dbOffline,
		erpOffline: erpOffline,
	}
}

// Check runs both sub-probes and reports the aggregate.
func (s *ReadinessService) Check(ctx context.Context) Readiness {
	r := Readiness{Database: true, ERP: true}
	if !s.dbOffline && s.db != nil {
		r.Database = s.db.Healthy(ctx)
	}
	if !s.erpOffline && s.client != nil {
		r.ERP = s.client.Ping(ctx)
	}
	r.Ready = r.Database && r.ERP
	return r
}
