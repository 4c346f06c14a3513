package server

import (
	"context"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/export"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService verifies graph connectivity as part of health checks.
// A nil Client means the server runs without an export target, which counts
// as healthy.
type GraphHealthService struct {
	Client export.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}
