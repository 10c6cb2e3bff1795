// Package services – ConfigService
//
// Per-tenant matching configuration: each tenant carries an independent
// similarity threshold and auto-detection toggle per entity type. Reads fall
// back to defaults for tenants that never saved anything.
package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
	"github.com/metatechsoftware/globcrm-dedup/internal/repo"
)

// ConfigService reads and writes per-tenant matching settings.
type ConfigService struct {
	DB *gorm.DB
}

// NewConfigService constructs a ConfigService.
func NewConfigService(db *gorm.DB) *ConfigService {
	return &ConfigService{DB: db}
}

// Get returns the tenant's matching configuration for the entity type,
// or the defaults when none has been saved.
func (s *ConfigService) Get(ctx context.Context, tenantID string, et domain.EntityType) (domain.MatchingConfig, error) {
	tr := otel.Tracer("services/ConfigService")
	ctx, span := tr.Start(ctx, "GetMatchingConfig",
		trace.WithAttributes(
			attribute.String("tenant.id", tenantID),
			attribute.String("entity.type", string(et)),
		),
	)
	defer span.End()

	if _, ok := domain.ParseEntityType(string(et)); !ok {
		return domain.MatchingConfig{}, ErrUnknownEntityType
	}
	return repo.GetMatchingConfig(ctx, s.DB, tenantID, et)
}

// Update saves the tenant's threshold and auto-detection toggle for the
// entity type, creating the row on first write. Thresholds outside [0,100]
// are rejected.
func (s *ConfigService) Update(ctx context.Context, tenantID string, et domain.EntityType, threshold int, autoDetection bool) (domain.MatchingConfig, error) {
	tr := otel.Tracer("services/ConfigService")
	ctx, span := tr.Start(ctx, "UpdateMatchingConfig",
		trace.WithAttributes(
			attribute.String("tenant.id", tenantID),
			attribute.String("entity.type", string(et)),
			attribute.Int("threshold", threshold),
		),
	)
	defer span.End()

	if _, ok := domain.ParseEntityType(string(et)); !ok {
		return domain.MatchingConfig{}, ErrUnknownEntityType
	}
	if threshold < 0 || threshold > 100 {
		return domain.MatchingConfig{}, ErrInvalidThreshold
	}
	return repo.UpsertMatchingConfig(ctx, s.DB, tenantID, et, threshold, autoDetection)
}
