// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the matching configuration store: the
// per-tenant, per-entity-type threshold and auto-detection toggle read by the
// detection service on every call.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
)

// GetMatchingConfig returns the tenant's matching configuration for an entity
// type. A tenant with no stored row gets the defaults (threshold 70,
// auto-detection enabled); the absence of configuration never disables
// matching.
func GetMatchingConfig(ctx context.Context, db *gorm.DB, tenantID string, et domain.EntityType) (domain.MatchingConfig, error) {
	var cfg domain.MatchingConfig
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ?", tenantID, et).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DefaultMatchingConfig(tenantID, et), nil
		}
		return domain.MatchingConfig{}, err
	}
	return cfg, nil
}

// UpsertMatchingConfig creates or updates the (tenant, entity type) row. Used
// by the tenant administration surface; the detection path never writes.
func UpsertMatchingConfig(ctx context.Context, db *gorm.DB, tenantID string, et domain.EntityType, threshold int, autoDetection bool) (domain.MatchingConfig, error) {
	cfg := domain.MatchingConfig{
		ID:                   uuid.NewString(),
		TenantID:             tenantID,
		EntityType:           et,
		SimilarityThreshold:  threshold,
		AutoDetectionEnabled: autoDetection,
		CreatedAt:            time.Now().UTC(),
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "entity_type"}},
			DoUpdates: clause.Assignments(map[string]any{
				"similarity_threshold":   threshold,
				"auto_detection_enabled": autoDetection,
				"updated_at":             time.Now().UTC(),
			}),
		}).
		Create(&cfg).Error
	if err != nil {
		return domain.MatchingConfig{}, err
	}
	return GetMatchingConfig(ctx, db, tenantID, et)
}
