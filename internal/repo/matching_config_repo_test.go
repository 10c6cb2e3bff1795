package repo

import (
	"context"
	"testing"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
)

func TestGetMatchingConfig_DefaultsWhenAbsent(t *testing.T) {
	db := newRecordRepoDB(t)

	cfg, err := GetMatchingConfig(context.Background(), db, "t1", domain.EntityContact)
	if err != nil {
		t.Fatalf("GetMatchingConfig: %v", err)
	}
	if cfg.SimilarityThreshold != domain.DefaultSimilarityThreshold {
		t.Fatalf("default threshold = %d, want %d", cfg.SimilarityThreshold, domain.DefaultSimilarityThreshold)
	}
	if !cfg.AutoDetectionEnabled {
		t.Fatalf("auto-detection should default to enabled")
	}
}

func TestUpsertMatchingConfig_CreateThenUpdate(t *testing.T) {
	db := newRecordRepoDB(t)
	ctx := context.Background()

	created, err := UpsertMatchingConfig(ctx, db, "t1", domain.EntityContact, 85, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.SimilarityThreshold != 85 || created.AutoDetectionEnabled {
		t.Fatalf("created config wrong: %+v", created)
	}

	updated, err := UpsertMatchingConfig(ctx, db, "t1", domain.EntityContact, 60, true)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.SimilarityThreshold != 60 || !updated.AutoDetectionEnabled {
		t.Fatalf("updated config wrong: %+v", updated)
	}

	// Still a single row per (tenant, entity type).
	var n int64
	if err := db.Model(&domain.MatchingConfig{}).
		Where("tenant_id = ? AND entity_type = ?", "t1", domain.EntityContact).
		Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 config row, got %d", n)
	}
}

func TestUpsertMatchingConfig_TenantsIsolated(t *testing.T) {
	db := newRecordRepoDB(t)
	ctx := context.Background()

	if _, err := UpsertMatchingConfig(ctx, db, "t1", domain.EntityContact, 90, true); err != nil {
		t.Fatalf("t1 upsert: %v", err)
	}

	other, err := GetMatchingConfig(ctx, db, "t2", domain.EntityContact)
	if err != nil {
		t.Fatalf("t2 get: %v", err)
	}
	if other.SimilarityThreshold != domain.DefaultSimilarityThreshold {
		t.Fatalf("t2 inherited t1 config: %+v", other)
	}
}
