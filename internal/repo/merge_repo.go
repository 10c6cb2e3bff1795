// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the merge audit log: append-only
// MergeRecord rows created inside the merge transaction and read back for
// audit listings.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
)

// CreateMergeRecord inserts the write-once audit row for a completed merge.
// Must be called on the merge transaction handle so the audit fact commits or
// rolls back together with the relationship transfer.
func CreateMergeRecord(tx *gorm.DB, tenantID string, et domain.EntityType, survivorID, loserID, actingUserID string, counts map[string]int, mergedAt time.Time) (*domain.MergeRecord, error) {
	rec := &domain.MergeRecord{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		EntityType:   et,
		SurvivorID:   survivorID,
		LoserID:      loserID,
		ActingUserID: actingUserID,
		MergedAt:     mergedAt,
		CreatedAt:    mergedAt,
	}
	if err := rec.SetTransferCounts(counts); err != nil {
		return nil, err
	}
	return rec, tx.Create(rec).Error
}

// ListMergeRecords returns the tenant's merge history for an entity type,
// newest first. Ordered deterministically (MergedAt DESC, ID ASC).
func ListMergeRecords(ctx context.Context, db *gorm.DB, tenantID string, et domain.EntityType, limit int) ([]domain.MergeRecord, error) {
	var out []domain.MergeRecord
	q := db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ?", tenantID, et).
		Order("merged_at DESC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// NewID returns a fresh record id. Thin wrapper so services and tests mint
// ids the same way the repo does.
func NewID() string { return uuid.NewString() }
