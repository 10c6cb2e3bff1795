// Package services – MergeService
//
// This file implements the merge transaction: the irreversible consolidation
// of two duplicate records into one. The caller designates a survivor and a
// loser; every dependent record pointing at the loser is reparented to the
// survivor, optional field selections are copied onto the survivor, and the
// loser becomes a tombstone that redirects to the survivor. Everything runs
// inside a single database transaction so a failure at any step leaves both
// records untouched.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
	"github.com/metatechsoftware/globcrm-dedup/internal/repo"
)

// MergeRequest carries everything needed to execute one merge.
type MergeRequest struct {
	TenantID     string
	EntityType   domain.EntityType
	SurvivorID   string
	LoserID      string
	ActingUserID string

	// FieldSelections optionally copies chosen loser values onto the
	// survivor, keyed by mergeable field name. Unknown fields are rejected
	// before the transaction opens.
	FieldSelections map[string]any
}

// MergeResult reports what a completed merge did.
type MergeResult struct {
	SurvivorID     string         `json:"survivor_id"`
	LoserID        string         `json:"loser_id"`
	TransferCounts map[string]int `json:"transfer_counts"`
	RedirectsMoved int            `json:"redirects_moved"`
	MergedAt       time.Time      `json:"merged_at"`
}

// MergeService executes merge transactions and records their audit trail.
type MergeService struct {
	DB *gorm.DB

	// catalog overrides the relationship catalog per entity type; nil means
	// the built-in catalog. Tests inject broken catalogs here to exercise
	// rollback.
	catalog func(domain.EntityType) []repo.Relationship
}

// NewMergeService constructs a MergeService using the built-in relationship
// catalog.
func NewMergeService(db *gorm.DB) *MergeService {
	return &MergeService{DB: db, catalog: repo.RelationshipsFor}
}

// Merge consolidates the loser record into the survivor. On success the
// loser is tombstoned, its dependents belong to the survivor, and an audit
// record exists; on any failure the transaction rolls back and nothing
// changed. Merging is not idempotent: a second call with the same loser
// fails with ErrRecordNotFound because the loser is no longer active.
func (s *MergeService) Merge(ctx context.Context, req MergeRequest) (*MergeResult, error) {
	tr := otel.Tracer("services/MergeService")
	ctx, span := tr.Start(ctx, "Merge",
		trace.WithAttributes(
			attribute.String("tenant.id", req.TenantID),
			attribute.String("entity.type", string(req.EntityType)),
			attribute.String("survivor.id", req.SurvivorID),
			attribute.String("loser.id", req.LoserID),
		),
	)
	defer span.End()

	if _, ok := domain.ParseEntityType(string(req.EntityType)); !ok {
		return nil, ErrUnknownEntityType
	}
	if req.SurvivorID == req.LoserID {
		return nil, ErrSameRecord
	}
	updates, err := validateSelections(req.EntityType, req.FieldSelections)
	if err != nil {
		return nil, err
	}

	var result *MergeResult
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock both rows up front; concurrent merges against either record
		// serialize here.
		if err := repo.LockActive(tx, req.EntityType, req.TenantID, req.SurvivorID); err != nil {
			return err
		}
		if err := repo.LockActive(tx, req.EntityType, req.TenantID, req.LoserID); err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := repo.ApplyFieldSelections(tx, req.EntityType, req.TenantID, req.SurvivorID, updates); err != nil {
				return err
			}
		}

		counts, err := repo.ReparentRelated(tx, s.relationships(req.EntityType), req.TenantID, req.LoserID, req.SurvivorID)
		if err != nil {
			return err
		}

		// Older tombstones pointing at the loser retarget to the survivor so
		// redirect chains stay one hop long.
		moved, err := repo.CollapseRedirects(tx, req.EntityType, req.TenantID, req.LoserID, req.SurvivorID)
		if err != nil {
			return err
		}

		if err := repo.Tombstone(tx, req.EntityType, req.TenantID, req.LoserID, req.SurvivorID); err != nil {
			return err
		}

		mergedAt := time.Now().UTC()
		if _, err := repo.CreateMergeRecord(tx, req.TenantID, req.EntityType, req.SurvivorID, req.LoserID, req.ActingUserID, counts, mergedAt); err != nil {
			return err
		}

		result = &MergeResult{
			SurvivorID:     req.SurvivorID,
			LoserID:        req.LoserID,
			TransferCounts: counts,
			RedirectsMoved: moved,
			MergedAt:       mergedAt,
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, repo.ErrNotFound) {
			// Distinguish "never existed" from "already merged away": a
			// tombstoned participant means a competing merge won.
			return nil, s.classifyMissing(ctx, req)
		}
		log.Ctx(ctx).Error().
			Err(txErr).
			Str("tenant_id", req.TenantID).
			Str("entity_type", string(req.EntityType)).
			Str("survivor_id", req.SurvivorID).
			Str("loser_id", req.LoserID).
			Msg("merge transaction rolled back")
		span.RecordError(txErr)
		return nil, ErrMergeFailed
	}

	log.Ctx(ctx).Info().
		Str("tenant_id", req.TenantID).
		Str("entity_type", string(req.EntityType)).
		Str("survivor_id", req.SurvivorID).
		Str("loser_id", req.LoserID).
		Interface("transfer_counts", result.TransferCounts).
		Msg("merge completed")
	return result, nil
}

// classifyMissing inspects why a merge participant could not be locked.
// A survivor that was itself merged away is a conflict: the caller is
// targeting a record a competing merge already consumed. A missing or
// already-merged loser is plain not-found; merging is not idempotent, so a
// repeat of the same merge reports the loser gone rather than succeeding.
func (s *MergeService) classifyMissing(ctx context.Context, req MergeRequest) error {
	view, err := repo.GetRecordView(ctx, s.DB, req.EntityType, req.TenantID, req.SurvivorID, true)
	if err == nil && view.Tombstoned {
		return ErrMergeConflict
	}
	return ErrRecordNotFound
}

func (s *MergeService) relationships(et domain.EntityType) []repo.Relationship {
	if s.catalog != nil {
		return s.catalog(et)
	}
	return repo.RelationshipsFor(et)
}

// validateSelections maps field names to columns and rejects anything
// outside the entity's mergeable set.
func validateSelections(et domain.EntityType, selections map[string]any) (map[string]any, error) {
	if len(selections) == 0 {
		return nil, nil
	}
	allowed := repo.MergeableColumns(et)
	updates := make(map[string]any, len(selections))
	for field, value := range selections {
		col, ok := allowed[field]
		if !ok {
			return nil, ErrInvalidFieldSelection
		}
		updates[col] = value
	}
	return updates, nil
}
