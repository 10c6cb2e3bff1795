// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the generic record-store functions the
// detection and merge services share: active-record enumeration (tombstones
// excluded), tombstone-piercing detail reads for comparison/audit, row
// locking and mutation primitives used inside the merge transaction.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
)

// ErrNotFound is returned when an id does not resolve to a record of the
// requested tenant and entity type (or, for active-only lookups, resolves
// only to a tombstone).
var ErrNotFound = errors.New("record not found")

// modelFor returns a fresh zero-value model for an entity type, or nil for
// unknown types. Callers validate the entity type at the boundary.
func modelFor(et domain.EntityType) any {
	switch et {
	case domain.EntityContact:
		return &domain.Contact{}
	case domain.EntityCompany:
		return &domain.Company{}
	default:
		return nil
	}
}

// ActiveSummaries returns the matching projection (id, primary field,
// secondary field, updated-at) of every active record of the given type in
// the tenant. Tombstoned rows are excluded by GORM's soft-delete scope.
// Ordering is by id for determinism.
func ActiveSummaries(ctx context.Context, db *gorm.DB, tenantID string, et domain.EntityType) ([]domain.RecordSummary, error) {
	switch et {
	case domain.EntityContact:
		var rows []domain.Contact
		err := db.WithContext(ctx).
			Where("tenant_id = ?", tenantID).
			Order("id ASC").
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		out := make([]domain.RecordSummary, 0, len(rows))
		for _, c := range rows {
			out = append(out, domain.RecordSummary{
				ID:        c.ID,
				Primary:   c.DisplayName(),
				Secondary: c.Email,
				UpdatedAt: c.UpdatedAt,
			})
		}
		return out, nil
	case domain.EntityCompany:
		var rows []domain.Company
		err := db.WithContext(ctx).
			Where("tenant_id = ?", tenantID).
			Order("id ASC").
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		out := make([]domain.RecordSummary, 0, len(rows))
		for _, c := range rows {
			out = append(out, domain.RecordSummary{
				ID:        c.ID,
				Primary:   c.Name,
				Secondary: c.Website,
				UpdatedAt: c.UpdatedAt,
			})
		}
		return out, nil
	default:
		return nil, ErrNotFound
	}
}

// RecordView is a field-level view of a single record, shaped for the
// side-by-side comparison API. Unlike the persisted models it is uniform
// across entity types and carries the tombstone state explicitly.
type RecordView struct {
	ID           string         `json:"id"`
	TenantID     string         `json:"tenant_id"`
	EntityType   domain.EntityType `json:"entity_type"`
	Fields       map[string]any `json:"fields"`
	MergedIntoID *string        `json:"merged_into_id,omitempty"`
	Tombstoned   bool           `json:"tombstoned"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// GetRecordView fetches a single record as a RecordView. When
// includeTombstoned is true the soft-delete scope is bypassed so merged-away
// records remain inspectable; the redirect pointer is reported verbatim and
// never followed.
func GetRecordView(ctx context.Context, db *gorm.DB, et domain.EntityType, tenantID, id string, includeTombstoned bool) (*RecordView, error) {
	q := db.WithContext(ctx)
	if includeTombstoned {
		q = q.Unscoped()
	}
	q = q.Where("id = ? AND tenant_id = ?", id, tenantID)

	switch et {
	case domain.EntityContact:
		var c domain.Contact
		if err := q.First(&c).Error; err != nil {
			return nil, mapNotFound(err)
		}
		return &RecordView{
			ID:         c.ID,
			TenantID:   c.TenantID,
			EntityType: et,
			Fields: map[string]any{
				"first_name": c.FirstName,
				"last_name":  c.LastName,
				"email":      c.Email,
				"phone":      c.Phone,
				"company_id": c.CompanyID,
			},
			MergedIntoID: c.MergedIntoID,
			Tombstoned:   c.DeletedAt.Valid,
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		}, nil
	case domain.EntityCompany:
		var c domain.Company
		if err := q.First(&c).Error; err != nil {
			return nil, mapNotFound(err)
		}
		return &RecordView{
			ID:         c.ID,
			TenantID:   c.TenantID,
			EntityType: et,
			Fields: map[string]any{
				"name":     c.Name,
				"website":  c.Website,
				"industry": c.Industry,
			},
			MergedIntoID: c.MergedIntoID,
			Tombstoned:   c.DeletedAt.Valid,
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		}, nil
	default:
		return nil, ErrNotFound
	}
}

// LockActive loads the record row for update, requiring it to be active (not
// tombstoned) and to belong to the tenant. On stores with row-level locking
// the FOR UPDATE clause holds the row for the duration of the surrounding
// transaction so two concurrent merges cannot both consume the same loser.
// SQLite has no FOR UPDATE syntax and serializes writers anyway, so the
// clause is skipped there.
func LockActive(tx *gorm.DB, et domain.EntityType, tenantID, id string) error {
	model := modelFor(et)
	if model == nil {
		return ErrNotFound
	}
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("id = ? AND tenant_id = ?", id, tenantID).
		First(model).Error
	return mapNotFound(err)
}

// MergeableColumns returns the caller-selectable field set for an entity
// type: JSON field name to database column. Field selections outside this
// set are rejected before the merge transaction starts.
func MergeableColumns(et domain.EntityType) map[string]string {
	switch et {
	case domain.EntityContact:
		return map[string]string{
			"first_name": "first_name",
			"last_name":  "last_name",
			"email":      "email",
			"phone":      "phone",
			"company_id": "company_id",
		}
	case domain.EntityCompany:
		return map[string]string{
			"name":     "name",
			"website":  "website",
			"industry": "industry",
		}
	default:
		return nil
	}
}

// ApplyFieldSelections overwrites the given columns on the survivor row.
// The updates map must already be validated and keyed by database column.
// A no-op when updates is empty.
func ApplyFieldSelections(tx *gorm.DB, et domain.EntityType, tenantID, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	model := modelFor(et)
	if model == nil {
		return ErrNotFound
	}
	return tx.Model(model).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(updates).Error
}

// CollapseRedirects re-points any existing tombstone whose redirect targets
// loserID onto survivorID, so redirect pointers always resolve to an active
// record in a single hop. Returns the number of redirects rewritten.
func CollapseRedirects(tx *gorm.DB, et domain.EntityType, tenantID, loserID, survivorID string) (int, error) {
	model := modelFor(et)
	if model == nil {
		return 0, ErrNotFound
	}
	res := tx.Unscoped().Model(model).
		Where("merged_into_id = ? AND tenant_id = ?", loserID, tenantID).
		Update("merged_into_id", survivorID)
	return int(res.RowsAffected), res.Error
}

// Tombstone marks the loser as merged away: the redirect pointer is set and
// the row is soft deleted in the same transaction, removing it from every
// normal query while keeping it fetchable for comparison/audit.
func Tombstone(tx *gorm.DB, et domain.EntityType, tenantID, loserID, survivorID string) error {
	model := modelFor(et)
	if model == nil {
		return ErrNotFound
	}
	res := tx.Model(model).
		Where("id = ? AND tenant_id = ?", loserID, tenantID).
		Update("merged_into_id", survivorID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return tx.Where("id = ? AND tenant_id = ?", loserID, tenantID).Delete(model).Error
}

// mapNotFound converts GORM's record-not-found sentinel into the repo-level
// ErrNotFound, passing other errors through unchanged.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
