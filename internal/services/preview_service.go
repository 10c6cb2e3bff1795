// Package services – PreviewService
//
// Read-only support for the merge UI: a pre-merge impact preview (how many
// dependent records will move) and a side-by-side field comparison of two
// records. Neither acquires locks or mutates anything.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
	"github.com/metatechsoftware/globcrm-dedup/internal/match"
	"github.com/metatechsoftware/globcrm-dedup/internal/repo"
)

// MergePreview reports what a merge of loser into survivor would do, without
// doing it. Counts reflect the moment of the call; a concurrent write can
// change them before the merge runs.
type MergePreview struct {
	SurvivorID     string         `json:"survivor_id"`
	LoserID        string         `json:"loser_id"`
	TransferCounts map[string]int `json:"transfer_counts"`
	TotalCount     int            `json:"total_count"`
	Score          int            `json:"score"`
}

// RecordComparison is a side-by-side view of two records, tombstoned or not.
type RecordComparison struct {
	A     *repo.RecordView `json:"a"`
	B     *repo.RecordView `json:"b"`
	Score int              `json:"score"`
}

// PreviewService serves merge previews and record comparisons.
type PreviewService struct {
	DB *gorm.DB
}

// NewPreviewService constructs a PreviewService.
func NewPreviewService(db *gorm.DB) *PreviewService {
	return &PreviewService{DB: db}
}

// Preview computes the dependent-record counts a merge would transfer from
// loser to survivor. Both records must be distinct and active; a tombstoned
// or missing record yields ErrRecordNotFound.
func (s *PreviewService) Preview(ctx context.Context, tenantID string, et domain.EntityType, survivorID, loserID string) (*MergePreview, error) {
	tr := otel.Tracer("services/PreviewService")
	ctx, span := tr.Start(ctx, "Preview",
		trace.WithAttributes(
			attribute.String("tenant.id", tenantID),
			attribute.String("entity.type", string(et)),
		),
	)
	defer span.End()

	if _, ok := domain.ParseEntityType(string(et)); !ok {
		return nil, ErrUnknownEntityType
	}
	if survivorID == loserID {
		return nil, ErrSameRecord
	}

	survivor, err := repo.GetRecordView(ctx, s.DB, et, tenantID, survivorID, false)
	if err != nil {
		return nil, mapPreviewErr(err)
	}
	loser, err := repo.GetRecordView(ctx, s.DB, et, tenantID, loserID, false)
	if err != nil {
		return nil, mapPreviewErr(err)
	}

	counts, err := repo.CountRelated(ctx, s.DB, repo.RelationshipsFor(et), tenantID, loserID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}

	return &MergePreview{
		SurvivorID:     survivorID,
		LoserID:        loserID,
		TransferCounts: counts,
		TotalCount:     total,
		Score:          scoreViews(survivor, loser),
	}, nil
}

// Compare returns both records side by side for manual review. Tombstoned
// records are included so a user can inspect what a past merge consumed.
func (s *PreviewService) Compare(ctx context.Context, tenantID string, et domain.EntityType, idA, idB string) (*RecordComparison, error) {
	tr := otel.Tracer("services/PreviewService")
	ctx, span := tr.Start(ctx, "Compare",
		trace.WithAttributes(
			attribute.String("tenant.id", tenantID),
			attribute.String("entity.type", string(et)),
		),
	)
	defer span.End()

	if _, ok := domain.ParseEntityType(string(et)); !ok {
		return nil, ErrUnknownEntityType
	}
	if idA == idB {
		return nil, ErrSameRecord
	}

	a, err := repo.GetRecordView(ctx, s.DB, et, tenantID, idA, true)
	if err != nil {
		return nil, mapPreviewErr(err)
	}
	b, err := repo.GetRecordView(ctx, s.DB, et, tenantID, idB, true)
	if err != nil {
		return nil, mapPreviewErr(err)
	}

	return &RecordComparison{A: a, B: b, Score: scoreViews(a, b)}, nil
}

// scoreViews rates two record views with the same scorer detection uses, so
// the preview shows the number the user saw in the duplicate list.
func scoreViews(a, b *repo.RecordView) int {
	return match.Score(viewRecord(a), viewRecord(b))
}

// viewRecord projects a RecordView onto the scorer's primary/secondary
// shape, mirroring the projection repo.ActiveSummaries applies.
func viewRecord(v *repo.RecordView) match.Record {
	rec := match.Record{ID: v.ID, UpdatedAt: v.UpdatedAt}
	switch v.EntityType {
	case domain.EntityContact:
		first := stringField(v, "first_name")
		last := stringField(v, "last_name")
		rec.Primary = strings.TrimSpace(first + " " + last)
		rec.Secondary = stringField(v, "email")
	case domain.EntityCompany:
		rec.Primary = stringField(v, "name")
		rec.Secondary = stringField(v, "website")
	}
	return rec
}

func stringField(v *repo.RecordView, key string) string {
	s, _ := v.Fields[key].(string)
	return s
}

func mapPreviewErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRecordNotFound
	}
	return err
}
