// Package services – DetectionService
//
// This file implements the duplicate detection use cases: the real-time
// single-record check ("does this new record match anything?") and the
// paginated full-entity batch scan ("find all duplicate pairs above
// threshold"). Both are read-only and lock-free; they enumerate the active
// record set, narrow it through the trigram candidate index, and rate the
// surviving pairs with the 0–100 similarity scorer. The per-tenant matching
// configuration is read fresh on every call; its auto-detection toggle
// governs the real-time path only.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// tenant, entity type, threshold, and result counts.
package services

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
	"github.com/metatechsoftware/globcrm-dedup/internal/match"
	"github.com/metatechsoftware/globcrm-dedup/internal/repo"
)

// DuplicateMatch is one scored detection result: the candidate's id and
// display fields, the pairwise similarity score, and the candidate's
// last-modified timestamp. Produced per query; never persisted.
type DuplicateMatch struct {
	ID        string `json:"id"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Score     int    `json:"score"`
	UpdatedAt string `json:"updated_at"`

	updatedAt int64
}

// DuplicatePair is the unit returned by batch scanning: two matched records
// and their pairwise score. A is always the more recently modified side.
type DuplicatePair struct {
	A     DuplicateMatch `json:"a"`
	B     DuplicateMatch `json:"b"`
	Score int            `json:"score"`
}

// DetectionService orchestrates the candidate generator and similarity
// scorer. It owns no mutable state beyond the DB handle and is safe for
// concurrent use, including concurrently with merges.
type DetectionService struct {
	// DB is the GORM handle used for read-only enumeration.
	DB *gorm.DB

	// CandidateCap bounds the candidate set per record; zero means
	// match.DefaultCandidateCap.
	CandidateCap int
}

// NewDetectionService constructs a DetectionService with default bounds.
func NewDetectionService(db *gorm.DB) *DetectionService {
	return &DetectionService{DB: db, CandidateCap: match.DefaultCandidateCap}
}

// FindMatches runs the real-time duplicate check for a record being created
// or edited. It returns matches scoring at or above the threshold, sorted by
// score descending with ties broken by most-recently-modified first.
//
// Semantics:
//   - When the tenant's auto-detection toggle is off for the entity type, an
//     empty slice is returned without touching the record store.
//   - threshold <= 0 means "use the tenant's configured threshold";
//     explicit values outside [0,100] yield ErrInvalidThreshold.
//   - A query with both fields empty cannot be matched and returns no rows.
func (s *DetectionService) FindMatches(ctx context.Context, tenantID string, et domain.EntityType, query match.Record, threshold int) ([]DuplicateMatch, error) {
	tr := otel.Tracer("services/DetectionService")
	ctx, span := tr.Start(ctx, "FindMatches",
		trace.WithAttributes(
			attribute.String("tenant.id", tenantID),
			attribute.String("entity.type", string(et)),
			attribute.Int("threshold", threshold),
		),
	)
	defer span.End()

	if _, ok := domain.ParseEntityType(string(et)); !ok {
		return nil, ErrUnknownEntityType
	}
	if threshold > 100 {
		return nil, ErrInvalidThreshold
	}

	cfg, err := repo.GetMatchingConfig(ctx, s.DB, tenantID, et)
	if err != nil {
		return nil, err
	}
	if !cfg.AutoDetectionEnabled {
		// Cheap short-circuit: detection is advisory, a disabled tenant pays
		// nothing for it.
		return []DuplicateMatch{}, nil
	}
	if threshold <= 0 {
		threshold = cfg.SimilarityThreshold
	}

	summaries, err := repo.ActiveSummaries(ctx, s.DB, tenantID, et)
	if err != nil {
		return nil, err
	}

	idx := match.NewIndex(toRecords(summaries))
	matches := make([]DuplicateMatch, 0, 8)
	for _, cand := range idx.Candidates(query, s.candidateCap()) {
		score := match.Score(query, cand)
		if score < threshold {
			continue
		}
		matches = append(matches, toMatch(cand, score))
	}
	sortMatches(matches)

	span.SetAttributes(attribute.Int("matches", len(matches)))
	return matches, nil
}

// ScanForDuplicates enumerates the tenant's active records of one entity
// type and returns the requested page of duplicate pairs at or above the
// threshold, along with the total size of the filtered set.
//
// The full pair set is computed from a single enumeration per call, so the
// returned total is always consistent with the returned page. Symmetric
// pairs are deduplicated; a record is never paired with itself. Pairs sort
// by score descending, ties broken by the pair whose fresher side was
// modified most recently.
//
// threshold <= 0 falls back to the tenant's configured threshold. The
// auto-detection toggle is ignored: batch scanning is always available.
func (s *DetectionService) ScanForDuplicates(ctx context.Context, tenantID string, et domain.EntityType, threshold, page, pageSize int) ([]DuplicatePair, int64, error) {
	tr := otel.Tracer("services/DetectionService")
	ctx, span := tr.Start(ctx, "ScanForDuplicates",
		trace.WithAttributes(
			attribute.String("tenant.id", tenantID),
			attribute.String("entity.type", string(et)),
			attribute.Int("threshold", threshold),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if _, ok := domain.ParseEntityType(string(et)); !ok {
		return nil, 0, ErrUnknownEntityType
	}
	if threshold > 100 {
		return nil, 0, ErrInvalidThreshold
	}
	if threshold <= 0 {
		cfg, err := repo.GetMatchingConfig(ctx, s.DB, tenantID, et)
		if err != nil {
			return nil, 0, err
		}
		threshold = cfg.SimilarityThreshold
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	summaries, err := repo.ActiveSummaries(ctx, s.DB, tenantID, et)
	if err != nil {
		return nil, 0, err
	}
	records := toRecords(summaries)
	idx := match.NewIndex(records)

	seen := make(map[string]struct{})
	pairs := make([]DuplicatePair, 0, 16)
	for _, rec := range records {
		for _, cand := range idx.Candidates(rec, s.candidateCap()) {
			key := pairKey(rec.ID, cand.ID)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			score := match.Score(rec, cand)
			if score < threshold {
				continue
			}
			pairs = append(pairs, newPair(rec, cand, score))
		}
	}
	sortPairs(pairs)

	total := int64(len(pairs))
	start := (page - 1) * pageSize
	if start >= len(pairs) {
		span.SetAttributes(attribute.Int64("total", total))
		return []DuplicatePair{}, total, nil
	}
	end := start + pageSize
	if end > len(pairs) {
		end = len(pairs)
	}
	span.SetAttributes(attribute.Int64("total", total))
	return pairs[start:end], total, nil
}

func (s *DetectionService) candidateCap() int {
	if s.CandidateCap > 0 {
		return s.CandidateCap
	}
	return match.DefaultCandidateCap
}

// --- result shaping helpers ---

func toRecords(summaries []domain.RecordSummary) []match.Record {
	out := make([]match.Record, len(summaries))
	for i, s := range summaries {
		out[i] = match.Record{
			ID:        s.ID,
			Primary:   s.Primary,
			Secondary: s.Secondary,
			UpdatedAt: s.UpdatedAt,
		}
	}
	return out
}

func toMatch(r match.Record, score int) DuplicateMatch {
	return DuplicateMatch{
		ID:        r.ID,
		Primary:   r.Primary,
		Secondary: r.Secondary,
		Score:     score,
		UpdatedAt: r.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		updatedAt: r.UpdatedAt.UnixNano(),
	}
}

// newPair orients a scored pair so that A is the more recently modified side.
func newPair(x, y match.Record, score int) DuplicatePair {
	a, b := toMatch(x, score), toMatch(y, score)
	if b.updatedAt > a.updatedAt {
		a, b = b, a
	}
	return DuplicatePair{A: a, B: b, Score: score}
}

// sortMatches orders matches by score descending, most recently modified
// first on ties, id ascending as the final tiebreak.
func sortMatches(ms []DuplicateMatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Score != ms[j].Score {
			return ms[i].Score > ms[j].Score
		}
		if ms[i].updatedAt != ms[j].updatedAt {
			return ms[i].updatedAt > ms[j].updatedAt
		}
		return ms[i].ID < ms[j].ID
	})
}

// sortPairs orders pairs by score descending; ties prefer the pair whose A
// side (its fresher record) was modified most recently, then id order.
func sortPairs(ps []DuplicatePair) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].Score != ps[j].Score {
			return ps[i].Score > ps[j].Score
		}
		if ps[i].A.updatedAt != ps[j].A.updatedAt {
			return ps[i].A.updatedAt > ps[j].A.updatedAt
		}
		if ps[i].A.ID != ps[j].A.ID {
			return ps[i].A.ID < ps[j].A.ID
		}
		return ps[i].B.ID < ps[j].B.ID
	})
}

// pairKey builds an order-insensitive identity for a pair so (a,b) and (b,a)
// deduplicate to one entry.
func pairKey(a, b string) string {
	if a < b {
		return a + "\x00" + b
	}
	return b + "\x00" + a
}
