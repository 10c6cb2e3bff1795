// Duplicate detection HTTP handlers.
//
// This file exposes REST endpoints for duplicate discovery:
//   - POST /duplicates/check/{entityType}   (real-time single-record check)
//   - GET  /duplicates/scan/{entityType}    (paginated batch scan)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
	"github.com/metatechsoftware/globcrm-dedup/internal/match"
	"github.com/metatechsoftware/globcrm-dedup/internal/services"
	"github.com/metatechsoftware/globcrm-dedup/internal/utils"
)

//
// Service contracts (context-aware)
//

// DetectionService defines duplicate discovery operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type DetectionService interface {
	// FindMatches checks one record against the tenant's active set.
	FindMatches(ctx context.Context, tenantID string, et domain.EntityType, query match.Record, threshold int) ([]services.DuplicateMatch, error)
	// ScanForDuplicates returns one page of duplicate pairs and the total.
	ScanForDuplicates(ctx context.Context, tenantID string, et domain.EntityType, threshold, page, pageSize int) ([]services.DuplicatePair, int64, error)
}

// MergeService defines the merge transaction consumed by HTTP handlers.
type MergeService interface {
	// Merge consolidates the loser record into the survivor atomically.
	Merge(ctx context.Context, req services.MergeRequest) (*services.MergeResult, error)
}

// PreviewService defines read-only merge support operations.
type PreviewService interface {
	// Preview reports the dependent-record counts a merge would transfer.
	Preview(ctx context.Context, tenantID string, et domain.EntityType, survivorID, loserID string) (*services.MergePreview, error)
	// Compare returns two records side by side, including tombstoned ones.
	Compare(ctx context.Context, tenantID string, et domain.EntityType, idA, idB string) (*services.RecordComparison, error)
}

// ConfigService defines per-tenant matching configuration access.
type ConfigService interface {
	Get(ctx context.Context, tenantID string, et domain.EntityType) (domain.MatchingConfig, error)
	Update(ctx context.Context, tenantID string, et domain.EntityType, threshold int, autoDetection bool) (domain.MatchingConfig, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for detection, merging, and configuration.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	detSvc DetectionService
	mrgSvc MergeService
	prvSvc PreviewService
	cfgSvc ConfigService

	// ScanMaxPage caps page_size on the batch scan endpoint; zero means
	// defaultMaxPageSize.
	ScanMaxPage int
}

// New constructs and returns a Handlers instance bound to the given services.
func New(detSvc DetectionService, mrgSvc MergeService, prvSvc PreviewService, cfgSvc ConfigService) *Handlers {
	return &Handlers{detSvc: detSvc, mrgSvc: mrgSvc, prvSvc: prvSvc, cfgSvc: cfgSvc}
}

// tenantID extracts the tenant id from Gin context (set by upstream
// middleware). If absent, it falls back to the "X-Tenant-ID" header, and
// finally to "demo-tenant". It never touches c.Request if it's nil.
func tenantID(c *gin.Context) string {
	if v, ok := c.Get("tenantID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-Tenant-ID")); h != "" {
			return h
		}
	}
	return "demo-tenant"
}

// userID extracts the acting user id, falling back to the "X-User-ID" header
// and then to "demo-user".
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// entityType parses the :entityType path parameter.
func entityType(c *gin.Context) (domain.EntityType, bool) {
	et, ok := domain.ParseEntityType(c.Param("entityType"))
	if !ok {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "entity type must be contacts or companies")
		return "", false
	}
	return et, true
}

//
// DTOs
//

// CheckDuplicatesRequest is the JSON payload for the real-time check.
type CheckDuplicatesRequest struct {
	// Name is the record's display name (or company name).
	Name string `json:"name" example:"Jon Smith"`
	// Email is the contact email or company website.
	Email string `json:"email" example:"j.smith@acme.com"`
	// ExcludeID skips one record, used when re-checking an existing record.
	ExcludeID string `json:"exclude_id,omitempty"`
	// Threshold overrides the tenant's configured minimum score (1-100).
	Threshold int `json:"threshold,omitempty" example:"70"`
}

// CheckDuplicatesResponse wraps the scored matches of a real-time check.
type CheckDuplicatesResponse struct {
	Matches []services.DuplicateMatch `json:"matches"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ScanDuplicatesResponse wraps a page of duplicate pairs.
type ScanDuplicatesResponse struct {
	Items      []services.DuplicatePair `json:"items"`
	Pagination Pagination               `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize). The upper bound comes from
// h.ScanMaxPage (SCAN_MAX_PAGE_SIZE) when set.
func (h *Handlers) clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage        = 1
		defaultPageSize    = 20
		defaultMaxPageSize = 100
	)
	maxPageSize := h.ScanMaxPage
	if maxPageSize < 1 {
		maxPageSize = defaultMaxPageSize
	}
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// CheckDuplicates godoc
// @ID          checkDuplicates
// @Summary     Check a record for duplicates
// @Description Scores the given name/email against the tenant's active records and returns matches at or above the threshold. Empty when auto-detection is disabled for the tenant.
// @Tags        Duplicates
// @Accept      json
// @Produce     json
//
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)"  example(tenant-a)
// @Param       entityType   path    string  true  "Entity type"  Enums(contacts, companies)
// @Param       body         body    handlers.CheckDuplicatesRequest  true  "Record fields to check"
//
// @Success     200  {object}  handlers.CheckDuplicatesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /duplicates/check/{entityType} [post]
func (h *Handlers) CheckDuplicates(c *gin.Context) {
	et, okET := entityType(c)
	if !okET {
		return
	}
	var req CheckDuplicatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	query := match.Record{
		ID:        req.ExcludeID,
		Primary:   strings.TrimSpace(req.Name),
		Secondary: strings.TrimSpace(req.Email),
	}
	matches, err := h.detSvc.FindMatches(c.Request.Context(), tenantID(c), et, query, req.Threshold)
	if err != nil {
		status, code := statusFor(err, ErrCodeCheckFailed)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusOK, CheckDuplicatesResponse{Matches: matches})
}

// ScanDuplicates godoc
// @ID          scanDuplicates
// @Summary     Scan for duplicate pairs (paginated)
// @Description Enumerates the tenant's active records and returns one page of duplicate pairs scored at or above the threshold.
// @Tags        Duplicates
// @Produce     json
//
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)"  example(tenant-a)
// @Param       entityType   path    string  true  "Entity type"  Enums(contacts, companies)
// @Param       threshold    query   int     false "Minimum score (falls back to tenant config)"  minimum(1) maximum(100)
// @Param       page         query   int     false "Page number"      minimum(1) default(1)
// @Param       page_size    query   int     false "Items per page"   minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ScanDuplicatesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /duplicates/scan/{entityType} [get]
func (h *Handlers) ScanDuplicates(c *gin.Context) {
	et, okET := entityType(c)
	if !okET {
		return
	}
	page, pageSize := h.clampPagination(c)
	threshold := utils.AtoiDefault(c.Query("threshold"), 0)

	items, total, err := h.detSvc.ScanForDuplicates(c.Request.Context(), tenantID(c), et, threshold, page, pageSize)
	if err != nil {
		status, code := statusFor(err, ErrCodeScanFailed)
		fail(c, status, code, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ScanDuplicatesResponse{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// statusFor maps service sentinel errors onto HTTP status and error code.
// Unknown errors surface as 500 with the supplied fallback code.
func statusFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, services.ErrUnknownEntityType),
		errors.Is(err, services.ErrInvalidThreshold),
		errors.Is(err, services.ErrSameRecord),
		errors.Is(err, services.ErrInvalidFieldSelection):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, services.ErrRecordNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, services.ErrMergeConflict):
		return http.StatusConflict, ErrCodeConflict
	default:
		return http.StatusInternalServerError, fallback
	}
}
