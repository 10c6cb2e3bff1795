// Merge and comparison HTTP handlers.
//
// This file exposes REST endpoints around the merge transaction:
//   - GET  /duplicates/merge-preview/{entityType}       (impact preview)
//   - POST /duplicates/merge/{entityType}               (execute merge)
//   - GET  /duplicates/{entityType}/{id}/comparison     (side-by-side view)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/metatechsoftware/globcrm-dedup/internal/services"
)

// MergeRequestBody is the JSON payload for executing a merge.
type MergeRequestBody struct {
	// SurvivorID is the record that remains active after the merge.
	SurvivorID string `json:"survivorId" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// LoserID is the record consumed by the merge.
	LoserID string `json:"loserId" binding:"required" example:"9c1f1f76-9671-4b2f-a839-63b1d04a0b4d"`
	// FieldSelections optionally copies chosen loser values onto the
	// survivor, keyed by mergeable field name.
	FieldSelections map[string]any `json:"fieldSelections,omitempty"`
}

// MergePreview godoc
// @ID          mergePreview
// @Summary     Preview a merge
// @Description Reports dependent-record counts that a merge of loserId into survivorId would transfer, without mutating anything.
// @Tags        Merges
// @Produce     json
//
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)"  example(tenant-a)
// @Param       entityType   path    string  true  "Entity type"  Enums(contacts, companies)
// @Param       survivorId   query   string  true  "Surviving record ID"
// @Param       loserId      query   string  true  "Record to be merged away"
//
// @Success     200  {object}  services.MergePreview
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Record not found or tombstoned"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /duplicates/merge-preview/{entityType} [get]
func (h *Handlers) MergePreview(c *gin.Context) {
	et, okET := entityType(c)
	if !okET {
		return
	}
	survivorID := strings.TrimSpace(c.Query("survivorId"))
	loserID := strings.TrimSpace(c.Query("loserId"))
	if survivorID == "" || loserID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "survivorId and loserId are required")
		return
	}

	preview, err := h.prvSvc.Preview(c.Request.Context(), tenantID(c), et, survivorID, loserID)
	if err != nil {
		status, code := statusFor(err, ErrCodePreviewFailed)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusOK, preview)
}

// Merge godoc
// @ID          mergeRecords
// @Summary     Merge two duplicate records
// @Description Atomically reparents every dependent record from the loser to the survivor, applies optional field selections, and tombstones the loser. Irreversible.
// @Tags        Merges
// @Accept      json
// @Produce     json
//
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)"  example(tenant-a)
// @Param       X-User-ID    header  string  false "Acting user ID"           example(user123)
// @Param       entityType   path    string  true  "Entity type"  Enums(contacts, companies)
// @Param       body         body    handlers.MergeRequestBody  true  "Merge payload"
//
// @Success     200  {object}  services.MergeResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Record not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Record already merged"
// @Failure     500  {object}  handlers.ErrorResponse  "Merge failed"
// @Router      /duplicates/merge/{entityType} [post]
func (h *Handlers) Merge(c *gin.Context) {
	et, okET := entityType(c)
	if !okET {
		return
	}
	var body MergeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "survivorId and loserId are required")
		return
	}

	result, err := h.mrgSvc.Merge(c.Request.Context(), services.MergeRequest{
		TenantID:        tenantID(c),
		EntityType:      et,
		SurvivorID:      body.SurvivorID,
		LoserID:         body.LoserID,
		ActingUserID:    userID(c),
		FieldSelections: body.FieldSelections,
	})
	if err != nil {
		status, code := statusFor(err, ErrCodeMergeFailed)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusOK, result)
}

// CompareRecords godoc
// @ID          compareRecords
// @Summary     Compare two records side by side
// @Description Returns full field views of both records, including tombstoned ones, for manual duplicate review.
// @Tags        Merges
// @Produce     json
//
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)"  example(tenant-a)
// @Param       entityType   path    string  true  "Entity type"  Enums(contacts, companies)
// @Param       id           path    string  true  "First record ID"
// @Param       otherId      query   string  true  "Second record ID"
//
// @Success     200  {object}  services.RecordComparison
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Record not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /duplicates/{entityType}/{id}/comparison [get]
func (h *Handlers) CompareRecords(c *gin.Context) {
	et, okET := entityType(c)
	if !okET {
		return
	}
	idA := c.Param("id")
	idB := strings.TrimSpace(c.Query("otherId"))
	if idB == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "otherId is required")
		return
	}

	cmp, err := h.prvSvc.Compare(c.Request.Context(), tenantID(c), et, idA, idB)
	if err != nil {
		status, code := statusFor(err, ErrCodePreviewFailed)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusOK, cmp)
}
