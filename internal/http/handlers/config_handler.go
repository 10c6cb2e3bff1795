// Matching configuration HTTP handlers.
//
// Tenant admins read and update the similarity threshold and the
// auto-detection toggle per entity type:
//   - GET /duplicates/config/{entityType}
//   - PUT /duplicates/config/{entityType}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UpdateMatchingConfigRequest is the JSON payload for updating a tenant's
// matching settings.
type UpdateMatchingConfigRequest struct {
	// SimilarityThreshold is the minimum score (0-100) for a match.
	SimilarityThreshold *int `json:"similarityThreshold" binding:"required" example:"70"`
	// AutoDetectionEnabled toggles the real-time duplicate check.
	AutoDetectionEnabled *bool `json:"autoDetectionEnabled" binding:"required" example:"true"`
}

// GetMatchingConfig godoc
// @ID          getMatchingConfig
// @Summary     Read matching configuration
// @Description Returns the tenant's similarity threshold and auto-detection toggle for the entity type, or the defaults when none was saved.
// @Tags        Configuration
// @Produce     json
//
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)"  example(tenant-a)
// @Param       entityType   path    string  true  "Entity type"  Enums(contacts, companies)
//
// @Success     200  {object}  domain.MatchingConfig
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /duplicates/config/{entityType} [get]
func (h *Handlers) GetMatchingConfig(c *gin.Context) {
	et, okET := entityType(c)
	if !okET {
		return
	}
	cfg, err := h.cfgSvc.Get(c.Request.Context(), tenantID(c), et)
	if err != nil {
		status, code := statusFor(err, ErrCodeInternal)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusOK, cfg)
}

// UpdateMatchingConfig godoc
// @ID          updateMatchingConfig
// @Summary     Update matching configuration
// @Description Saves the tenant's similarity threshold (0-100) and auto-detection toggle for the entity type.
// @Tags        Configuration
// @Accept      json
// @Produce     json
//
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)"  example(tenant-a)
// @Param       entityType   path    string  true  "Entity type"  Enums(contacts, companies)
// @Param       body         body    handlers.UpdateMatchingConfigRequest  true  "New settings"
//
// @Success     200  {object}  domain.MatchingConfig
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /duplicates/config/{entityType} [put]
func (h *Handlers) UpdateMatchingConfig(c *gin.Context) {
	et, okET := entityType(c)
	if !okET {
		return
	}
	var req UpdateMatchingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "similarityThreshold and autoDetectionEnabled are required")
		return
	}

	cfg, err := h.cfgSvc.Update(c.Request.Context(), tenantID(c), et, *req.SimilarityThreshold, *req.AutoDetectionEnabled)
	if err != nil {
		status, code := statusFor(err, ErrCodeInternal)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusOK, cfg)
}
