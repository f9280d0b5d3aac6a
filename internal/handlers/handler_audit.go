package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/middleware"
)

// auditHandler handles HTTP requests for the ledger integrity sweep.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(as portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: as}
}

// registerAuditRoutes registers audit routes
func registerAuditRoutes(group *gin.RouterGroup, as portssvc.AuditSvcFacade) {
	h := newAuditHandler(as)

	audit := group.Group("/audit")
	{
		audit.GET("/integrity", h.runIntegrityAudit)
	}
}

type auditQueryParams struct {
	Limit int `form:"limit,default=0"`
}

// runIntegrityAudit godoc
// @Summary Run the ledger integrity sweep
// @Description Read-only reconciliation of stored totals against live line sums. Drift is reported in the body, never as an error status.
// @Tags audit
// @Produce json
// @Param limit query int false "Max issues per category (capped server side)"
// @Success 200 {object} domain.IntegrityReport
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /audit/integrity [get]
func (h *auditHandler) runIntegrityAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params auditQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	report, err := h.auditService.RunIntegrityAudit(c.Request.Context(), identity.OrganizationID, identity, params.Limit)
	if err != nil {
		respondError(c, logger, err, "Failed to run integrity audit")
		return
	}

	c.JSON(http.StatusOK, report)
}
