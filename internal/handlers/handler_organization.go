package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/dto"
	"github.com/openbooks-app/openbooks/internal/middleware"
)

// organizationHandler handles HTTP requests for organizations and memberships.
type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

func newOrganizationHandler(os portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{orgService: os}
}

// registerOrganizationRoutes registers organization specific routes
func registerOrganizationRoutes(group *gin.RouterGroup, os portssvc.OrganizationSvcFacade) {
	h := newOrganizationHandler(os)

	orgs := group.Group("/organizations")
	{
		orgs.POST("", h.createOrganization)
		orgs.GET("/current", h.getCurrentOrganization)
		orgs.GET("/current/membership", h.getCurrentMembership)
	}
}

// createOrganization godoc
// @Summary Create an organization
// @Description Creates a new organization, seeds its admin role, the caller's membership, and the system chart of accounts.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body dto.CreateOrganizationRequest true "Organization"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create organization")
		return
	}

	logger.Info("Organization created", slog.String("organization_id", org.OrganizationID))
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// getCurrentOrganization godoc
// @Summary Get the caller's organization
// @Description Returns the organization bound to the caller's token.
// @Tags organizations
// @Produce json
// @Success 200 {object} dto.OrganizationResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No organization selected"
// @Router /organizations/current [get]
func (h *organizationHandler) getCurrentOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	org, err := h.orgService.GetCurrentOrganization(c.Request.Context(), identity)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve organization")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// getCurrentMembership godoc
// @Summary Get the caller's membership
// @Description Returns the caller's live membership record in the selected organization.
// @Tags organizations
// @Produce json
// @Success 200 {object} dto.MembershipResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /organizations/current/membership [get]
func (h *organizationHandler) getCurrentMembership(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok || identity.OrganizationID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "No organization selected"})
		return
	}

	membership, err := h.orgService.GetMembershipForUser(c.Request.Context(), identity.OrganizationID, identity.UserID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve membership")
		return
	}

	c.JSON(http.StatusOK, dto.ToMembershipResponse(membership))
}
