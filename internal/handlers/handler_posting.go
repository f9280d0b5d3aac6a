package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/dto"
	"github.com/openbooks-app/openbooks/internal/middleware"
)

// idempotencyHeader carries the client-chosen retry token for mutations.
const idempotencyHeader = "Idempotency-Key"

// postingHandler handles HTTP requests for ledger postings.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newPostingHandler(ps portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{postingService: ps}
}

// registerPostingRoutes registers posting engine routes
func registerPostingRoutes(group *gin.RouterGroup, ps portssvc.PostingSvcFacade) {
	h := newPostingHandler(ps)

	postings := group.Group("/postings")
	{
		postings.POST("", h.createPosting)
		postings.GET("", h.listPostings)
		postings.GET("/:headerID", h.getPosting)
		postings.POST("/:headerID/reverse", h.reversePosting)
	}
}

// createPosting godoc
// @Summary Commit a balanced posting
// @Description Validates candidate lines and commits them atomically. Retries carrying the same Idempotency-Key header replay the original response verbatim.
// @Tags postings
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client retry token"
// @Param posting body dto.CreatePostingRequest true "Posting"
// @Success 201 {object} dto.PostingResponse
// @Failure 400 {object} ErrorResponse "Unbalanced or malformed lines"
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Idempotency key reused with a different payload"
// @Router /postings [post]
func (h *postingHandler) createPosting(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreatePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	req.IdempotencyToken = c.GetHeader(idempotencyHeader)

	result, err := h.postingService.CreatePosting(c.Request.Context(), identity.OrganizationID, identity, req)
	if err != nil {
		respondError(c, logger, err, "Failed to commit posting")
		return
	}

	if result.Replayed {
		// The cached body is returned byte for byte with its original status.
		logger.Info("Posting replayed from idempotency cache")
		c.Data(result.StatusCode, "application/json", result.Raw)
		return
	}

	logger.Info("Posting committed", slog.String("header_id", result.Response.HeaderID))
	c.JSON(http.StatusCreated, result.Response)
}

// getPosting godoc
// @Summary Get a posting
// @Description Retrieves a posting header with its lines.
// @Tags postings
// @Produce json
// @Param headerID path string true "Header ID"
// @Success 200 {object} dto.GLHeaderResponse
// @Failure 404 {object} ErrorResponse
// @Router /postings/{headerID} [get]
func (h *postingHandler) getPosting(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	header, err := h.postingService.GetPosting(c.Request.Context(), identity.OrganizationID, identity, c.Param("headerID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve posting")
		return
	}

	c.JSON(http.StatusOK, dto.ToGLHeaderResponse(header))
}

// listPostings godoc
// @Summary List postings
// @Description Retrieves a page of posting headers, newest first, with token-based pagination.
// @Tags postings
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListPostingsResponse
// @Router /postings [get]
func (h *postingHandler) listPostings(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListPostingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	resp, err := h.postingService.ListPostings(c.Request.Context(), identity.OrganizationID, identity, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list postings")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// reversePosting godoc
// @Summary Reverse a posting
// @Description Creates a new balanced posting that nets the original's effect. The original header is never modified.
// @Tags postings
// @Produce json
// @Param headerID path string true "Header ID"
// @Success 201 {object} dto.PostingResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reversed, or target is itself a reversal"
// @Router /postings/{headerID}/reverse [post]
func (h *postingHandler) reversePosting(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.postingService.ReversePosting(c.Request.Context(), identity.OrganizationID, identity, c.Param("headerID"))
	if err != nil {
		respondError(c, logger, err, "Failed to reverse posting")
		return
	}

	logger.Info("Posting reversed", slog.String("reversal_header_id", resp.HeaderID))
	c.JSON(http.StatusCreated, resp)
}
