package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vacaplanner/vacaplanner/internal/apperrors"
	"github.com/vacaplanner/vacaplanner/internal/core/domain"
	portssvc "github.com/vacaplanner/vacaplanner/internal/core/ports/services"
	"github.com/vacaplanner/vacaplanner/internal/dto"
	"github.com/vacaplanner/vacaplanner/internal/middleware"
)

// leaveHandler handles HTTP requests for leave requests.
type leaveHandler struct {
	leaveService portssvc.LeaveSvcFacade
}

// newLeaveHandler creates a new leaveHandler.
func newLeaveHandler(ls portssvc.LeaveSvcFacade) *leaveHandler {
	return &leaveHandler{
		leaveService: ls,
	}
}

// RegisterLeaveRoutes registers all leave request routes.
func RegisterLeaveRoutes(rg *gin.RouterGroup, leaveService portssvc.LeaveSvcFacade) {
	h := newLeaveHandler(leaveService)

	leaves := rg.Group("/leave-requests")
	{
		leaves.GET("", h.listLeaveRequests)
		leaves.POST("", h.createLeaveRequest)
		leaves.PATCH("/:id", h.reviewLeaveRequest)
		leaves.DELETE("/:id", h.deleteLeaveRequest)
	}
}

// listLeaveRequests godoc
// @Summary List leave requests
// @Description Lists leave requests with owner and reviewer details, newest first. Regular users only see their own requests; managers and admins may filter by user and status.
// @Tags leave-requests
// @Produce json
// @Param userId query string false "Filter by owner user ID (elevated roles only)"
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED)
// @Success 200 {array} dto.LeaveRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /leave-requests [get]
func (h *leaveHandler) listLeaveRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Non autorizzato"})
		return
	}

	var params dto.ListLeaveRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Parametri di ricerca non validi: " + err.Error()})
		return
	}

	details, err := h.leaveService.ListLeaveRequests(c.Request.Context(), actorUserID, params)
	if err != nil {
		logger.Error("Failed to list leave requests", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Recupero delle richieste non riuscito"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListLeaveRequestsResponse(details))
}

// createLeaveRequest godoc
// @Summary Submit a leave request
// @Description Creates a new PENDING leave request for the authenticated user. Optional HH:mm times narrow the request to part of a day and must be provided together.
// @Tags leave-requests
// @Accept json
// @Produce json
// @Param request body dto.CreateLeaveRequest true "Leave request"
// @Success 201 {object} dto.LeaveRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /leave-requests [post]
func (h *leaveHandler) createLeaveRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Non autorizzato"})
		return
	}

	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Dati della richiesta non validi: " + err.Error()})
		return
	}

	detail, err := h.leaveService.CreateLeaveRequest(c.Request.Context(), ownerUserID, req)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
			return
		}
		logger.Error("Failed to create leave request", slog.String("error", err.Error()), slog.String("user_id", ownerUserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Creazione della richiesta non riuscita"})
		return
	}

	logger.Info("Leave request created", slog.String("request_id", detail.RequestID), slog.String("user_id", ownerUserID))
	c.JSON(http.StatusCreated, dto.ToLeaveRequestResponse(*detail))
}

// reviewLeaveRequest godoc
// @Summary Approve or reject a leave request
// @Description Moves a PENDING request to APPROVED or REJECTED. Requires MANAGER or ADMIN. Approval charges the owner's balance atomically with the status change.
// @Tags leave-requests
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param review body dto.ReviewLeaveRequest true "Review outcome"
// @Success 200 {object} domain.LeaveRequest
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Request already reviewed"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /leave-requests/{id} [patch]
func (h *leaveHandler) reviewLeaveRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	reviewerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Non autorizzato"})
		return
	}

	var req dto.ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Stato non valido: ammessi APPROVED e REJECTED"})
		return
	}

	updated, err := h.leaveService.ReviewLeaveRequest(c.Request.Context(), reviewerUserID, requestID, domain.LeaveStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Operazione riservata a manager e amministratori"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Richiesta non trovata"})
		case errors.Is(err, apperrors.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Richiesta già revisionata"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Stato non valido: ammessi APPROVED e REJECTED"})
		default:
			logger.Error("Failed to review leave request", slog.String("error", err.Error()), slog.String("request_id", requestID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Revisione della richiesta non riuscita"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// deleteLeaveRequest godoc
// @Summary Delete a leave request
// @Description Deletes the caller's own request in any status. Deleting an APPROVED request restores the charged balance.
// @Tags leave-requests
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /leave-requests/{id} [delete]
func (h *leaveHandler) deleteLeaveRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Non autorizzato"})
		return
	}

	if err := h.leaveService.DeleteLeaveRequest(c.Request.Context(), actorUserID, requestID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "È possibile eliminare solo le proprie richieste"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Richiesta non trovata"})
		case errors.Is(err, apperrors.ErrStaleStatus):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Richiesta modificata da un'altra operazione, riprovare"})
		default:
			logger.Error("Failed to delete leave request", slog.String("error", err.Error()), slog.String("request_id", requestID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Eliminazione della richiesta non riuscita"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
