package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vacaplanner/vacaplanner/internal/apperrors"
	"github.com/vacaplanner/vacaplanner/internal/core/domain"
	"github.com/vacaplanner/vacaplanner/internal/core/ledger"
	portsrepo "github.com/vacaplanner/vacaplanner/internal/core/ports/repositories"
	portssvc "github.com/vacaplanner/vacaplanner/internal/core/ports/services"
	"github.com/vacaplanner/vacaplanner/internal/dto"
	"github.com/vacaplanner/vacaplanner/internal/middleware"
)

const dateLayout = "2006-01-02"

// leaveService provides leave request lifecycle operations.
type leaveService struct {
	leaveRepo portsrepo.LeaveRequestRepository
	userRepo  portsrepo.UserRepository
}

// NewLeaveService creates a new leave request service.
func NewLeaveService(leaveRepo portsrepo.LeaveRequestRepository, userRepo portsrepo.UserRepository) portssvc.LeaveSvcFacade {
	return &leaveService{leaveRepo: leaveRepo, userRepo: userRepo}
}

var _ portssvc.LeaveSvcFacade = (*leaveService)(nil)

// CreateLeaveRequest validates and stores a new PENDING request owned by
// ownerUserID.
func (s *leaveService) CreateLeaveRequest(ctx context.Context, ownerUserID string, req dto.CreateLeaveRequest) (*domain.LeaveRequestDetail, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Data di inizio non valida")
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Data di fine non valida")
	}
	if endDate.Before(startDate) {
		return nil, apperrors.NewBadRequestError("La data di fine precede la data di inizio")
	}

	hasStart := req.StartTime != nil && *req.StartTime != ""
	hasEnd := req.EndTime != nil && *req.EndTime != ""
	if hasStart != hasEnd {
		return nil, apperrors.NewBadRequestError("Specificare entrambi gli orari oppure nessuno")
	}

	leaveType := domain.LeaveType(req.Type)
	if !leaveType.IsValid() {
		return nil, apperrors.NewBadRequestError("Tipo di richiesta non valido")
	}

	now := time.Now()
	request := domain.LeaveRequest{
		RequestID: uuid.NewString(),
		UserID:    ownerUserID,
		StartDate: startDate,
		EndDate:   endDate,
		Type:      leaveType,
		Status:    domain.LeaveStatusPending,
		Reason:    req.Reason,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerUserID,
		},
	}
	if hasStart {
		request.StartTime = req.StartTime
		request.EndTime = req.EndTime
	}
	request.HandoverNotes = req.HandoverNotes

	// Compute now so malformed requests are rejected at creation instead of
	// surfacing at review time.
	if _, err := ledger.Compute(request); err != nil {
		return nil, apperrors.NewBadRequestError("Richiesta non computabile: " + err.Error())
	}

	if err := s.leaveRepo.SaveLeaveRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save leave request: %w", err)
	}

	detail, err := s.leaveRepo.FindLeaveRequestDetailByID(ctx, request.RequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created leave request: %w", err)
	}
	return detail, nil
}

// ListLeaveRequests returns requests matching the filter, newest first.
// Non-elevated callers only ever see their own requests.
func (s *leaveService) ListLeaveRequests(ctx context.Context, actorUserID string, params dto.ListLeaveRequestsParams) ([]domain.LeaveRequestDetail, error) {
	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting user: %w", err)
	}

	filter := portsrepo.ListLeaveRequestsFilter{}
	if !actor.Role.IsElevated() {
		filter.UserID = &actorUserID
	} else if params.UserID != "" {
		userID := params.UserID
		filter.UserID = &userID
	}
	if params.Status != "" {
		status := domain.LeaveStatus(params.Status)
		filter.Status = &status
	}

	details, err := s.leaveRepo.ListLeaveRequests(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return details, nil
}

// ReviewLeaveRequest approves or rejects a PENDING request. Approval charges
// the owner's balance in the same transaction as the status flip.
func (s *leaveService) ReviewLeaveRequest(ctx context.Context, reviewerUserID, requestID string, status domain.LeaveStatus) (*domain.LeaveRequest, error) {
	reviewer, err := s.userRepo.FindUserByID(ctx, reviewerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviewing user: %w", err)
	}
	if !reviewer.Role.IsElevated() {
		return nil, apperrors.ErrForbidden
	}
	if !status.IsTerminal() {
		return nil, apperrors.ErrValidation
	}

	request, err := s.leaveRepo.FindLeaveRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load leave request: %w", err)
	}
	if request.Status != domain.LeaveStatusPending {
		return nil, apperrors.ErrAlreadyReviewed
	}

	var delta *ledger.Quantity
	if status == domain.LeaveStatusApproved {
		quantity, err := ledger.Compute(*request)
		if err != nil {
			return nil, fmt.Errorf("failed to compute leave quantity: %w", err)
		}
		delta = &quantity
	}

	reviewedAt := time.Now()
	if err := s.leaveRepo.ApplyReview(ctx, requestID, status, reviewerUserID, reviewedAt, request.UserID, delta); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyReviewed) {
			// Lost the race against a concurrent reviewer.
			return nil, apperrors.ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to apply review: %w", err)
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("leave request reviewed",
		"request_id", requestID,
		"status", string(status),
		"reviewer_id", reviewerUserID,
	)

	request.Status = status
	request.ReviewedBy = &reviewerUserID
	request.ReviewedAt = &reviewedAt
	request.LastUpdatedAt = reviewedAt
	request.LastUpdatedBy = reviewerUserID
	return request, nil
}

// deleteRetries bounds the re-reads when a concurrent review moves the
// request's status between the snapshot and the delete.
const deleteRetries = 3

// DeleteLeaveRequest removes the caller's own request. Deleting an APPROVED
// request refunds the charged balance in the same transaction. The reversal
// delta is computed from a status snapshot; when a concurrent review
// invalidates the snapshot the repository reports it and the delete is
// retried with a fresh read, so an approval racing the delete can never
// leave the counter charged for a vanished request.
func (s *leaveService) DeleteLeaveRequest(ctx context.Context, actorUserID, requestID string) error {
	var reversed bool
	for attempt := 0; ; attempt++ {
		request, err := s.leaveRepo.FindLeaveRequestByID(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to load leave request: %w", err)
		}
		if request.UserID != actorUserID {
			return apperrors.ErrForbidden
		}

		var delta *ledger.Quantity
		if request.Status == domain.LeaveStatusApproved {
			quantity, err := ledger.Compute(*request)
			if err != nil {
				return fmt.Errorf("failed to compute leave quantity for reversal: %w", err)
			}
			delta = &quantity
		}

		err = s.leaveRepo.DeleteAndReverse(ctx, requestID, request.UserID, request.Status, delta)
		if errors.Is(err, apperrors.ErrStaleStatus) && attempt < deleteRetries {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to delete leave request: %w", err)
		}
		reversed = delta != nil
		break
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("leave request deleted",
		"request_id", requestID,
		"owner_id", actorUserID,
		"reversed", reversed,
	)
	return nil
}
