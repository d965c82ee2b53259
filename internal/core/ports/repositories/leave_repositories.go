package repositories

import (
	"context"
	"time"

	"github.com/vacaplanner/vacaplanner/internal/core/domain"
	"github.com/vacaplanner/vacaplanner/internal/core/ledger"
)

// ListLeaveRequestsFilter narrows a leave request listing. Nil fields match
// everything.
type ListLeaveRequestsFilter struct {
	UserID *string
	Status *domain.LeaveStatus
}

// LeaveRequestRepository defines the persistence operations for LeaveRequests,
// including the transactional operations that keep the request status and the
// owner's balance counters consistent.
type LeaveRequestRepository interface {
	SaveLeaveRequest(ctx context.Context, req domain.LeaveRequest) error
	FindLeaveRequestByID(ctx context.Context, requestID string) (*domain.LeaveRequest, error)
	FindLeaveRequestDetailByID(ctx context.Context, requestID string) (*domain.LeaveRequestDetail, error)
	ListLeaveRequests(ctx context.Context, filter ListLeaveRequestsFilter) ([]domain.LeaveRequestDetail, error)

	// ApplyReview flips the request from PENDING to the terminal status and,
	// when delta is non-nil, adds it to the owner's used counter. Both
	// mutations happen in one database transaction; a request that is no
	// longer PENDING yields apperrors.ErrAlreadyReviewed.
	ApplyReview(ctx context.Context, requestID string, status domain.LeaveStatus, reviewerUserID string, reviewedAt time.Time, ownerUserID string, delta *ledger.Quantity) error

	// DeleteAndReverse removes the request and, when delta is non-nil,
	// subtracts it from the owner's used counter floored at zero, in one
	// database transaction. The delete only matches a row still in
	// observedStatus; a request whose status moved in the meantime yields
	// apperrors.ErrStaleStatus so the caller can re-read and recompute the
	// reversal.
	DeleteAndReverse(ctx context.Context, requestID string, ownerUserID string, observedStatus domain.LeaveStatus, delta *ledger.Quantity) error
}
