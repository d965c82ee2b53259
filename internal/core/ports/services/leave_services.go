package services

import (
	"context"

	"github.com/vacaplanner/vacaplanner/internal/core/domain"
	"github.com/vacaplanner/vacaplanner/internal/dto"
)

// LeaveSvcFacade defines the leave request operations exposed to handlers.
type LeaveSvcFacade interface {
	CreateLeaveRequest(ctx context.Context, ownerUserID string, req dto.CreateLeaveRequest) (*domain.LeaveRequestDetail, error)
	// ListLeaveRequests returns requests visible to actorUserID, newest
	// first. Non-elevated callers are restricted to their own requests.
	ListLeaveRequests(ctx context.Context, actorUserID string, params dto.ListLeaveRequestsParams) ([]domain.LeaveRequestDetail, error)

	// ReviewLeaveRequest moves a PENDING request to APPROVED or REJECTED.
	// The reviewer must hold an elevated role. Approval applies the ledger
	// quantity to the owner's balance.
	ReviewLeaveRequest(ctx context.Context, reviewerUserID, requestID string, status domain.LeaveStatus) (*domain.LeaveRequest, error)

	// DeleteLeaveRequest removes a request owned by actorUserID. Deleting an
	// APPROVED request restores the owner's balance, floored at zero.
	DeleteLeaveRequest(ctx context.Context, actorUserID, requestID string) error
}
