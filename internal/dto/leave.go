package dto

import (
	"time"

	"github.com/vacaplanner/vacaplanner/internal/core/domain"
	"github.com/vacaplanner/vacaplanner/internal/core/ledger"
)

// CreateLeaveRequest defines the payload to submit a new leave request.
// StartTime/EndTime must be provided together; their pairing is checked at
// the service layer.
type CreateLeaveRequest struct {
	StartDate     string  `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate       string  `json:"endDate" binding:"required,datetime=2006-01-02"`
	Type          string  `json:"type" binding:"required,oneof=VACATION SICK PERSONAL"`
	Reason        *string `json:"reason"`
	HandoverNotes *string `json:"handoverNotes"`
	StartTime     *string `json:"startTime" binding:"omitempty,datetime=15:04"`
	EndTime       *string `json:"endTime" binding:"omitempty,datetime=15:04"`
}

// ListLeaveRequestsParams defines query parameters for listing leave requests.
type ListLeaveRequestsParams struct {
	UserID string `form:"userId" binding:"omitempty,uuid"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

// ReviewLeaveRequest defines the payload for the approve/reject transition.
type ReviewLeaveRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

// UserSummaryResponse is the owner/reviewer slice embedded in listings.
type UserSummaryResponse struct {
	UserID            string  `json:"userID"`
	Name              string  `json:"name"`
	FirstName         *string `json:"firstName,omitempty"`
	LastName          *string `json:"lastName,omitempty"`
	AvatarURL         *string `json:"avatarUrl,omitempty"`
	VacationDaysTotal int     `json:"vacationDaysTotal"`
}

// LeaveRequestResponse is the caller-facing projection of a leave request.
type LeaveRequestResponse struct {
	RequestID     string               `json:"requestID"`
	UserID        string               `json:"userID"`
	StartDate     string               `json:"startDate"`
	EndDate       string               `json:"endDate"`
	StartTime     *string              `json:"startTime,omitempty"`
	EndTime       *string              `json:"endTime,omitempty"`
	Type          domain.LeaveType     `json:"type"`
	Status        domain.LeaveStatus   `json:"status"`
	Reason        *string              `json:"reason,omitempty"`
	HandoverNotes *string              `json:"handoverNotes,omitempty"`
	DayPart       *string              `json:"dayPart,omitempty"` // "Mattina" or "Pomeriggio" for half-day vacation
	ReviewedBy    *string              `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time           `json:"reviewedAt,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	User          *UserSummaryResponse `json:"user,omitempty"`
	Reviewer      *UserSummaryResponse `json:"reviewer,omitempty"`
}

const dateLayout = "2006-01-02"

func toUserSummaryResponse(s domain.UserSummary) *UserSummaryResponse {
	return &UserSummaryResponse{
		UserID:            s.UserID,
		Name:              s.Name,
		FirstName:         s.FirstName,
		LastName:          s.LastName,
		AvatarURL:         s.AvatarURL,
		VacationDaysTotal: s.VacationDaysTotal,
	}
}

// ToLeaveRequestResponse converts a joined leave request to its response DTO.
func ToLeaveRequestResponse(detail domain.LeaveRequestDetail) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		RequestID:     detail.RequestID,
		UserID:        detail.UserID,
		StartDate:     detail.StartDate.Format(dateLayout),
		EndDate:       detail.EndDate.Format(dateLayout),
		StartTime:     detail.StartTime,
		EndTime:       detail.EndTime,
		Type:          detail.Type,
		Status:        detail.Status,
		Reason:        detail.Reason,
		HandoverNotes: detail.HandoverNotes,
		ReviewedBy:    detail.ReviewedBy,
		ReviewedAt:    detail.ReviewedAt,
		CreatedAt:     detail.CreatedAt,
		User:          toUserSummaryResponse(detail.User),
	}
	if detail.Reviewer != nil {
		resp.Reviewer = toUserSummaryResponse(*detail.Reviewer)
	}
	if label := ledger.DayPartLabel(detail.LeaveRequest); label != "" {
		resp.DayPart = &label
	}
	return resp
}

// ToListLeaveRequestsResponse converts a listing to response DTOs.
func ToListLeaveRequestsResponse(details []domain.LeaveRequestDetail) []LeaveRequestResponse {
	responses := make([]LeaveRequestResponse, len(details))
	for i, d := range details {
		responses[i] = ToLeaveRequestResponse(d)
	}
	return responses
}
