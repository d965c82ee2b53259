package domain

import "time"

// LeaveType defines the kinds of absence a request can claim.
type LeaveType string

const (
	LeaveTypeVacation LeaveType = "VACATION"
	LeaveTypeSick     LeaveType = "SICK"
	LeaveTypePersonal LeaveType = "PERSONAL"
)

// IsValid reports whether the leave type is one of the known types.
func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveTypeVacation, LeaveTypeSick, LeaveTypePersonal:
		return true
	}
	return false
}

// LeaveStatus defines the lifecycle states of a leave request.
// A request is created PENDING and transitions to APPROVED or REJECTED
// exactly once.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"
	LeaveStatusApproved LeaveStatus = "APPROVED"
	LeaveStatusRejected LeaveStatus = "REJECTED"
)

// IsTerminal reports whether the status is a final review outcome.
func (s LeaveStatus) IsTerminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

// LeaveRequest represents a user's claim to be absent over an inclusive date
// range, optionally narrowed to a clock-time range within a day.
type LeaveRequest struct {
	RequestID string    `json:"requestID"` // Primary Key (UUID)
	UserID    string    `json:"userID"`    // FK -> users.user_id
	StartDate time.Time `json:"startDate"` // date component only, inclusive
	EndDate   time.Time `json:"endDate"`   // date component only, inclusive

	// StartTime/EndTime are HH:mm clock times. Both set marks a partial-day
	// request; they are never set individually.
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`

	Type          LeaveType   `json:"type"`
	Status        LeaveStatus `json:"status"`
	Reason        *string     `json:"reason,omitempty"`
	HandoverNotes *string     `json:"handoverNotes,omitempty"`

	ReviewedBy *string    `json:"reviewedBy,omitempty"` // FK -> users.user_id
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`

	AuditFields
}

// IsPartialDay reports whether the request carries a clock-time range.
func (r LeaveRequest) IsPartialDay() bool {
	return r.StartTime != nil && r.EndTime != nil
}

// UserSummary is the slice of a user embedded in leave request listings.
type UserSummary struct {
	UserID            string  `json:"userID"`
	Name              string  `json:"name"`
	FirstName         *string `json:"firstName,omitempty"`
	LastName          *string `json:"lastName,omitempty"`
	AvatarURL         *string `json:"avatarUrl,omitempty"`
	VacationDaysTotal int     `json:"vacationDaysTotal"`
}

// LeaveRequestDetail is a leave request joined with its owner and reviewer.
type LeaveRequestDetail struct {
	LeaveRequest
	User     UserSummary  `json:"user"`
	Reviewer *UserSummary `json:"reviewer,omitempty"`
}
