package models

import (
	"database/sql"
	"time"
)

// LeaveRequest is the storage shape of a leave request row.
type LeaveRequest struct {
	RequestID string    `db:"request_id"`
	UserID    string    `db:"user_id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`

	StartTime sql.NullString `db:"start_time"` // HH:mm
	EndTime   sql.NullString `db:"end_time"`   // HH:mm

	Type          string         `db:"type"`
	Status        string         `db:"status"`
	Reason        sql.NullString `db:"reason"`
	HandoverNotes sql.NullString `db:"handover_notes"`

	ReviewedBy sql.NullString `db:"reviewed_by"`
	ReviewedAt sql.NullTime   `db:"reviewed_at"`

	AuditFields
}
