package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// User is the storage shape of a user row.
type User struct {
	UserID       string `db:"user_id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Name         string `db:"name"`
	Role         string `db:"role"`

	FirstName   sql.NullString `db:"first_name"`
	LastName    sql.NullString `db:"last_name"`
	DateOfBirth sql.NullString `db:"date_of_birth"`
	JobTitle    sql.NullString `db:"job_title"`
	Department  sql.NullString `db:"department"`
	Bio         sql.NullString `db:"bio"`
	PhoneNumber sql.NullString `db:"phone_number"`
	AvatarURL   sql.NullString `db:"avatar_url"`

	// Used counters are NUMERIC(6,2) so half-day and fractional-hour
	// quantities survive storage exactly.
	VacationDaysTotal  int             `db:"vacation_days_total"`
	VacationDaysUsed   decimal.Decimal `db:"vacation_days_used"`
	PersonalHoursTotal int             `db:"personal_hours_total"`
	PersonalHoursUsed  decimal.Decimal `db:"personal_hours_used"`

	AuditFields

	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}

// AuditFields holds the audit columns shared by all tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}
