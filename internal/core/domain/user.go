package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole defines the possible roles a user can have in the application.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleUser    UserRole = "USER"
)

// IsElevated reports whether the role may review leave requests and change roles.
func (r UserRole) IsElevated() bool {
	return r == RoleAdmin || r == RoleManager
}

// IsValid reports whether the role is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// User represents an employee in the domain, including the leave balance
// counters mutated by the ledger. Used counters are decimals because half-day
// vacation and fractional-hour requests produce exact fractional quantities.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (UUID)
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Name         string   `json:"name"`
	Role         UserRole `json:"role"`

	// Optional profile fields.
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	JobTitle    *string `json:"jobTitle,omitempty"`
	Department  *string `json:"department,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`

	// Leave balances. Totals are whole allowances; used counters accumulate
	// ledger quantities and may hold fractional values.
	VacationDaysTotal  int             `json:"vacationDaysTotal"`
	VacationDaysUsed   decimal.Decimal `json:"vacationDaysUsed"`
	PersonalHoursTotal int             `json:"personalHoursTotal"`
	PersonalHoursUsed  decimal.Decimal `json:"personalHoursUsed"`

	AuditFields

	// Refresh token state for session management.
	RefreshTokenHash       *string    `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// GoogleUserInfo holds the user information returned by the Google userinfo
// endpoint during OAuth sign-in.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
