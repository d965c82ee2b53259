package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vacaplanner/vacaplanner/internal/core/domain"
)

// UserResponse is the caller-facing projection of a user; the password hash
// and refresh token state never leave the service.
type UserResponse struct {
	UserID             string          `json:"userID"`
	Email              string          `json:"email"`
	Name               string          `json:"name"`
	Role               domain.UserRole `json:"role"`
	FirstName          *string         `json:"firstName,omitempty"`
	LastName           *string         `json:"lastName,omitempty"`
	DateOfBirth        *string         `json:"dateOfBirth,omitempty"`
	JobTitle           *string         `json:"jobTitle,omitempty"`
	Department         *string         `json:"department,omitempty"`
	Bio                *string         `json:"bio,omitempty"`
	PhoneNumber        *string         `json:"phoneNumber,omitempty"`
	AvatarURL          *string         `json:"avatarUrl,omitempty"`
	VacationDaysTotal  int             `json:"vacationDaysTotal"`
	VacationDaysUsed   decimal.Decimal `json:"vacationDaysUsed"`
	PersonalHoursTotal int             `json:"personalHoursTotal"`
	PersonalHoursUsed  decimal.Decimal `json:"personalHoursUsed"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ToUserResponse converts a domain.User to its response DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:             user.UserID,
		Email:              user.Email,
		Name:               user.Name,
		Role:               user.Role,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		DateOfBirth:        user.DateOfBirth,
		JobTitle:           user.JobTitle,
		Department:         user.Department,
		Bio:                user.Bio,
		PhoneNumber:        user.PhoneNumber,
		AvatarURL:          user.AvatarURL,
		VacationDaysTotal:  user.VacationDaysTotal,
		VacationDaysUsed:   user.VacationDaysUsed,
		PersonalHoursTotal: user.PersonalHoursTotal,
		PersonalHoursUsed:  user.PersonalHoursUsed,
		CreatedAt:          user.CreatedAt,
	}
}

// ListUsersResponse wraps the user directory listing.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to ListUsersResponse.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: userResponses}
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	IsAdmin bool         `json:"isAdmin"`
}
