package dto

// RegisterRequest defines the payload to create an account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,min=2"`
}

// LoginRequest defines the credential login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest defines the data allowed for a profile self-edit.
// Pointers differentiate omitted fields from zero-value fields.
type UpdateUserRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	DateOfBirth *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	JobTitle    *string `json:"jobTitle"`
	Department  *string `json:"department"`
	Bio         *string `json:"bio"`
	PhoneNumber *string `json:"phoneNumber"`
	AvatarURL   *string `json:"avatarUrl" binding:"omitempty,url"`

	// Balance totals are self-editable; used counters are ledger-owned.
	VacationDaysTotal  *int `json:"vacationDaysTotal" binding:"omitempty,min=0"`
	PersonalHoursTotal *int `json:"personalHoursTotal" binding:"omitempty,min=0"`
}

// UpdateUserRoleRequest defines the payload for a role change.
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=USER MANAGER ADMIN"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}
