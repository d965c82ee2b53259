package services

import (
	"context"
	"time"

	"github.com/vacaplanner/vacaplanner/internal/core/domain"
	"github.com/vacaplanner/vacaplanner/internal/dto"
)

// UserSvcFacade defines the user management operations exposed to handlers
// and to the other services.
type UserSvcFacade interface {
	// Register creates a user from a registration request. The boolean is
	// true when the new user is the first registrant and was made ADMIN.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, bool, error)

	// Authenticate verifies email/password credentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)

	// UpdateProfile applies a self-edit of profile fields and balance totals.
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// UpdateRole changes the target user's role. The actor must hold an
	// elevated role.
	UpdateRole(ctx context.Context, actorUserID, targetUserID string, role domain.UserRole) error

	// FindOrCreateOAuthUser resolves a Google sign-in to a local user,
	// creating one on first sign-in.
	FindOrCreateOAuthUser(ctx context.Context, email, name string, avatarURL *string) (*domain.User, error)

	// Refresh-token persistence, used by the token service.
	StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string, expiry time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
}
