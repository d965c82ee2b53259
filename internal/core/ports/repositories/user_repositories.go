package repositories

import (
	"context"
	"time"

	"github.com/vacaplanner/vacaplanner/internal/core/domain"
)

// UserRepository defines the persistence operations for Users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
	UpdateUser(ctx context.Context, user domain.User) error
	UpdateUserRole(ctx context.Context, userID string, role domain.UserRole, updaterUserID string, updatedAt time.Time) error
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
}
