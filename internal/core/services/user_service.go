package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vacaplanner/vacaplanner/internal/apperrors"
	"github.com/vacaplanner/vacaplanner/internal/core/domain"
	portsrepo "github.com/vacaplanner/vacaplanner/internal/core/ports/repositories"
	portssvc "github.com/vacaplanner/vacaplanner/internal/core/ports/services"
	"github.com/vacaplanner/vacaplanner/internal/dto"
	"github.com/vacaplanner/vacaplanner/internal/platform/config"
	"github.com/vacaplanner/vacaplanner/internal/utils"
)

// userService provides user management operations.
type userService struct {
	userRepo portsrepo.UserRepository
	cfg      *config.Config
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepository, cfg *config.Config) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, cfg: cfg}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// Register creates a new user with default balances. The first registrant
// becomes ADMIN.
func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, bool, error) {
	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, false, apperrors.ErrDuplicate
	}

	count, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to count users: %w", err)
	}
	isFirstUser := count == 0

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()

	role := domain.RoleUser
	if isFirstUser {
		role = domain.RoleAdmin
	}

	user := domain.User{
		UserID:             newUserID,
		Email:              req.Email,
		PasswordHash:       passwordHash,
		Name:               req.Name,
		Role:               role,
		VacationDaysTotal:  s.cfg.DefaultVacationDays,
		VacationDaysUsed:   decimal.Zero,
		PersonalHoursTotal: s.cfg.DefaultPersonalHours,
		PersonalHoursUsed:  decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		// A concurrent registration with the same email surfaces here as a
		// unique violation.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, false, apperrors.ErrDuplicate
		}
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, isFirstUser, nil
}

// Authenticate verifies email/password credentials.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up user for authentication: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrForbidden
	}
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile applies a self-edit of profile fields and balance totals.
// Used counters are never touched here; only the ledger mutates them.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for update: %w", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.DateOfBirth != nil {
		user.DateOfBirth = req.DateOfBirth
	}
	if req.JobTitle != nil {
		user.JobTitle = req.JobTitle
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.AvatarURL != nil {
		if *req.AvatarURL == "" {
			user.AvatarURL = nil
		} else {
			user.AvatarURL = req.AvatarURL
		}
	}
	if req.VacationDaysTotal != nil {
		user.VacationDaysTotal = *req.VacationDaysTotal
	}
	if req.PersonalHoursTotal != nil {
		user.PersonalHoursTotal = *req.PersonalHoursTotal
	}

	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = userID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UpdateRole changes the target user's role; the actor must be elevated.
func (s *userService) UpdateRole(ctx context.Context, actorUserID, targetUserID string, role domain.UserRole) error {
	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return fmt.Errorf("failed to load acting user: %w", err)
	}
	if !actor.Role.IsElevated() {
		return apperrors.ErrForbidden
	}
	if !role.IsValid() {
		return apperrors.ErrValidation
	}
	if err := s.userRepo.UpdateUserRole(ctx, targetUserID, role, actorUserID, time.Now()); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return nil
}

// FindOrCreateOAuthUser resolves a Google sign-in to a local user, creating
// one with an unusable password on first sign-in.
func (s *userService) FindOrCreateOAuthUser(ctx context.Context, email, name string, avatarURL *string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up oauth user: %w", err)
	}

	// Credential login stays impossible for OAuth-created accounts since the
	// random password is discarded.
	randomSecret, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder password: %w", err)
	}
	passwordHash, err := utils.HashPassword(randomSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	count, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	role := domain.RoleUser
	if count == 0 {
		role = domain.RoleAdmin
	}

	now := time.Now()
	newUserID := uuid.NewString()
	newUser := domain.User{
		UserID:             newUserID,
		Email:              email,
		PasswordHash:       passwordHash,
		Name:               name,
		Role:               role,
		AvatarURL:          avatarURL,
		VacationDaysTotal:  s.cfg.DefaultVacationDays,
		VacationDaysUsed:   decimal.Zero,
		PersonalHoursTotal: s.cfg.DefaultPersonalHours,
		PersonalHoursUsed:  decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}
	return &newUser, nil
}

func (s *userService) StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string, expiry time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, tokenHash, expiry)
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.ClearRefreshToken(ctx, userID)
}
