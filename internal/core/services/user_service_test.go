package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vacaplanner/vacaplanner/internal/apperrors"
	"github.com/vacaplanner/vacaplanner/internal/core/domain"
	portssvc "github.com/vacaplanner/vacaplanner/internal/core/ports/services"
	"github.com/vacaplanner/vacaplanner/internal/core/services"
	"github.com/vacaplanner/vacaplanner/internal/dto"
	"github.com/vacaplanner/vacaplanner/internal/platform/config"
	"github.com/vacaplanner/vacaplanner/internal/utils"
)

// --- Mock UserRepository (based on UserService usage) ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUserRole(ctx context.Context, userID string, role domain.UserRole, updaterUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, role, updaterUserID, updatedAt)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	cfg := &config.Config{
		DefaultVacationDays:  22,
		DefaultPersonalHours: 32,
	}
	suite.service = services.NewUserService(suite.mockUserRepo, cfg)
}

// --- Register Tests ---

func (suite *UserServiceTestSuite) TestRegister_FirstUserBecomesAdmin() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Email:    "mario.rossi@example.com",
		Password: "password123",
		Name:     "Mario Rossi",
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("CountUsers", ctx).Return(int64(0), nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == req.Email &&
			user.Name == req.Name &&
			user.Role == domain.RoleAdmin &&
			user.PasswordHash != req.Password &&
			user.VacationDaysTotal == 22 &&
			user.PersonalHoursTotal == 32 &&
			user.VacationDaysUsed.IsZero() &&
			user.PersonalHoursUsed.IsZero()
	})).Return(nil).Once()

	user, isAdmin, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.True(isAdmin)
	suite.Equal(domain.RoleAdmin, user.Role)
	suite.NotEmpty(user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_SubsequentUserIsRegular() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Email:    "anna.verdi@example.com",
		Password: "password123",
		Name:     "Anna Verdi",
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("CountUsers", ctx).Return(int64(3), nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	user, isAdmin, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.False(isAdmin)
	suite.Equal(domain.RoleUser, user.Role)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Email:    "mario.rossi@example.com",
		Password: "password123",
		Name:     "Mario Rossi",
	}
	existing := &domain.User{UserID: uuid.NewString(), Email: req.Email}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(existing, nil).Once()

	user, isAdmin, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.False(isAdmin)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegister_ConcurrentDuplicateSurfacesFromSave() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Email:    "mario.rossi@example.com",
		Password: "password123",
		Name:     "Mario Rossi",
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("CountUsers", ctx).Return(int64(1), nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	user, _, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- Authenticate Tests ---

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	password := "password123"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	storedUser := &domain.User{UserID: uuid.NewString(), Email: "mario.rossi@example.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, storedUser.Email).Return(storedUser, nil).Once()

	user, err := suite.service.Authenticate(ctx, storedUser.Email, password)

	suite.Require().NoError(err)
	suite.Equal(storedUser.UserID, user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-password")
	suite.Require().NoError(err)
	storedUser := &domain.User{UserID: uuid.NewString(), Email: "mario.rossi@example.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, storedUser.Email).Return(storedUser, nil).Once()

	user, err := suite.service.Authenticate(ctx, storedUser.Email, "wrong-password")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownEmail() {
	ctx := context.Background()
	email := "nobody@example.com"

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.Authenticate(ctx, email, "password123")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- UpdateProfile Tests ---

func (suite *UserServiceTestSuite) TestUpdateProfile_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	newName := "Mario R."
	jobTitle := "Backend Engineer"
	newTotal := 26
	req := dto.UpdateUserRequest{Name: &newName, JobTitle: &jobTitle, VacationDaysTotal: &newTotal}
	originalUser := &domain.User{
		UserID:            userID,
		Name:              "Mario Rossi",
		VacationDaysTotal: 22,
		AuditFields: domain.AuditFields{
			LastUpdatedAt: time.Now().Add(-time.Hour),
			LastUpdatedBy: "somebodyElse",
		},
	}
	originalTimestamp := originalUser.LastUpdatedAt

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(originalUser, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once().Run(func(args mock.Arguments) {
		userArg := args.Get(1).(domain.User)
		suite.Equal(userID, userArg.UserID)
		suite.Equal(newName, userArg.Name)
		suite.Require().NotNil(userArg.JobTitle)
		suite.Equal(jobTitle, *userArg.JobTitle)
		suite.Equal(newTotal, userArg.VacationDaysTotal)
		suite.Equal(userID, userArg.LastUpdatedBy)
		suite.True(userArg.LastUpdatedAt.After(originalTimestamp))
	})

	user, err := suite.service.UpdateProfile(ctx, userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal(newName, user.Name)
	suite.Equal(newTotal, user.VacationDaysTotal)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateProfile_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()
	newName := "Updated Name"
	req := dto.UpdateUserRequest{Name: &newName}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.UpdateProfile(ctx, userID, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

// --- UpdateRole Tests ---

func (suite *UserServiceTestSuite) TestUpdateRole_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	targetID := uuid.NewString()
	actor := &domain.User{UserID: actorID, Role: domain.RoleAdmin}

	suite.mockUserRepo.On("FindUserByID", ctx, actorID).Return(actor, nil).Once()
	suite.mockUserRepo.On("UpdateUserRole", ctx, targetID, domain.RoleManager, actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.UpdateRole(ctx, actorID, targetID, domain.RoleManager)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateRole_ForbiddenForRegularUser() {
	ctx := context.Background()
	actorID := uuid.NewString()
	targetID := uuid.NewString()
	actor := &domain.User{UserID: actorID, Role: domain.RoleUser}

	suite.mockUserRepo.On("FindUserByID", ctx, actorID).Return(actor, nil).Once()

	err := suite.service.UpdateRole(ctx, actorID, targetID, domain.RoleManager)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUserRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- FindOrCreateOAuthUser Tests ---

func (suite *UserServiceTestSuite) TestFindOrCreateOAuthUser_ExistingUser() {
	ctx := context.Background()
	existing := &domain.User{UserID: uuid.NewString(), Email: "mario.rossi@example.com"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, existing.Email).Return(existing, nil).Once()

	user, err := suite.service.FindOrCreateOAuthUser(ctx, existing.Email, "Mario Rossi", nil)

	suite.Require().NoError(err)
	suite.Equal(existing.UserID, user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestFindOrCreateOAuthUser_CreatesNewUser() {
	ctx := context.Background()
	email := "new.user@example.com"
	avatar := "https://example.com/avatar.png"

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("CountUsers", ctx).Return(int64(5), nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == email &&
			user.Role == domain.RoleUser &&
			user.PasswordHash != "" &&
			user.AvatarURL != nil && *user.AvatarURL == avatar
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateOAuthUser(ctx, email, "New User", &avatar)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal(email, user.Email)
	suite.Equal(22, user.VacationDaysTotal)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- ListUsers Tests ---

func (suite *UserServiceTestSuite) TestListUsers_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockUserRepo.On("FindUsers", ctx, 10, 0).Return(nil, expectedErr).Once()

	users, err := suite.service.ListUsers(ctx, 10, 0)

	suite.Require().Error(err)
	suite.Nil(users)
	suite.Contains(err.Error(), "failed to list users")
	suite.ErrorIs(err, expectedErr)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
