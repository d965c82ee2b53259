package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vacaplanner/vacaplanner/internal/apperrors"
	"github.com/vacaplanner/vacaplanner/internal/core/domain"
	"github.com/vacaplanner/vacaplanner/internal/core/ledger"
	portsrepo "github.com/vacaplanner/vacaplanner/internal/core/ports/repositories"
	portssvc "github.com/vacaplanner/vacaplanner/internal/core/ports/services"
	"github.com/vacaplanner/vacaplanner/internal/core/services"
	"github.com/vacaplanner/vacaplanner/internal/dto"
)

// --- Mock LeaveRequestRepository ---
type MockLeaveRequestRepository struct {
	mock.Mock
}

func (m *MockLeaveRequestRepository) SaveLeaveRequest(ctx context.Context, req domain.LeaveRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockLeaveRequestRepository) FindLeaveRequestByID(ctx context.Context, requestID string) (*domain.LeaveRequest, error) {
	args := m.Called(ctx, requestID)
	var req *domain.LeaveRequest
	if args.Get(0) != nil {
		req = args.Get(0).(*domain.LeaveRequest)
	}
	return req, args.Error(1)
}

func (m *MockLeaveRequestRepository) FindLeaveRequestDetailByID(ctx context.Context, requestID string) (*domain.LeaveRequestDetail, error) {
	args := m.Called(ctx, requestID)
	var detail *domain.LeaveRequestDetail
	if args.Get(0) != nil {
		detail = args.Get(0).(*domain.LeaveRequestDetail)
	}
	return detail, args.Error(1)
}

func (m *MockLeaveRequestRepository) ListLeaveRequests(ctx context.Context, filter portsrepo.ListLeaveRequestsFilter) ([]domain.LeaveRequestDetail, error) {
	args := m.Called(ctx, filter)
	var details []domain.LeaveRequestDetail
	if args.Get(0) != nil {
		details = args.Get(0).([]domain.LeaveRequestDetail)
	}
	return details, args.Error(1)
}

func (m *MockLeaveRequestRepository) ApplyReview(ctx context.Context, requestID string, status domain.LeaveStatus, reviewerUserID string, reviewedAt time.Time, ownerUserID string, delta *ledger.Quantity) error {
	args := m.Called(ctx, requestID, status, reviewerUserID, reviewedAt, ownerUserID, delta)
	return args.Error(0)
}

func (m *MockLeaveRequestRepository) DeleteAndReverse(ctx context.Context, requestID string, ownerUserID string, observedStatus domain.LeaveStatus, delta *ledger.Quantity) error {
	args := m.Called(ctx, requestID, ownerUserID, observedStatus, delta)
	return args.Error(0)
}

// --- Test Suite ---
type LeaveServiceTestSuite struct {
	suite.Suite
	mockLeaveRepo *MockLeaveRequestRepository
	mockUserRepo  *MockUserRepository
	service       portssvc.LeaveSvcFacade
}

func (suite *LeaveServiceTestSuite) SetupTest() {
	suite.mockLeaveRepo = new(MockLeaveRequestRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewLeaveService(suite.mockLeaveRepo, suite.mockUserRepo)
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

// --- CreateLeaveRequest Tests ---

func (suite *LeaveServiceTestSuite) TestCreateLeaveRequest_Success() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	req := dto.CreateLeaveRequest{
		StartDate: "2026-08-10",
		EndDate:   "2026-08-14",
		Type:      "VACATION",
		Reason:    strPtr("Ferie estive"),
	}

	suite.mockLeaveRepo.On("SaveLeaveRequest", ctx, mock.MatchedBy(func(r domain.LeaveRequest) bool {
		return r.UserID == ownerID &&
			r.Status == domain.LeaveStatusPending &&
			r.Type == domain.LeaveTypeVacation &&
			r.StartDate.Equal(date("2026-08-10")) &&
			r.EndDate.Equal(date("2026-08-14")) &&
			r.StartTime == nil && r.EndTime == nil
	})).Return(nil).Once().Run(func(args mock.Arguments) {
		saved := args.Get(1).(domain.LeaveRequest)
		detail := &domain.LeaveRequestDetail{
			LeaveRequest: saved,
			User:         domain.UserSummary{UserID: ownerID, Name: "Mario Rossi"},
		}
		suite.mockLeaveRepo.On("FindLeaveRequestDetailByID", ctx, saved.RequestID).Return(detail, nil).Once()
	})

	detail, err := suite.service.CreateLeaveRequest(ctx, ownerID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(detail)
	suite.Equal(domain.LeaveStatusPending, detail.Status)
	suite.Equal(ownerID, detail.User.UserID)
	suite.mockLeaveRepo.AssertExpectations(suite.T())
}

func (suite *LeaveServiceTestSuite) TestCreateLeaveRequest_EndBeforeStart() {
	ctx := context.Background()
	req := dto.CreateLeaveRequest{
		StartDate: "2026-08-14",
		EndDate:   "2026-08-10",
		Type:      "VACATION",
	}

	detail, err := suite.service.CreateLeaveRequest(ctx, uuid.NewString(), req)

	suite.Require().Error(err)
	suite.Nil(detail)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(400, appErr.Code)
	suite.mockLeaveRepo.AssertNotCalled(suite.T(), "SaveLeaveRequest", mock.Anything, mock.Anything)
}

func (suite *LeaveServiceTestSuite) TestCreateLeaveRequest_UnpairedTimes() {
	ctx := context.Background()
	req := dto.CreateLeaveRequest{
		StartDate: "2026-08-10",
		EndDate:   "2026-08-10",
		Type:      "PERSONAL",
		StartTime: strPtr("09:00"),
	}

	detail, err := suite.service.CreateLeaveRequest(ctx, uuid.NewString(), req)

	suite.Require().Error(err)
	suite.Nil(detail)
	suite.mockLeaveRepo.AssertNotCalled(suite.T(), "SaveLeaveRequest", mock.Anything, mock.Anything)
}

// --- ListLeaveRequests Tests ---

func (suite *LeaveServiceTestSuite) TestListLeaveRequests_RegularUserSeesOnlyOwn() {
	ctx := context.Background()
	actorID := uuid.NewString()
	otherID := uuid.NewString()
	actor := &domain.User{UserID: actorID, Role: domain.RoleUser}

	suite.mockUserRepo.On("FindUserByID", ctx, actorID).Return(actor, nil).Once()
	// The filter must be pinned to the actor even though another user was asked for.
	suite.mockLeaveRepo.On("ListLeaveRequests", ctx, mock.MatchedBy(func(f portsrepo.ListLeaveRequestsFilter) bool {
		return f.UserID != nil && *f.UserID == actorID
	})).Return([]domain.LeaveRequestDetail{}, nil).Once()

	_, err := suite.service.ListLeaveRequests(ctx, actorID, dto.ListLeaveRequestsParams{UserID: otherID})

	suite.Require().NoError(err)
	suite.mockLeaveRepo.AssertExpectations(suite.T())
}

func (suite *LeaveServiceTestSuite) TestListLeaveRequests_ManagerFiltersByUserAndStatus() {
	ctx := context.Background()
	actorID := uuid.NewString()
	targetID := uuid.NewString()
	actor := &domain.User{UserID: actorID, Role: domain.RoleManager}

	suite.mockUserRepo.On("FindUserByID", ctx, actorID).Return(actor, nil).Once()
	suite.mockLeaveRepo.On("ListLeaveRequests", ctx, mock.MatchedBy(func(f portsrepo.ListLeaveRequestsFilter) bool {
		return f.UserID != nil && *f.UserID == targetID &&
			f.Status != nil && *f.Status == domain.LeaveStatusPending
	})).Return([]domain.LeaveRequestDetail{}, nil).Once()

	_, err := suite.service.ListLeaveRequests(ctx, actorID, dto.ListLeaveRequestsParams{UserID: targetID, Status: "PENDING"})

	suite.Require().NoError(err)
	suite.mockLeaveRepo.AssertExpectations(suite.T())
}

// --- ReviewLeaveRequest Tests ---

func (suite *LeaveServiceTestSuite) TestReviewLeaveRequest_ApproveChargesBalance() {
	ctx := context.Background()
	reviewerID := uuid.NewString()
	ownerID := uuid.NewString()
	requestID := uuid.NewString()
	reviewer := &domain.User{UserID: reviewerID, Role: domain.RoleManager}
	pending := &domain.LeaveRequest{
		RequestID: requestID,
		UserID:    ownerID,
		StartDate: date("2026-08-10"),
		EndDate:   date("2026-08-12"),
		Type:      domain.LeaveTypeVacation,
		Status:    domain.LeaveStatusPending,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, reviewerID).Return(reviewer, nil).Once()
	suite.mockLeaveRepo.On("FindLeaveRequestByID", ctx, requestID).Return(pending, nil).Once()
	suite.mockLeaveRepo.On("ApplyReview", ctx, requestID, domain.LeaveStatusApproved, reviewerID,
		mock.AnythingOfType("time.Time"), ownerID, mock.MatchedBy(func(delta *ledger.Quantity) bool {
			return delta != nil && delta.Unit == ledger.UnitDays && delta.Amount.Equal(decimal.NewFromInt(3))
		})).Return(nil).Once()

	updated, err := suite.service.ReviewLeaveRequest(ctx, reviewerID, requestID, domain.LeaveStatusApproved)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Equal(domain.LeaveStatusApproved, updated.Status)
	suite.Require().NotNil(updated.ReviewedBy)
	suite.Equal(reviewerID, *updated.ReviewedBy)
	suite.mockLeaveRepo.AssertExpectations(suite.T())
}

func (suite *LeaveServiceTestSuite) TestReviewLeaveRequest_RejectLeavesBalanceAlone() {
	ctx := context.Background()
	reviewerID := uuid.NewString()
	ownerID := uuid.NewString()
	requestID := uuid.NewString()
	reviewer := &domain.User{UserID: reviewerID, Role: domain.RoleAdmin}
	pending := &domain.LeaveRequest{
		RequestID: requestID,
		UserID:    ownerID,
		StartDate: date("2026-08-10"),
		EndDate:   date("2026-08-12"),
		Type:      domain.LeaveTypeSick,
		Status:    domain.LeaveStatusPending,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, reviewerID).Return(reviewer, nil).Once()
	suite.mockLeaveRepo.On("FindLeaveRequestByID", ctx, requestID).Return(pending, nil).Once()
	suite.mockLeaveRepo.On("ApplyReview", ctx, requestID, domain.LeaveStatusRejected, reviewerID,
		mock.AnythingOfType("time.Time"), ownerID, (*ledger.Quantity)(nil)).Return(nil).Once()

	updated, err := suite.service.ReviewLeaveRequest(ctx, reviewerID, requestID, domain.LeaveStatusRejected)

	suite.Require().NoError(err)
	suite.Equal(domain.LeaveStatusRejected, updated.Status)
	suite.mockLeaveRepo.AssertExpectations(suite.T())
}

func (suite *LeaveServiceTestSuite) TestReviewLeaveRequest_ForbiddenForRegularUser() {
	ctx := context.Background()
	reviewerID := uuid.NewString()
	reviewer := &domain.User{UserID: reviewerID, Role: domain.RoleUser}

	suite.mockUserRepo.On("FindUserByID", ctx, reviewerID).Return(reviewer, nil).Once()

	updated, err := suite.service.ReviewLeaveRequest(ctx, reviewerID, uuid.NewString(), domain.LeaveStatusApproved)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLeaveRepo.AssertNotCalled(suite.T(), "ApplyReview",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LeaveServiceTestSuite) TestReviewLeaveRequest_AlreadyReviewed() {
	ctx := context.Background()
	reviewerID := uuid.NewString()
	requestID := uuid.NewString()
	reviewer := &domain.User{UserID: reviewerID, Role: domain.RoleManager}
	approved := &domain.LeaveRequest{
		RequestID: requestID,
		UserID:    uuid.NewString(),
		StartDate: date("2026-08-10"),
		EndDate:   date("2026-08-10"),
		Type:      domain.LeaveTypeVacation,
		Status:    domain.LeaveStatusApproved,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, reviewerID).Return(reviewer, nil).Once()
	suite.mockLeaveRepo.On("FindLeaveRequestByID", ctx, requestID).Return(approved, nil).Once()

	updated, err := suite.service.ReviewLeaveRequest(ctx, reviewerID, requestID, domain.LeaveStatusApproved)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrAlreadyReviewed)
	suite.mockLeaveRepo.AssertNotCalled(suite.T(), "ApplyReview",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LeaveServiceTestSuite) TestReviewLeaveRequest_LostRaceSurfacesAlreadyReviewed() {
	ctx := context.Background()
	reviewerID := uuid.NewString()
	ownerID := uuid.NewString()
	requestID := uuid.NewString()
	reviewer := &domain.User{UserID: reviewerID, Role: domain.RoleManager}
	pending := &domain.LeaveRequest{
		RequestID: requestID,
		UserID:    ownerID,
		StartDate: date("2026-08-10"),
		EndDate:   date("2026-08-10"),
		Type:      domain.LeaveTypeVacation,
		Status:    domain.LeaveStatusPending,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, reviewerID).Return(reviewer, nil).Once()
	suite.mockLeaveRepo.On("FindLeaveRequestByID", ctx, requestID).Return(pending, nil).Once()
	suite.mockLeaveRepo.On("ApplyReview", ctx, requestID, domain.LeaveStatusApproved, reviewerID,
		mock.AnythingOfType("time.Time"), ownerID, mock.Anything).Return(apperrors.ErrAlreadyReviewed).Once()

	updated, err := suite.service.ReviewLeaveRequest(ctx, reviewerID, requestID, domain.LeaveStatusApproved)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrAlreadyReviewed)
	suite.mockLeaveRepo.AssertExpectations(suite.T())
}

// --- DeleteLeaveRequest Tests ---

func (suite *LeaveServiceTestSuite) TestDeleteLeaveRequest_PendingNoReversal() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	requestID := uuid.NewString()
	pending := &domain.LeaveRequest{
		RequestID: requestID,
		UserID:    ownerID,
		StartDate: date("2026-08-10"),
		EndDate:   date("2026-08-12"),
		Type:      domain.LeaveTypeVacation,
		Status:    domain.LeaveStatusPending,
	}

	suite.mockLeaveRepo.On("FindLeaveRequestByID", ctx, requestID).Return(pending, nil).Once()
	suite.mockLeaveRepo.On("DeleteAndReverse", ctx, requestID, ownerID, domain.LeaveStatusPending, (*ledger.Quantity)(nil)).Return(nil).Once()

	err := suite.service.DeleteLeaveRequest(ctx, ownerID, requestID)

	suite.Require().NoError(err)
	suite.mockLeaveRepo.AssertExpectations(suite.T())
}

func (suite *LeaveServiceTestSuite) TestDeleteLeaveRequest_ApprovedRefundsBalance() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	requestID := uuid.NewString()
	approved := &domain.LeaveRequest{
		RequestID: requestID,
		UserID:    ownerID,
		StartDate: date("2026-08-10"),
		EndDate:   date("2026-08-10"),
		StartTime: strPtr("09:00"),
		EndTime:   strPtr("13:00"),
		Type:      domain.LeaveTypePersonal,
		Status:    domain.LeaveStatusApproved,
	}

	suite.mockLeaveRepo.On("FindLeaveRequestByID", ctx, requestID).Return(approved, nil).Once()
	suite.mockLeaveRepo.On("DeleteAndReverse", ctx, requestID, ownerID, domain.LeaveStatusApproved, mock.MatchedBy(func(delta *ledger.Quantity) bool {
		return delta != nil && delta.Unit == ledger.UnitHours && delta.Amount.Equal(decimal.NewFromInt(4))
	})).Return(nil).Once()

	err := suite.service.DeleteLeaveRequest(ctx, ownerID, requestID)

	suite.Require().NoError(err)
	suite.mockLeaveRepo.AssertExpectations(suite.T())
}

func (suite *LeaveServiceTestSuite) TestDeleteLeaveRequest_ForbiddenForNonOwner() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	intruderID := uuid.NewString()
	requestID := uuid.NewString()
	pending := &domain.LeaveRequest{
		RequestID: requestID,
		UserID:    ownerID,
		StartDate: date("2026-08-10"),
		EndDate:   date("2026-08-10"),
		Type:      domain.LeaveTypeVacation,
		Status:    domain.LeaveStatusPending,
	}

	suite.mockLeaveRepo.On("FindLeaveRequestByID", ctx, requestID).Return(pending, nil).Once()

	err := suite.service.DeleteLeaveRequest(ctx, intruderID, requestID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLeaveRepo.AssertNotCalled(suite.T(), "DeleteAndReverse", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LeaveServiceTestSuite) TestDeleteLeaveRequest_RetriesWhenApprovedConcurrently() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	requestID := uuid.NewString()
	pending := &domain.LeaveRequest{
		RequestID: requestID,
		UserID:    ownerID,
		StartDate: date("2026-08-10"),
		EndDate:   date("2026-08-12"),
		Type:      domain.LeaveTypeVacation,
		Status:    domain.LeaveStatusPending,
	}
	approved := &domain.LeaveRequest{}
	*approved = *pending
	approved.Status = domain.LeaveStatusApproved

	// A reviewer approves between the snapshot and the delete. The first
	// delete carries no reversal and must not match the approved row; the
	// retry re-reads and refunds the 3 charged days.
	suite.mockLeaveRepo.On("FindLeaveRequestByID", ctx, requestID).Return(pending, nil).Once()
	suite.mockLeaveRepo.On("DeleteAndReverse", ctx, requestID, ownerID, domain.LeaveStatusPending, (*ledger.Quantity)(nil)).
		Return(apperrors.ErrStaleStatus).Once()
	suite.mockLeaveRepo.On("FindLeaveRequestByID", ctx, requestID).Return(approved, nil).Once()
	suite.mockLeaveRepo.On("DeleteAndReverse", ctx, requestID, ownerID, domain.LeaveStatusApproved, mock.MatchedBy(func(delta *ledger.Quantity) bool {
		return delta != nil && delta.Unit == ledger.UnitDays && delta.Amount.Equal(decimal.NewFromInt(3))
	})).Return(nil).Once()

	err := suite.service.DeleteLeaveRequest(ctx, ownerID, requestID)

	suite.Require().NoError(err)
	suite.mockLeaveRepo.AssertExpectations(suite.T())
}

func (suite *LeaveServiceTestSuite) TestDeleteLeaveRequest_StaleStatusSurfacesAfterRetries() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	requestID := uuid.NewString()
	pending := &domain.LeaveRequest{
		RequestID: requestID,
		UserID:    ownerID,
		StartDate: date("2026-08-10"),
		EndDate:   date("2026-08-10"),
		Type:      domain.LeaveTypeVacation,
		Status:    domain.LeaveStatusPending,
	}

	suite.mockLeaveRepo.On("FindLeaveRequestByID", ctx, requestID).Return(pending, nil)
	suite.mockLeaveRepo.On("DeleteAndReverse", ctx, requestID, ownerID, domain.LeaveStatusPending, (*ledger.Quantity)(nil)).
		Return(apperrors.ErrStaleStatus)

	err := suite.service.DeleteLeaveRequest(ctx, ownerID, requestID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStaleStatus)
	suite.mockLeaveRepo.AssertNumberOfCalls(suite.T(), "DeleteAndReverse", 4)
}

func (suite *LeaveServiceTestSuite) TestDeleteLeaveRequest_NotFound() {
	ctx := context.Background()
	requestID := uuid.NewString()

	suite.mockLeaveRepo.On("FindLeaveRequestByID", ctx, requestID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteLeaveRequest(ctx, uuid.NewString(), requestID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLeaveRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestLeaveService(t *testing.T) {
	suite.Run(t, new(LeaveServiceTestSuite))
}
