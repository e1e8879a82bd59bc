package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"leaveops/internal/authz"
	"leaveops/internal/balance"
	balanceerrors "leaveops/internal/balance/errors"
	"leaveops/internal/holiday"
	"leaveops/internal/leave"
	leaveerrors "leaveops/internal/leave/errors"
	"leaveops/internal/messaging/kafka"
	"leaveops/internal/policy"
	"leaveops/internal/shared/apperror"
	"leaveops/internal/workday"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveRepository struct {
	withTxFn                 func(tx *sql.Tx) leave.Repository
	createFn                 func(ctx context.Context, l *leave.LeaveRequest) error
	findAllByCompanyFn       func(ctx context.Context, companyID string) ([]leave.LeaveRequest, error)
	findByIDAndCompanyFn     func(ctx context.Context, companyID, id string) (*leave.LeaveRequest, error)
	hasOverlappingPeriodFn   func(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	markApprovedFn           func(ctx context.Context, companyID, id, reviewerID string, decidedAt time.Time) (bool, error)
	markRejectedFn           func(ctx context.Context, companyID, id, reviewerID, reason, category string, decidedAt time.Time) (bool, error)
	markCancelledFn          func(ctx context.Context, companyID, id string, decidedAt time.Time) (bool, error)
	appendRejectionRecordFn  func(ctx context.Context, rec *leave.RejectionRecord) error
	findActiveForEmployeesFn func(ctx context.Context, companyID string, employeeIDs []string, startDate, endDate time.Time) ([]leave.LeaveRequest, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leave.LeaveRequest, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leave.LeaveRequest, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, companyID, employeeID, startDate, endDate, excludeID)
	}
	return false, nil
}

func (f *fakeLeaveRepository) MarkApproved(ctx context.Context, companyID, id, reviewerID string, decidedAt time.Time) (bool, error) {
	if f.markApprovedFn != nil {
		return f.markApprovedFn(ctx, companyID, id, reviewerID, decidedAt)
	}
	return true, nil
}

func (f *fakeLeaveRepository) MarkRejected(ctx context.Context, companyID, id, reviewerID, reason, category string, decidedAt time.Time) (bool, error) {
	if f.markRejectedFn != nil {
		return f.markRejectedFn(ctx, companyID, id, reviewerID, reason, category, decidedAt)
	}
	return true, nil
}

func (f *fakeLeaveRepository) MarkCancelled(ctx context.Context, companyID, id string, decidedAt time.Time) (bool, error) {
	if f.markCancelledFn != nil {
		return f.markCancelledFn(ctx, companyID, id, decidedAt)
	}
	return true, nil
}

func (f *fakeLeaveRepository) AppendRejectionRecord(ctx context.Context, rec *leave.RejectionRecord) error {
	if f.appendRejectionRecordFn != nil {
		return f.appendRejectionRecordFn(ctx, rec)
	}
	return nil
}

func (f *fakeLeaveRepository) FindActiveForEmployees(ctx context.Context, companyID string, employeeIDs []string, startDate, endDate time.Time) ([]leave.LeaveRequest, error) {
	if f.findActiveForEmployeesFn != nil {
		return f.findActiveForEmployeesFn(ctx, companyID, employeeIDs, startDate, endDate)
	}
	return nil, nil
}

type fakeHolidayService struct {
	holidaySetForRangeFn func(ctx context.Context, companyID string, start, end time.Time) (workday.HolidaySet, error)
}

func (f *fakeHolidayService) Create(ctx context.Context, companyID string, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	return holiday.HolidayResponse{}, nil
}

func (f *fakeHolidayService) GetAll(ctx context.Context, companyID string) ([]holiday.HolidayResponse, error) {
	return nil, nil
}

func (f *fakeHolidayService) Delete(ctx context.Context, companyID, id string) error {
	return nil
}

func (f *fakeHolidayService) HolidaySetForRange(ctx context.Context, companyID string, start, end time.Time) (workday.HolidaySet, error) {
	if f.holidaySetForRangeFn != nil {
		return f.holidaySetForRangeFn(ctx, companyID, start, end)
	}
	return workday.HolidaySet{}, nil
}

type fakePolicyService struct {
	resolveFn func(ctx context.Context, companyID string) (*policy.TenantLeavePolicy, error)
}

func (f *fakePolicyService) GetOrInit(ctx context.Context, companyID string) (policy.PolicyResponse, error) {
	return policy.PolicyResponse{}, nil
}

func (f *fakePolicyService) Update(ctx context.Context, companyID string, req policy.UpdatePolicyRequest) (policy.PolicyResponse, error) {
	return policy.PolicyResponse{}, nil
}

func (f *fakePolicyService) Resolve(ctx context.Context, companyID string) (*policy.TenantLeavePolicy, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, companyID)
	}
	return policy.DefaultsForCompany(uuid.MustParse(companyID)), nil
}

type fakeBalanceService struct {
	getOrInitFn func(ctx context.Context, companyID, employeeID, leaveType string, year int) (balance.LeaveBalance, error)
	debitTxFn   func(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveType string, year int, amount decimal.Decimal) error
}

func (f *fakeBalanceService) GetOrInit(ctx context.Context, companyID, employeeID, leaveType string, year int) (balance.LeaveBalance, error) {
	if f.getOrInitFn != nil {
		return f.getOrInitFn(ctx, companyID, employeeID, leaveType, year)
	}
	return balance.LeaveBalance{RemainingDays: decimal.NewFromInt(20)}, nil
}

func (f *fakeBalanceService) GetBalances(ctx context.Context, companyID, employeeID string, year int) ([]balance.BalanceResponse, error) {
	return nil, nil
}

func (f *fakeBalanceService) EnsureDefaults(ctx context.Context, companyID, employeeID string, year int) error {
	return nil
}

func (f *fakeBalanceService) DebitTx(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveType string, year int, amount decimal.Decimal) error {
	if f.debitTxFn != nil {
		return f.debitTxFn(ctx, tx, companyID, employeeID, leaveType, year, amount)
	}
	return nil
}

type fakeAuthzService struct {
	isManagerOfFn    func(ctx context.Context, companyID, reviewerID, employeeID string) (bool, error)
	isElevatedRoleFn func(ctx context.Context, companyID, employeeID string) (bool, error)
}

func (f *fakeAuthzService) Enforce(req authz.EnforceRequest) (bool, error) {
	return false, nil
}

func (f *fakeAuthzService) IsManagerOf(ctx context.Context, companyID, reviewerID, employeeID string) (bool, error) {
	if f.isManagerOfFn != nil {
		return f.isManagerOfFn(ctx, companyID, reviewerID, employeeID)
	}
	return true, nil
}

func (f *fakeAuthzService) IsElevatedRole(ctx context.Context, companyID, employeeID string) (bool, error) {
	if f.isElevatedRoleFn != nil {
		return f.isElevatedRoleFn(ctx, companyID, employeeID)
	}
	return false, nil
}

type fakeCounterRepository struct {
	getNextValueFn func(ctx context.Context, companyID, counterType string) (int64, error)
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, companyID, counterType string) (int64, error) {
	if f.getNextValueFn != nil {
		return f.getNextValueFn(ctx, companyID, counterType)
	}
	return 1, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type leaveServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  leave.Service
	repo     *fakeLeaveRepository
	holidays *fakeHolidayService
	policies *fakePolicyService
	balances *fakeBalanceService
	authz    *fakeAuthzService
	counter  *fakeCounterRepository
	outbox   *fakeOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	holidays := &fakeHolidayService{}
	policies := &fakePolicyService{}
	balances := &fakeBalanceService{}
	authorizer := &fakeAuthzService{}
	counterRepo := &fakeCounterRepository{}
	outbox := &fakeOutboxRepository{}

	svc := leave.NewService(db, repo, leave.Deps{
		Holidays:   holidays,
		Policies:   policies,
		Balances:   balances,
		Authorizer: authorizer,
		Counter:    counterRepo,
		Outbox:     outbox,
	})

	return &leaveServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		holidays: holidays,
		policies: policies,
		balances: balances,
		authz:    authorizer,
		counter:  counterRepo,
		outbox:   outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func pendingRequest(companyID, employeeID string) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:          uuid.New(),
		CompanyID:   uuid.MustParse(companyID),
		EmployeeID:  uuid.MustParse(employeeID),
		LeaveType:   "ANNUAL",
		StartDate:   time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2030, 7, 5, 0, 0, 0, 0, time.UTC),
		WorkingDays: 5,
		Status:      leave.StatusPending,
		CreatedBy:   uuid.MustParse(employeeID),
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success full week", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "ANNUAL",
			StartDate:  "2030-07-01",
			EndDate:    "2030-07-05",
			Reason:     "Family trip",
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, uuid.MustParse(companyID), l.CompanyID)
			assert.Equal(t, uuid.MustParse(employeeID), l.EmployeeID)
			assert.Equal(t, 5, l.WorkingDays)
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Equal(t, "LR-000001", l.RequestNumber)
			assert.NotEmpty(t, l.DaySnapshot)
			return nil
		}

		resp, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.NoError(t, err)
		assert.Equal(t, 5, resp.WorkingDays)
		assert.Equal(t, "LR-000001", resp.RequestNumber)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Empty(t, resp.ExcludedDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success excludes weekend and holiday", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "ANNUAL",
			StartDate:  "2030-12-23",
			EndDate:    "2030-12-27",
			Reason:     "Holiday season",
		}

		deps.holidays.holidaySetForRangeFn = func(ctx context.Context, cid string, start, end time.Time) (workday.HolidaySet, error) {
			return workday.HolidaySet{"2030-12-25": {}}, nil
		}

		var created *leave.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			created = l
			return nil
		}

		resp, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.NoError(t, err)
		assert.Equal(t, 4, resp.WorkingDays)
		assert.Len(t, resp.ExcludedDays, 1)
		assert.Equal(t, "2030-12-25", resp.ExcludedDays[0].Date)
		assert.Equal(t, workday.StatusHoliday, resp.ExcludedDays[0].Status)
		assert.NotNil(t, created)
		assert.Equal(t, 4, created.WorkingDays)
	})

	t.Run("negative zero working days", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "ANNUAL",
			StartDate:  "2030-07-06",
			EndDate:    "2030-07-07",
			Reason:     "Weekend only",
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrNoWorkingDays)
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "ANNUAL",
			StartDate:  "2030-07-05",
			EndDate:    "2030-07-01",
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative start in past", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "ANNUAL",
			StartDate:  "2020-07-01",
			EndDate:    "2020-07-05",
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrStartDateInPast)
	})

	t.Run("negative overlapping request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "ANNUAL",
			StartDate:  "2030-07-01",
			EndDate:    "2030-07-05",
		}

		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, cid, eid string, startDate, endDate time.Time, excludeID *string) (bool, error) {
			assert.Nil(t, excludeID)
			return true, nil
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
	})

	t.Run("negative policy violations reported together", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "ANNUAL",
			StartDate:  "2030-07-01",
			EndDate:    "2030-07-05",
		}

		maxConsecutive := 3
		deps.policies.resolveFn = func(ctx context.Context, cid string) (*policy.TenantLeavePolicy, error) {
			pol := policy.DefaultsForCompany(uuid.MustParse(cid))
			pol.MaximumConsecutiveDays = &maxConsecutive
			return pol, nil
		}
		deps.balances.getOrInitFn = func(ctx context.Context, cid, eid, leaveType string, year int) (balance.LeaveBalance, error) {
			assert.Equal(t, 2030, year)
			return balance.LeaveBalance{RemainingDays: decimal.NewFromInt(2)}, nil
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrPolicyViolations)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		violations, ok := appErr.Details.([]policy.Violation)
		assert.True(t, ok)
		assert.Len(t, violations, 2)
	})

	t.Run("negative invalid leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "SABBATICAL",
			StartDate:  "2030-07-01",
			EndDate:    "2030-07-05",
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	reviewerID := uuid.New().String()

	t.Run("success debits balance in same tx", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		existing := pendingRequest(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}

		var debited decimal.Decimal
		deps.balances.debitTxFn = func(ctx context.Context, tx *sql.Tx, cid, eid, leaveType string, year int, amount decimal.Decimal) error {
			assert.NotNil(t, tx)
			assert.Equal(t, "ANNUAL", leaveType)
			assert.Equal(t, 2030, year)
			debited = amount
			return nil
		}

		var published bool
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			published = true
			assert.Equal(t, existing.ID.String(), event.AggregateID)
			return nil
		}

		resp, err := deps.service.Approve(ctx, companyID, reviewerID, existing.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.True(t, decimal.NewFromInt(5).Equal(debited))
		assert.True(t, published)
		assert.NotNil(t, resp.ReviewedBy)
		assert.Equal(t, reviewerID, *resp.ReviewedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already processed", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		existing := pendingRequest(companyID, employeeID)
		existing.Status = leave.StatusApproved

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}

		_, err := deps.service.Approve(ctx, companyID, reviewerID, existing.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
	})

	t.Run("negative lost status race", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		existing := pendingRequest(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.repo.markApprovedFn = func(ctx context.Context, cid, id, rid string, decidedAt time.Time) (bool, error) {
			return false, nil
		}

		var debitCalled bool
		deps.balances.debitTxFn = func(ctx context.Context, tx *sql.Tx, cid, eid, leaveType string, year int, amount decimal.Decimal) error {
			debitCalled = true
			return nil
		}

		_, err := deps.service.Approve(ctx, companyID, reviewerID, existing.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
		assert.False(t, debitCalled)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient balance rolls back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		existing := pendingRequest(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.balances.debitTxFn = func(ctx context.Context, tx *sql.Tx, cid, eid, leaveType string, year int, amount decimal.Decimal) error {
			return balanceerrors.InsufficientBalance(decimal.NewFromInt(2).String(), amount.String())
		}

		_, err := deps.service.Approve(ctx, companyID, reviewerID, existing.ID.String())

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative reviewer not authorized", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		existing := pendingRequest(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.authz.isManagerOfFn = func(ctx context.Context, cid, rid, eid string) (bool, error) {
			return false, nil
		}
		deps.authz.isElevatedRoleFn = func(ctx context.Context, cid, eid string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Approve(ctx, companyID, reviewerID, existing.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotAuthorizedReviewer)
	})

	t.Run("success elevated role without manager relation", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		existing := pendingRequest(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.authz.isManagerOfFn = func(ctx context.Context, cid, rid, eid string) (bool, error) {
			return false, nil
		}
		deps.authz.isElevatedRoleFn = func(ctx context.Context, cid, eid string) (bool, error) {
			return true, nil
		}

		resp, err := deps.service.Approve(ctx, companyID, reviewerID, existing.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
	})
}

func TestLeaveService_Reject(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	reviewerID := uuid.New().String()

	t.Run("success appends audit record", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		existing := pendingRequest(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}

		var record *leave.RejectionRecord
		deps.repo.appendRejectionRecordFn = func(ctx context.Context, rec *leave.RejectionRecord) error {
			record = rec
			return nil
		}

		var debitCalled bool
		deps.balances.debitTxFn = func(ctx context.Context, tx *sql.Tx, cid, eid, leaveType string, year int, amount decimal.Decimal) error {
			debitCalled = true
			return nil
		}

		resp, err := deps.service.Reject(ctx, companyID, reviewerID, existing.ID.String(), leave.RejectLeaveRequest{
			Reason:   "Insufficient coverage that week",
			Category: leave.CategoryOther,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.False(t, debitCalled)
		assert.NotNil(t, record)
		assert.Equal(t, existing.ID, record.RequestID)
		assert.Equal(t, leave.CategoryOther, record.Category)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success defaults category to OTHER", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		existing := pendingRequest(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}

		resp, err := deps.service.Reject(ctx, companyID, reviewerID, existing.ID.String(), leave.RejectLeaveRequest{
			Reason: "Blackout period for the team",
		})

		assert.NoError(t, err)
		assert.NotNil(t, resp.RejectionCategory)
		assert.Equal(t, leave.CategoryOther, *resp.RejectionCategory)
	})

	t.Run("negative reason too short", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		existing := pendingRequest(companyID, employeeID)

		_, err := deps.service.Reject(ctx, companyID, reviewerID, existing.ID.String(), leave.RejectLeaveRequest{
			Reason: "too short",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrRejectionReasonTooShort)
	})

	t.Run("negative invalid category", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		existing := pendingRequest(companyID, employeeID)

		_, err := deps.service.Reject(ctx, companyID, reviewerID, existing.ID.String(), leave.RejectLeaveRequest{
			Reason:   "A perfectly valid reason",
			Category: "NOT_A_CATEGORY",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidRejectionCategory)
	})

	t.Run("negative lost status race", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		existing := pendingRequest(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}
		deps.repo.markRejectedFn = func(ctx context.Context, cid, id, rid, reason, category string, decidedAt time.Time) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Reject(ctx, companyID, reviewerID, existing.ID.String(), leave.RejectLeaveRequest{
			Reason: "Someone else got here first",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_BulkReject(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	reviewerID := uuid.New().String()

	t.Run("success mixed outcomes reported per item", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		good := pendingRequest(companyID, employeeID)
		processed := pendingRequest(companyID, employeeID)
		processed.Status = leave.StatusApproved

		// One tx per item that reaches the status flip.
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			switch id {
			case good.ID.String():
				return good, nil
			case processed.ID.String():
				return processed, nil
			default:
				return nil, errors.New("unexpected id")
			}
		}

		results, err := deps.service.BulkReject(ctx, companyID, reviewerID, leave.BulkRejectRequest{
			RequestIDs: []string{good.ID.String(), processed.ID.String()},
			Reason:     "Quarter-end freeze in effect",
		})

		assert.NoError(t, err)
		assert.Len(t, results, 2)

		assert.True(t, results[0].Ok)
		assert.Equal(t, good.ID.String(), results[0].RequestID)
		assert.NotNil(t, results[0].Request)

		assert.False(t, results[1].Ok)
		assert.Equal(t, processed.ID.String(), results[1].RequestID)
		assert.Equal(t, "ALREADY_PROCESSED", results[1].ErrorCode)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative empty id list", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.BulkReject(ctx, companyID, reviewerID, leave.BulkRejectRequest{
			Reason: "Reason long enough here",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrEmptyBulkRequest)
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success by owner", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		existing := pendingRequest(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}

		resp, err := deps.service.Cancel(ctx, companyID, employeeID, existing.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not the owner", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		existing := pendingRequest(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}

		_, err := deps.service.Cancel(ctx, companyID, uuid.New().String(), existing.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotRequestOwner)
	})

	t.Run("negative already decided", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		existing := pendingRequest(companyID, employeeID)
		existing.Status = leave.StatusRejected

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return existing, nil
		}

		_, err := deps.service.Cancel(ctx, companyID, employeeID, existing.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
	})
}
