package balance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"leaveops/internal/balance"
	balanceerrors "leaveops/internal/balance/errors"
	"leaveops/internal/policy"
	"leaveops/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeBalanceRepository struct {
	withTxFn                func(tx *sql.Tx) balance.Repository
	findByKeyFn             func(ctx context.Context, companyID, employeeID, leaveType string, year int) (*balance.LeaveBalance, error)
	findAllByEmployeeYearFn func(ctx context.Context, companyID, employeeID string, year int) ([]balance.LeaveBalance, error)
	createFn                func(ctx context.Context, b *balance.LeaveBalance) error
	debitFn                 func(ctx context.Context, companyID, employeeID, leaveType string, year int, amount decimal.Decimal) (bool, error)
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeBalanceRepository) FindByKey(ctx context.Context, companyID, employeeID, leaveType string, year int) (*balance.LeaveBalance, error) {
	if f.findByKeyFn != nil {
		return f.findByKeyFn(ctx, companyID, employeeID, leaveType, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) FindAllByEmployeeYear(ctx context.Context, companyID, employeeID string, year int) ([]balance.LeaveBalance, error) {
	if f.findAllByEmployeeYearFn != nil {
		return f.findAllByEmployeeYearFn(ctx, companyID, employeeID, year)
	}
	return nil, nil
}

func (f *fakeBalanceRepository) Create(ctx context.Context, b *balance.LeaveBalance) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) Debit(ctx context.Context, companyID, employeeID, leaveType string, year int, amount decimal.Decimal) (bool, error) {
	if f.debitFn != nil {
		return f.debitFn(ctx, companyID, employeeID, leaveType, year, amount)
	}
	return true, nil
}

type fakePolicyResolver struct {
	resolveFn func(ctx context.Context, companyID string) (*policy.TenantLeavePolicy, error)
}

func (f *fakePolicyResolver) GetOrInit(ctx context.Context, companyID string) (policy.PolicyResponse, error) {
	return policy.PolicyResponse{}, nil
}

func (f *fakePolicyResolver) Update(ctx context.Context, companyID string, req policy.UpdatePolicyRequest) (policy.PolicyResponse, error) {
	return policy.PolicyResponse{}, nil
}

func (f *fakePolicyResolver) Resolve(ctx context.Context, companyID string) (*policy.TenantLeavePolicy, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, companyID)
	}
	return policy.DefaultsForCompany(uuid.MustParse(companyID)), nil
}

func seededBalance(companyID, employeeID string, leaveType string, year int, remaining int64) *balance.LeaveBalance {
	return &balance.LeaveBalance{
		ID:            uuid.New(),
		CompanyID:     uuid.MustParse(companyID),
		EmployeeID:    uuid.MustParse(employeeID),
		LeaveType:     leaveType,
		Year:          year,
		RemainingDays: decimal.NewFromInt(remaining),
	}
}

func TestBalanceService_GetOrInit(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success existing row", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findByKeyFn: func(ctx context.Context, cid, eid, leaveType string, year int) (*balance.LeaveBalance, error) {
				return seededBalance(cid, eid, leaveType, year, 12), nil
			},
		}
		svc := balance.NewService(repo, &fakePolicyResolver{})

		b, err := svc.GetOrInit(ctx, companyID, employeeID, "ANNUAL", 2030)

		assert.NoError(t, err)
		assert.True(t, decimal.NewFromInt(12).Equal(b.RemainingDays))
	})

	t.Run("success seeds from tenant entitlement", func(t *testing.T) {
		missing := true
		repo := &fakeBalanceRepository{}
		repo.findByKeyFn = func(ctx context.Context, cid, eid, leaveType string, year int) (*balance.LeaveBalance, error) {
			if missing {
				return nil, gorm.ErrRecordNotFound
			}
			return seededBalance(cid, eid, leaveType, year, 25), nil
		}

		var created *balance.LeaveBalance
		repo.createFn = func(ctx context.Context, b *balance.LeaveBalance) error {
			created = b
			missing = false
			return nil
		}

		policies := &fakePolicyResolver{
			resolveFn: func(ctx context.Context, cid string) (*policy.TenantLeavePolicy, error) {
				pol := policy.DefaultsForCompany(uuid.MustParse(cid))
				pol.AnnualDays = 25
				return pol, nil
			},
		}

		svc := balance.NewService(repo, policies)

		b, err := svc.GetOrInit(ctx, companyID, employeeID, "ANNUAL", 2030)

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.True(t, decimal.NewFromInt(25).Equal(created.RemainingDays))
		assert.True(t, decimal.NewFromInt(25).Equal(b.RemainingDays))
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		svc := balance.NewService(&fakeBalanceRepository{}, &fakePolicyResolver{})

		_, err := svc.GetOrInit(ctx, companyID, employeeID, "SABBATICAL", 2030)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidLeaveType)
	})

	t.Run("negative invalid year", func(t *testing.T) {
		svc := balance.NewService(&fakeBalanceRepository{}, &fakePolicyResolver{})

		_, err := svc.GetOrInit(ctx, companyID, employeeID, "ANNUAL", 30)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidYear)
	})
}

func TestBalanceService_GetBalances(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success returns every leave type", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findByKeyFn: func(ctx context.Context, cid, eid, leaveType string, year int) (*balance.LeaveBalance, error) {
				return seededBalance(cid, eid, leaveType, year, 10), nil
			},
			findAllByEmployeeYearFn: func(ctx context.Context, cid, eid string, year int) ([]balance.LeaveBalance, error) {
				rows := make([]balance.LeaveBalance, 0, len(policy.LeaveTypes))
				for _, leaveType := range policy.LeaveTypes {
					rows = append(rows, *seededBalance(cid, eid, leaveType, year, 10))
				}
				return rows, nil
			},
		}
		svc := balance.NewService(repo, &fakePolicyResolver{})

		resp, err := svc.GetBalances(ctx, companyID, employeeID, 2030)

		assert.NoError(t, err)
		assert.Len(t, resp, len(policy.LeaveTypes))
		assert.Equal(t, "10", resp[0].RemainingDays)
	})
}

func TestBalanceService_DebitTx(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	setupTx := func(t *testing.T) (*sql.DB, *sql.Tx) {
		t.Helper()
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		mock.ExpectBegin()
		tx, err := db.Begin()
		assert.NoError(t, err)
		return db, tx
	}

	t.Run("success", func(t *testing.T) {
		db, tx := setupTx(t)
		defer db.Close()

		repo := &fakeBalanceRepository{
			findByKeyFn: func(ctx context.Context, cid, eid, leaveType string, year int) (*balance.LeaveBalance, error) {
				return seededBalance(cid, eid, leaveType, year, 5), nil
			},
		}

		var debitTx *sql.Tx
		repo.withTxFn = func(gotTx *sql.Tx) balance.Repository {
			debitTx = gotTx
			return repo
		}
		repo.debitFn = func(ctx context.Context, cid, eid, leaveType string, year int, amount decimal.Decimal) (bool, error) {
			assert.True(t, decimal.NewFromInt(5).Equal(amount))
			return true, nil
		}

		svc := balance.NewService(repo, &fakePolicyResolver{})

		err := svc.DebitTx(ctx, tx, companyID, employeeID, "ANNUAL", 2030, decimal.NewFromInt(5))

		assert.NoError(t, err)
		assert.Equal(t, tx, debitTx)
	})

	t.Run("negative insufficient carries amounts", func(t *testing.T) {
		db, tx := setupTx(t)
		defer db.Close()

		repo := &fakeBalanceRepository{
			findByKeyFn: func(ctx context.Context, cid, eid, leaveType string, year int) (*balance.LeaveBalance, error) {
				return seededBalance(cid, eid, leaveType, year, 2), nil
			},
			debitFn: func(ctx context.Context, cid, eid, leaveType string, year int, amount decimal.Decimal) (bool, error) {
				return false, nil
			},
		}
		svc := balance.NewService(repo, &fakePolicyResolver{})

		err := svc.DebitTx(ctx, tx, companyID, employeeID, "ANNUAL", 2030, decimal.NewFromInt(5))

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		details, ok := appErr.Details.(balanceerrors.InsufficientBalanceDetails)
		assert.True(t, ok)
		assert.Equal(t, "2", details.Available)
		assert.Equal(t, "5", details.Required)
	})

	t.Run("negative zero amount", func(t *testing.T) {
		db, tx := setupTx(t)
		defer db.Close()

		svc := balance.NewService(&fakeBalanceRepository{}, &fakePolicyResolver{})

		err := svc.DebitTx(ctx, tx, companyID, employeeID, "ANNUAL", 2030, decimal.Zero)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidDebitAmount)
	})

	t.Run("negative repo error", func(t *testing.T) {
		db, tx := setupTx(t)
		defer db.Close()

		repo := &fakeBalanceRepository{
			findByKeyFn: func(ctx context.Context, cid, eid, leaveType string, year int) (*balance.LeaveBalance, error) {
				return seededBalance(cid, eid, leaveType, year, 20), nil
			},
			debitFn: func(ctx context.Context, cid, eid, leaveType string, year int, amount decimal.Decimal) (bool, error) {
				return false, errors.New("db error")
			},
		}
		svc := balance.NewService(repo, &fakePolicyResolver{})

		err := svc.DebitTx(ctx, tx, companyID, employeeID, "ANNUAL", 2030, decimal.NewFromInt(1))

		assert.Error(t, err)
		assert.NotErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
	})
}
