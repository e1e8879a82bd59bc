package balance

import (
	"context"
	"database/sql"

	"leaveops/internal/tenant"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByKey(ctx context.Context, companyID, employeeID, leaveType string, year int) (*LeaveBalance, error)
	FindAllByEmployeeYear(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error)
	Create(ctx context.Context, b *LeaveBalance) error
	Debit(ctx context.Context, companyID, employeeID, leaveType string, year int, amount decimal.Decimal) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) FindByKey(ctx context.Context, companyID, employeeID, leaveType string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindAllByEmployeeYear(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Order("leave_type ASC").
		Find(&balances).Error
	return balances, err
}

// Create seeds a ledger row. ON CONFLICT DO NOTHING keeps lazy initialization
// safe when two requests race for the same key.
func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	query := `
		INSERT INTO leave_balances (
			id, company_id, employee_id, leave_type, year, remaining_days, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (company_id, employee_id, leave_type, year) DO NOTHING
	`
	exec := r.execer()
	_, err := exec.ExecContext(ctx, query,
		b.ID, b.CompanyID, b.EmployeeID, b.LeaveType, b.Year, b.RemainingDays,
	)
	return err
}

// Debit atomically decrements a balance, refusing to go negative. The
// WHERE remaining_days >= amount guard makes the read-verify-write a single
// statement, so running it inside the approval transaction closes the
// two-reviewer race. Returns false when the guard rejected the debit.
func (r *repository) Debit(ctx context.Context, companyID, employeeID, leaveType string, year int, amount decimal.Decimal) (bool, error) {
	query := `
		UPDATE leave_balances
		SET remaining_days = remaining_days - $1, updated_at = NOW()
		WHERE company_id = $2
			AND employee_id = $3
			AND leave_type = $4
			AND year = $5
			AND remaining_days >= $1
	`
	exec := r.execer()
	res, err := exec.ExecContext(ctx, query, amount, companyID, employeeID, leaveType, year)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

type execerContext interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *repository) execer() execerContext {
	if r.tx != nil {
		return r.tx
	}
	db, err := r.db.DB()
	if err != nil {
		return failingExecer{err: err}
	}
	return db
}

type failingExecer struct{ err error }

func (f failingExecer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, f.err
}
