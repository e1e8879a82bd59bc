package balance

import (
	"context"
	"database/sql"
	"errors"

	balanceerrors "leaveops/internal/balance/errors"
	"leaveops/internal/policy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetOrInit(ctx context.Context, companyID, employeeID, leaveType string, year int) (LeaveBalance, error)
	GetBalances(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error)
	EnsureDefaults(ctx context.Context, companyID, employeeID string, year int) error
	DebitTx(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveType string, year int, amount decimal.Decimal) error
}

type service struct {
	repo     Repository
	policies policy.Service
	logger   *zap.Logger
}

func NewService(repo Repository, policies policy.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{repo: repo, policies: policies, logger: l}
}

// GetOrInit returns the ledger row for a key, creating it from the tenant's
// default entitlement on first access. Creation races resolve through the
// ON CONFLICT guard in the repository, so both callers see one row.
func (s *service) GetOrInit(ctx context.Context, companyID, employeeID, leaveType string, year int) (LeaveBalance, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveBalance{}, balanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveBalance{}, balanceerrors.ErrInvalidEmployeeID
	}
	if !policy.IsValidType(leaveType) {
		return LeaveBalance{}, balanceerrors.ErrInvalidLeaveType
	}
	if year < 1000 || year > 9999 {
		return LeaveBalance{}, balanceerrors.ErrInvalidYear
	}

	b, err := s.repo.FindByKey(ctx, companyID, employeeID, leaveType, year)
	if err == nil {
		return *b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return LeaveBalance{}, err
	}

	pol, err := s.policies.Resolve(ctx, companyID)
	if err != nil {
		return LeaveBalance{}, err
	}

	seeded := &LeaveBalance{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		EmployeeID:    employeeUUID,
		LeaveType:     leaveType,
		Year:          year,
		RemainingDays: pol.DefaultEntitlement(leaveType),
	}
	if err := s.repo.Create(ctx, seeded); err != nil {
		s.logger.Error("seed leave balance failed",
			zap.String("company_id", companyID),
			zap.String("employee_id", employeeID),
			zap.String("leave_type", leaveType),
			zap.Int("year", year),
			zap.Error(err),
		)
		return LeaveBalance{}, err
	}

	// Re-read: a concurrent initializer may have won the insert.
	b, err = s.repo.FindByKey(ctx, companyID, employeeID, leaveType, year)
	if err != nil {
		return LeaveBalance{}, err
	}

	s.logger.Info("seeded leave balance",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", leaveType),
		zap.Int("year", year),
		zap.String("remaining_days", b.RemainingDays.String()),
	)
	return *b, nil
}

func (s *service) GetBalances(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error) {
	if err := s.EnsureDefaults(ctx, companyID, employeeID, year); err != nil {
		return nil, err
	}

	balances, err := s.repo.FindAllByEmployeeYear(ctx, companyID, employeeID, year)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(balances), nil
}

// EnsureDefaults initializes every leave type's ledger row for the year.
// Used by the employee lifecycle consumer and by balance reads.
func (s *service) EnsureDefaults(ctx context.Context, companyID, employeeID string, year int) error {
	for _, leaveType := range policy.LeaveTypes {
		if _, err := s.GetOrInit(ctx, companyID, employeeID, leaveType, year); err != nil {
			return err
		}
	}
	return nil
}

// DebitTx decrements the ledger inside the caller's transaction. The caller
// owns commit and rollback; on insufficient funds the error carries the
// available vs required amounts and the caller must abort the transaction.
func (s *service) DebitTx(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveType string, year int, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return balanceerrors.ErrInvalidDebitAmount
	}

	// Make sure the row exists before the conditional update; a zero-row
	// result must mean "not enough", never "not initialized".
	current, err := s.GetOrInit(ctx, companyID, employeeID, leaveType, year)
	if err != nil {
		return err
	}

	ok, err := s.repo.WithTx(tx).Debit(ctx, companyID, employeeID, leaveType, year, amount)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn("debit rejected, insufficient balance",
			zap.String("company_id", companyID),
			zap.String("employee_id", employeeID),
			zap.String("leave_type", leaveType),
			zap.Int("year", year),
			zap.String("available", current.RemainingDays.String()),
			zap.String("required", amount.String()),
		)
		return balanceerrors.InsufficientBalance(current.RemainingDays.String(), amount.String())
	}

	s.logger.Info("balance debited",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", leaveType),
		zap.Int("year", year),
		zap.String("amount", amount.String()),
	)
	return nil
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:            b.ID.String(),
		CompanyID:     b.CompanyID.String(),
		EmployeeID:    b.EmployeeID.String(),
		LeaveType:     b.LeaveType,
		Year:          b.Year,
		RemainingDays: b.RemainingDays.String(),
	}
}

func mapToListResponse(balances []LeaveBalance) []BalanceResponse {
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp
}
