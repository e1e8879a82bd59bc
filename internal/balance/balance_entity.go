package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is one row of the per-employee ledger, keyed by
// (company, employee, leave type, calendar year). remaining_days is never
// negative; the debit path enforces that inside the decision transaction.
type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`

	LeaveType     string          `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_balances_key"`
	Year          int             `gorm:"type:int;not null;uniqueIndex:uq_leave_balances_key"`
	RemainingDays decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}
