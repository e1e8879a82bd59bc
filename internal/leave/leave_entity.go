package leave

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	CategoryInsufficientDetail   = "INSUFFICIENT_DETAIL"
	CategoryDaysExceedLimit      = "DAYS_EXCEED_LIMIT"
	CategoryMissingDocumentation = "MISSING_DOCUMENTATION"
	CategoryDuplicateEntry       = "DUPLICATE_ENTRY"
	CategoryInvalidDateRange     = "INVALID_DATE_RANGE"
	CategoryOther                = "OTHER"
)

var rejectionCategories = map[string]struct{}{
	CategoryInsufficientDetail:   {},
	CategoryDaysExceedLimit:      {},
	CategoryMissingDocumentation: {},
	CategoryDuplicateEntry:       {},
	CategoryInvalidDateRange:     {},
	CategoryOther:                {},
}

func IsValidRejectionCategory(category string) bool {
	_, ok := rejectionCategories[category]
	return ok
}

// LeaveRequest is the mutable request row. working_days and day_snapshot are
// frozen at submission; later policy or holiday-calendar edits never change
// what an approval debits.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`

	RequestNumber string `gorm:"type:varchar(20);not null"`

	LeaveType   string          `gorm:"type:varchar(30);not null"`
	StartDate   time.Time       `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate     time.Time       `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	WorkingDays int             `gorm:"type:int;not null"`
	DaySnapshot json.RawMessage `gorm:"type:jsonb"`
	Reason      string          `gorm:"type:text"`
	DocumentRef *string         `gorm:"type:text"`

	Status            string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_company_status"`
	CreatedBy         uuid.UUID  `gorm:"type:uuid;not null"`
	ReviewedBy        *uuid.UUID `gorm:"type:uuid"`
	DecidedAt         *time.Time
	RejectionReason   *string `gorm:"type:text"`
	RejectionCategory *string `gorm:"type:varchar(30)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// RejectionRecord is the append-only audit row written alongside every
// rejection. Unlike the request row it is never updated.
type RejectionRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null"`
	RequestID  uuid.UUID `gorm:"type:uuid;not null;index:idx_rejection_records_request"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null"`
	Reason     string    `gorm:"type:text;not null"`
	Category   string    `gorm:"type:varchar(30);not null"`
	CreatedAt  time.Time
}

func (RejectionRecord) TableName() string {
	return "leave_rejection_records"
}
