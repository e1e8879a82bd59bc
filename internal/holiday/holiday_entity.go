package holiday

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypePublic   = "PUBLIC"
	TypeCompany  = "COMPANY"
	TypeRegional = "REGIONAL"
)

// Holiday is one tenant-scoped calendar entry consumed by the workday
// calculator. Recurring holidays repeat every year on the same month/day.
type Holiday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_holidays_company_date"`

	Date      time.Time `gorm:"type:date;not null;index:idx_holidays_company_date"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Type      string    `gorm:"type:varchar(20);not null;default:'PUBLIC'"`
	Recurring bool      `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Holiday) TableName() string {
	return "holidays"
}
