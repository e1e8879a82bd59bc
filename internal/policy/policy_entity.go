package policy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypeAnnual    = "ANNUAL"
	TypeSick      = "SICK"
	TypePersonal  = "PERSONAL"
	TypeMaternity = "MATERNITY"
	TypePaternity = "PATERNITY"
	TypeUnpaid    = "UNPAID"
)

// LeaveTypes lists every supported leave type in display order.
var LeaveTypes = []string{
	TypeAnnual,
	TypeSick,
	TypePersonal,
	TypeMaternity,
	TypePaternity,
	TypeUnpaid,
}

// systemDefaults are the entitlements used when a tenant has not configured
// its own. An unknown type resolves to zero days.
var systemDefaults = map[string]int{
	TypeAnnual:    20,
	TypeSick:      10,
	TypePersonal:  5,
	TypeMaternity: 90,
	TypePaternity: 15,
	TypeUnpaid:    0,
}

func IsValidType(leaveType string) bool {
	_, ok := systemDefaults[leaveType]
	return ok
}

func SystemDefaultEntitlement(leaveType string) decimal.Decimal {
	return decimal.NewFromInt(int64(systemDefaults[leaveType]))
}

// TenantLeavePolicy is the per-company policy row. One row per tenant,
// lazily created from system defaults on first access.
type TenantLeavePolicy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_policies_company"`

	MinimumNoticeDays      int  `gorm:"type:int;not null;default:0"`
	MaximumConsecutiveDays *int `gorm:"type:int"` // nil = unlimited

	AnnualDays    int `gorm:"type:int;not null;default:20"`
	SickDays      int `gorm:"type:int;not null;default:10"`
	PersonalDays  int `gorm:"type:int;not null;default:5"`
	MaternityDays int `gorm:"type:int;not null;default:90"`
	PaternityDays int `gorm:"type:int;not null;default:15"`
	UnpaidDays    int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TenantLeavePolicy) TableName() string {
	return "tenant_leave_policies"
}

// DefaultEntitlement resolves the annual entitlement for a leave type,
// falling back to the system default for types the tenant never touched.
func (p *TenantLeavePolicy) DefaultEntitlement(leaveType string) decimal.Decimal {
	if p == nil {
		return SystemDefaultEntitlement(leaveType)
	}
	switch leaveType {
	case TypeAnnual:
		return decimal.NewFromInt(int64(p.AnnualDays))
	case TypeSick:
		return decimal.NewFromInt(int64(p.SickDays))
	case TypePersonal:
		return decimal.NewFromInt(int64(p.PersonalDays))
	case TypeMaternity:
		return decimal.NewFromInt(int64(p.MaternityDays))
	case TypePaternity:
		return decimal.NewFromInt(int64(p.PaternityDays))
	case TypeUnpaid:
		return decimal.NewFromInt(int64(p.UnpaidDays))
	default:
		return SystemDefaultEntitlement(leaveType)
	}
}

// DefaultsForCompany builds the policy row seeded from system defaults.
func DefaultsForCompany(companyID uuid.UUID) *TenantLeavePolicy {
	return &TenantLeavePolicy{
		ID:                uuid.New(),
		CompanyID:         companyID,
		MinimumNoticeDays: 0,
		AnnualDays:        systemDefaults[TypeAnnual],
		SickDays:          systemDefaults[TypeSick],
		PersonalDays:      systemDefaults[TypePersonal],
		MaternityDays:     systemDefaults[TypeMaternity],
		PaternityDays:     systemDefaults[TypePaternity],
		UnpaidDays:        systemDefaults[TypeUnpaid],
	}
}
