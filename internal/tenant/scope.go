package tenant

import "gorm.io/gorm"

// Scope restricts any gorm query to a single tenant. Every table in this
// engine carries a company_id column.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
