package holiday

import (
	"context"
	"database/sql"
	"time"

	"leaveops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, h *Holiday) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Holiday, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Holiday, error)
	FindInRange(ctx context.Context, companyID string, start, end time.Time) ([]Holiday, error)
	FindRecurring(ctx context.Context, companyID string) ([]Holiday, error)
	Delete(ctx context.Context, companyID, id string) error
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

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Holiday, error) {
	var h Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&h, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repository) FindInRange(ctx context.Context, companyID string, start, end time.Time) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("date BETWEEN ? AND ?", start, end).
		Where("recurring = ?", false).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) FindRecurring(ctx context.Context, companyID string) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("recurring = ?", true).
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Holiday{}, "id = ?", id).Error
}
