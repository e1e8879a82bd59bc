package policy

import (
	"context"
	"database/sql"

	"leaveops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=policy_repo.go -destination=mock/policy_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByCompany(ctx context.Context, companyID string) (*TenantLeavePolicy, error)
	Create(ctx context.Context, p *TenantLeavePolicy) error
	Update(ctx context.Context, p *TenantLeavePolicy) error
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

func (r *repository) FindByCompany(ctx context.Context, companyID string) (*TenantLeavePolicy, error) {
	var p TenantLeavePolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *TenantLeavePolicy) error {
	if r.tx != nil {
		query := `
			INSERT INTO tenant_leave_policies (
				id, company_id, minimum_notice_days, maximum_consecutive_days,
				annual_days, sick_days, personal_days, maternity_days, paternity_days, unpaid_days,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			ON CONFLICT (company_id) DO NOTHING
		`
		_, err := r.tx.ExecContext(ctx, query,
			p.ID, p.CompanyID, p.MinimumNoticeDays, p.MaximumConsecutiveDays,
			p.AnnualDays, p.SickDays, p.PersonalDays, p.MaternityDays, p.PaternityDays, p.UnpaidDays,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) Update(ctx context.Context, p *TenantLeavePolicy) error {
	return r.db.WithContext(ctx).Save(p).Error
}
