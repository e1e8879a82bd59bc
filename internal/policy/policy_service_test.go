package policy_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"leaveops/internal/policy"
	policyerrors "leaveops/internal/policy/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePolicyRepository struct {
	withTxFn        func(tx *sql.Tx) policy.Repository
	findByCompanyFn func(ctx context.Context, companyID string) (*policy.TenantLeavePolicy, error)
	createFn        func(ctx context.Context, p *policy.TenantLeavePolicy) error
	updateFn        func(ctx context.Context, p *policy.TenantLeavePolicy) error
}

func (f *fakePolicyRepository) WithTx(tx *sql.Tx) policy.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePolicyRepository) FindByCompany(ctx context.Context, companyID string) (*policy.TenantLeavePolicy, error) {
	if f.findByCompanyFn != nil {
		return f.findByCompanyFn(ctx, companyID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePolicyRepository) Create(ctx context.Context, p *policy.TenantLeavePolicy) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePolicyRepository) Update(ctx context.Context, p *policy.TenantLeavePolicy) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

type policyServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service policy.Service
	repo    *fakePolicyRepository
}

func setupPolicyServiceTest(t *testing.T) *policyServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePolicyRepository{}
	svc := policy.NewService(db, repo)

	return &policyServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func TestPolicyService_Resolve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success existing row", func(t *testing.T) {
		deps := setupPolicyServiceTest(t)
		defer deps.db.Close()

		existing := policy.DefaultsForCompany(uuid.MustParse(companyID))
		existing.MinimumNoticeDays = 3

		deps.repo.findByCompanyFn = func(ctx context.Context, cid string) (*policy.TenantLeavePolicy, error) {
			assert.Equal(t, companyID, cid)
			return existing, nil
		}

		p, err := deps.service.Resolve(ctx, companyID)

		assert.NoError(t, err)
		assert.Equal(t, 3, p.MinimumNoticeDays)
	})

	t.Run("success seeds defaults on first access", func(t *testing.T) {
		deps := setupPolicyServiceTest(t)
		defer deps.db.Close()

		var created *policy.TenantLeavePolicy
		deps.repo.createFn = func(ctx context.Context, p *policy.TenantLeavePolicy) error {
			created = p
			return nil
		}

		p, err := deps.service.Resolve(ctx, companyID)

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, 20, p.AnnualDays)
		assert.Equal(t, 90, p.MaternityDays)
		assert.Equal(t, 0, p.MinimumNoticeDays)
		assert.Nil(t, p.MaximumConsecutiveDays)
	})

	t.Run("success falls back to row seeded by concurrent request", func(t *testing.T) {
		deps := setupPolicyServiceTest(t)
		defer deps.db.Close()

		winner := policy.DefaultsForCompany(uuid.MustParse(companyID))
		firstLookup := true

		deps.repo.findByCompanyFn = func(ctx context.Context, cid string) (*policy.TenantLeavePolicy, error) {
			if firstLookup {
				firstLookup = false
				return nil, gorm.ErrRecordNotFound
			}
			return winner, nil
		}
		deps.repo.createFn = func(ctx context.Context, p *policy.TenantLeavePolicy) error {
			return errors.New("duplicate key value violates unique constraint")
		}

		p, err := deps.service.Resolve(ctx, companyID)

		assert.NoError(t, err)
		assert.Equal(t, winner.ID, p.ID)
	})

	t.Run("negative invalid company id", func(t *testing.T) {
		deps := setupPolicyServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Resolve(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, policyerrors.ErrInvalidCompanyID)
	})
}

func TestPolicyService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	validRequest := func() policy.UpdatePolicyRequest {
		return policy.UpdatePolicyRequest{
			MinimumNoticeDays: 2,
			AnnualDays:        25,
			SickDays:          12,
			PersonalDays:      5,
			MaternityDays:     90,
			PaternityDays:     15,
			UnpaidDays:        0,
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupPolicyServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		existing := policy.DefaultsForCompany(uuid.MustParse(companyID))
		deps.repo.findByCompanyFn = func(ctx context.Context, cid string) (*policy.TenantLeavePolicy, error) {
			return existing, nil
		}

		var updated *policy.TenantLeavePolicy
		deps.repo.updateFn = func(ctx context.Context, p *policy.TenantLeavePolicy) error {
			updated = p
			return nil
		}

		resp, err := deps.service.Update(ctx, companyID, validRequest())

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.MinimumNoticeDays)
		assert.Equal(t, 25, resp.AnnualDays)
		assert.NotNil(t, updated)
		assert.Equal(t, 25, updated.AnnualDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative notice days below zero", func(t *testing.T) {
		deps := setupPolicyServiceTest(t)
		defer deps.db.Close()

		req := validRequest()
		req.MinimumNoticeDays = -1

		_, err := deps.service.Update(ctx, companyID, req)

		assert.ErrorIs(t, err, policyerrors.ErrInvalidNoticeDays)
	})

	t.Run("negative max consecutive below one", func(t *testing.T) {
		deps := setupPolicyServiceTest(t)
		defer deps.db.Close()

		zero := 0
		req := validRequest()
		req.MaximumConsecutiveDays = &zero

		_, err := deps.service.Update(ctx, companyID, req)

		assert.ErrorIs(t, err, policyerrors.ErrInvalidMaxConsecutive)
	})

	t.Run("negative entitlement below zero", func(t *testing.T) {
		deps := setupPolicyServiceTest(t)
		defer deps.db.Close()

		req := validRequest()
		req.SickDays = -3

		_, err := deps.service.Update(ctx, companyID, req)

		assert.ErrorIs(t, err, policyerrors.ErrInvalidEntitlement)
	})

	t.Run("negative persist failure rolls back", func(t *testing.T) {
		deps := setupPolicyServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		existing := policy.DefaultsForCompany(uuid.MustParse(companyID))
		deps.repo.findByCompanyFn = func(ctx context.Context, cid string) (*policy.TenantLeavePolicy, error) {
			return existing, nil
		}
		deps.repo.updateFn = func(ctx context.Context, p *policy.TenantLeavePolicy) error {
			return errors.New("db error")
		}

		_, err := deps.service.Update(ctx, companyID, validRequest())

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
