package policy

import (
	"context"
	"database/sql"
	"errors"
	"time"

	policyerrors "leaveops/internal/policy/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=policy_service.go -destination=mock/policy_service_mock.go -package=mock
type Service interface {
	GetOrInit(ctx context.Context, companyID string) (PolicyResponse, error)
	Update(ctx context.Context, companyID string, req UpdatePolicyRequest) (PolicyResponse, error)
	Resolve(ctx context.Context, companyID string) (*TenantLeavePolicy, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("policy.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("policy.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// Resolve returns the tenant policy row, lazily creating it from system
// defaults on first access. Other services (leave, balance) depend on this
// rather than reading policy tables themselves.
func (s *service) Resolve(ctx context.Context, companyID string) (*TenantLeavePolicy, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, policyerrors.ErrInvalidCompanyID
	}

	p, err := s.repo.FindByCompany(ctx, companyID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := DefaultsForCompany(companyUUID)
	if err := s.repo.Create(ctx, created); err != nil {
		// A concurrent request may have seeded the row first; fall back to
		// the committed one.
		if existing, findErr := s.repo.FindByCompany(ctx, companyID); findErr == nil {
			return existing, nil
		}
		s.logger.Error("seed default policy failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("seeded default leave policy", zap.String("company_id", companyID))
	return created, nil
}

func (s *service) GetOrInit(ctx context.Context, companyID string) (PolicyResponse, error) {
	p, err := s.Resolve(ctx, companyID)
	if err != nil {
		return PolicyResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, companyID string, req UpdatePolicyRequest) (PolicyResponse, error) {
	s.logger.Debug("update policy requested",
		zap.String("company_id", companyID),
		zap.Int("minimum_notice_days", req.MinimumNoticeDays),
	)

	if req.MinimumNoticeDays < 0 {
		return PolicyResponse{}, policyerrors.ErrInvalidNoticeDays
	}
	if req.MaximumConsecutiveDays != nil && *req.MaximumConsecutiveDays < 1 {
		return PolicyResponse{}, policyerrors.ErrInvalidMaxConsecutive
	}
	for _, v := range []int{req.AnnualDays, req.SickDays, req.PersonalDays, req.MaternityDays, req.PaternityDays, req.UnpaidDays} {
		if v < 0 {
			return PolicyResponse{}, policyerrors.ErrInvalidEntitlement
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update policy begin tx failed", zap.Error(err))
		return PolicyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.Resolve(ctx, companyID)
	if err != nil {
		return PolicyResponse{}, err
	}

	p.MinimumNoticeDays = req.MinimumNoticeDays
	p.MaximumConsecutiveDays = req.MaximumConsecutiveDays
	p.AnnualDays = req.AnnualDays
	p.SickDays = req.SickDays
	p.PersonalDays = req.PersonalDays
	p.MaternityDays = req.MaternityDays
	p.PaternityDays = req.PaternityDays
	p.UnpaidDays = req.UnpaidDays
	p.UpdatedAt = time.Now().UTC()

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("update policy persist failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return PolicyResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update policy commit failed", zap.Error(err))
		return PolicyResponse{}, err
	}

	s.logger.Info("update policy success", zap.String("company_id", companyID))
	return mapToResponse(*p), nil
}

func mapToResponse(p TenantLeavePolicy) PolicyResponse {
	return PolicyResponse{
		ID:                     p.ID.String(),
		CompanyID:              p.CompanyID.String(),
		MinimumNoticeDays:      p.MinimumNoticeDays,
		MaximumConsecutiveDays: p.MaximumConsecutiveDays,
		AnnualDays:             p.AnnualDays,
		SickDays:               p.SickDays,
		PersonalDays:           p.PersonalDays,
		MaternityDays:          p.MaternityDays,
		PaternityDays:          p.PaternityDays,
		UnpaidDays:             p.UnpaidDays,
	}
}
