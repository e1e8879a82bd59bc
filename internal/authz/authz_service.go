package authz

import (
	"context"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// Action an elevated role (HR admin and similar) must hold to decide leave
// requests it does not directly manage.
const (
	ResourceLeave   = "leave"
	ActionDecideAny = "decide_any"
)

//go:generate mockgen -source=authz_service.go -destination=mock/authz_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
	IsManagerOf(ctx context.Context, companyID, reviewerID, employeeID string) (bool, error)
	IsElevatedRole(ctx context.Context, companyID, employeeID string) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("authz.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("authz.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) loadCompanyPolicyUnlocked(companyID string) error {
	s.enforcer.ClearPolicy()

	employeeRoles, err := s.repo.GetEmployeeRoles(companyID)
	if err != nil {
		return err
	}

	for _, er := range employeeRoles {
		if _, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.RoleID, companyID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(companyID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, companyID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCompanyPolicyUnlocked(req.CompanyID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.EmployeeID,
		req.CompanyID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("company_id", req.CompanyID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("employee_id", req.EmployeeID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}

// IsManagerOf reports whether reviewer directly manages employee. The
// relation is owned by the identity collaborator and consumed as an opaque
// predicate.
func (s *service) IsManagerOf(ctx context.Context, companyID, reviewerID, employeeID string) (bool, error) {
	return s.repo.IsDirectManager(ctx, companyID, reviewerID, employeeID)
}

// IsElevatedRole reports whether the employee holds a role allowed to decide
// any leave request in the company.
func (s *service) IsElevatedRole(ctx context.Context, companyID, employeeID string) (bool, error) {
	return s.Enforce(EnforceRequest{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Resource:   ResourceLeave,
		Action:     ActionDecideAny,
	})
}
