package authz

import (
	"context"

	"leaveops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=authz_repo.go -destination=mock/authz_repo_mock.go -package=mock
type Repository interface {
	GetEmployeeRoles(companyID string) ([]EmployeeRole, error)
	GetRolePermissions(companyID string) ([]RolePermission, error)
	IsDirectManager(ctx context.Context, companyID, managerID, employeeID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetEmployeeRoles(companyID string) ([]EmployeeRole, error) {
	var roles []EmployeeRole
	err := r.db.
		Table("employee_roles").
		Select("employee_id, role_id").
		Scopes(tenant.Scope(companyID)).
		Scan(&roles).Error
	return roles, err
}

func (r *repository) GetRolePermissions(companyID string) ([]RolePermission, error) {
	var perms []RolePermission
	err := r.db.
		Table("role_permissions").
		Select("role_id, resource, action").
		Scopes(tenant.Scope(companyID)).
		Scan(&perms).Error
	return perms, err
}

// IsDirectManager reads the org-chart relation owned by the identity
// collaborator. This engine never writes the employees table.
func (r *repository) IsDirectManager(ctx context.Context, companyID, managerID, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Scopes(tenant.Scope(companyID)).
		Where("manager_id = ?", managerID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
