package authz

// EnforceRequest asks whether an employee may perform an action on a
// resource within their company.
type EnforceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	CompanyID  string `json:"company_id" binding:"required"`
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
}

type EmployeeRole struct {
	EmployeeID string
	RoleID     string
}

type RolePermission struct {
	RoleID   string
	Resource string
	Action   string
}
