package balance

type BalanceResponse struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	EmployeeID    string `json:"employee_id"`
	LeaveType     string `json:"leave_type"`
	Year          int    `json:"year"`
	RemainingDays string `json:"remaining_days"`
}
