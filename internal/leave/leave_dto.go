package leave

import "leaveops/internal/workday"

type SubmitLeaveRequest struct {
	EmployeeID  string  `json:"employee_id" binding:"omitempty,uuid"`
	LeaveType   string  `json:"leave_type" binding:"required,oneof=ANNUAL SICK PERSONAL MATERNITY PATERNITY UNPAID"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	Reason      string  `json:"reason"`
	DocumentRef *string `json:"document_ref"`
}

type RejectLeaveRequest struct {
	Reason   string `json:"reason" binding:"required,min=10"`
	Category string `json:"category" binding:"omitempty,oneof=INSUFFICIENT_DETAIL DAYS_EXCEED_LIMIT MISSING_DOCUMENTATION DUPLICATE_ENTRY INVALID_DATE_RANGE OTHER"`
}

type BulkRejectRequest struct {
	RequestIDs []string `json:"request_ids" binding:"required,min=1"`
	Reason     string   `json:"reason" binding:"required,min=10"`
	Category   string   `json:"category" binding:"omitempty,oneof=INSUFFICIENT_DETAIL DAYS_EXCEED_LIMIT MISSING_DOCUMENTATION DUPLICATE_ENTRY INVALID_DATE_RANGE OTHER"`
}

type LeaveResponse struct {
	ID                string        `json:"id"`
	CompanyID         string        `json:"company_id"`
	EmployeeID        string        `json:"employee_id"`
	RequestNumber     string        `json:"request_number"`
	LeaveType         string        `json:"leave_type"`
	StartDate         string        `json:"start_date"`
	EndDate           string        `json:"end_date"`
	WorkingDays       int           `json:"working_days"`
	ExcludedDays      []workday.Day `json:"excluded_days,omitempty"`
	Reason            string        `json:"reason"`
	DocumentRef       *string       `json:"document_ref,omitempty"`
	Status            string        `json:"status"`
	CreatedBy         string        `json:"created_by"`
	ReviewedBy        *string       `json:"reviewed_by,omitempty"`
	DecidedAt         *string       `json:"decided_at,omitempty"`
	RejectionReason   *string       `json:"rejection_reason,omitempty"`
	RejectionCategory *string       `json:"rejection_category,omitempty"`
}

// BulkRejectResult reports one item of a bulk rejection. A failure on one
// request never blocks the others.
type BulkRejectResult struct {
	RequestID string         `json:"request_id"`
	Ok        bool           `json:"ok"`
	Request   *LeaveResponse `json:"request,omitempty"`
	ErrorCode string         `json:"error_code,omitempty"`
	Error     string         `json:"error,omitempty"`
}
