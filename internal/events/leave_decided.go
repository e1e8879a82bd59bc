package events

import "time"

const LeaveDecidedTopic = "hr.leave.decided.v1"

const (
	LeaveDecisionApproved = "APPROVED"
	LeaveDecisionRejected = "REJECTED"
)

// LeaveDecidedEvent is emitted through the transactional outbox whenever a
// pending request is approved or rejected. Downstream consumers (notifier,
// reporting) react to it; this engine never sends notifications itself.
type LeaveDecidedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	CompanyID   string    `json:"company_id"`
	EmployeeID  string    `json:"employee_id"`
	LeaveType   string    `json:"leave_type"`
	Decision    string    `json:"decision"`
	WorkingDays int       `json:"working_days"`
	ReviewerID  string    `json:"reviewer_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}
