package policy

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ViolationNoticePeriod        = "NOTICE_PERIOD"
	ViolationMaxConsecutiveDays  = "MAX_CONSECUTIVE_DAYS"
	ViolationInsufficientBalance = "INSUFFICIENT_BALANCE"
)

// Violation is one failed policy rule. Limit and Actual carry the numeric
// pair behind the rule (for INSUFFICIENT_BALANCE: Limit = available balance,
// Actual = requested working days) so a UI can explain the shortfall.
type Violation struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Limit   string `json:"limit,omitempty"`
	Actual  string `json:"actual,omitempty"`
}

// ValidationInput is the submission snapshot the rules run against.
type ValidationInput struct {
	StartDate        time.Time
	WorkingDays      int
	AvailableBalance decimal.Decimal
}

// Validate evaluates every rule independently and reports all failures at
// once. An empty slice means the submission passes.
func Validate(in ValidationInput, pol *TenantLeavePolicy, today time.Time) []Violation {
	var violations []Violation

	noticeDays := wholeDaysBetween(today, in.StartDate)
	if noticeDays < pol.MinimumNoticeDays {
		violations = append(violations, Violation{
			Kind: ViolationNoticePeriod,
			Message: fmt.Sprintf(
				"leave must be requested at least %d day(s) in advance, got %d",
				pol.MinimumNoticeDays, noticeDays,
			),
			Limit:  fmt.Sprintf("%d", pol.MinimumNoticeDays),
			Actual: fmt.Sprintf("%d", noticeDays),
		})
	}

	if pol.MaximumConsecutiveDays != nil && in.WorkingDays > *pol.MaximumConsecutiveDays {
		violations = append(violations, Violation{
			Kind: ViolationMaxConsecutiveDays,
			Message: fmt.Sprintf(
				"request spans %d working day(s), tenant maximum is %d",
				in.WorkingDays, *pol.MaximumConsecutiveDays,
			),
			Limit:  fmt.Sprintf("%d", *pol.MaximumConsecutiveDays),
			Actual: fmt.Sprintf("%d", in.WorkingDays),
		})
	}

	requested := decimal.NewFromInt(int64(in.WorkingDays))
	if requested.GreaterThan(in.AvailableBalance) {
		violations = append(violations, Violation{
			Kind: ViolationInsufficientBalance,
			Message: fmt.Sprintf(
				"request needs %s day(s) but only %s remain",
				requested.String(), in.AvailableBalance.String(),
			),
			Limit:  in.AvailableBalance.String(),
			Actual: requested.String(),
		})
	}

	return violations
}

// wholeDaysBetween counts whole calendar days from today to the leave start,
// both normalized to midnight UTC. A start in the past yields a negative
// count, which always trips a non-zero notice rule.
func wholeDaysBetween(today, start time.Time) int {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	return int(s.Sub(t).Hours() / 24)
}
