// Package coverage derives a manager's team calendar from committed leave
// requests. It is read-only reporting: no locking, no writes, and the view
// may lag in-flight decisions by design of the callers.
package coverage

import (
	"sort"
	"time"

	"leaveops/internal/leave"
)

const (
	BucketCritical = "critical"
	BucketWarning  = "warning"
	BucketGood     = "good"
)

// DefaultPeakDays caps the ranked peak list when the caller does not ask
// for a specific size.
const DefaultPeakDays = 5

type DayCoverage struct {
	Date               string   `json:"date"`
	DayOfWeek          string   `json:"dayOfWeek"`
	OnLeave            []string `json:"onLeave"`
	OnLeaveCount       int      `json:"onLeaveCount"`
	AvailableCount     int      `json:"availableCount"`
	CoveragePercentage float64  `json:"coveragePercentage"`
	Bucket             string   `json:"bucket"`
}

type CalendarView struct {
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	TeamSize  int           `json:"teamSize"`
	Days      []DayCoverage `json:"days"`
	PeakDays  []DayCoverage `json:"peakDays"`
}

// BuildCalendar walks every calendar day in [start, end] and counts the team
// members whose PENDING or APPROVED requests span it. A member is on leave
// across the request's full calendar span, weekends and holidays included;
// only the billing computation narrows to working days. teamSize is the
// fixed denominator for the whole window, never recomputed per day.
func BuildCalendar(teamMemberIDs []string, start, end time.Time, requests []leave.LeaveRequest, peakN int) CalendarView {
	teamSize := len(teamMemberIDs)
	members := make(map[string]struct{}, teamSize)
	for _, id := range teamMemberIDs {
		members[id] = struct{}{}
	}

	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	view := CalendarView{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		TeamSize:  teamSize,
	}
	if teamSize == 0 || end.Before(start) {
		return view
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := DayCoverage{
			Date:      d.Format("2006-01-02"),
			DayOfWeek: d.Weekday().String(),
			OnLeave:   []string{},
		}
		seen := make(map[string]struct{})
		for _, req := range requests {
			if req.Status != leave.StatusPending && req.Status != leave.StatusApproved {
				continue
			}
			employeeID := req.EmployeeID.String()
			if _, ok := members[employeeID]; !ok {
				continue
			}
			if _, dup := seen[employeeID]; dup {
				continue
			}
			if d.Before(truncateDay(req.StartDate)) || d.After(truncateDay(req.EndDate)) {
				continue
			}
			seen[employeeID] = struct{}{}
			day.OnLeave = append(day.OnLeave, employeeID)
		}
		sort.Strings(day.OnLeave)
		day.OnLeaveCount = len(day.OnLeave)
		day.AvailableCount = teamSize - day.OnLeaveCount
		day.CoveragePercentage = float64(day.AvailableCount) / float64(teamSize) * 100
		day.Bucket = bucketFor(day.CoveragePercentage)
		view.Days = append(view.Days, day)
	}

	view.PeakDays = peakDays(view.Days, peakN)
	return view
}

// 50 is warning, not critical; 75 is good, not warning.
func bucketFor(pct float64) string {
	switch {
	case pct < 50:
		return BucketCritical
	case pct < 75:
		return BucketWarning
	default:
		return BucketGood
	}
}

// peakDays ranks days by onLeaveCount descending, ties broken by earliest
// date, and returns at most n entries with a nonzero count.
func peakDays(days []DayCoverage, n int) []DayCoverage {
	if n <= 0 {
		n = DefaultPeakDays
	}
	ranked := make([]DayCoverage, len(days))
	copy(ranked, days)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].OnLeaveCount != ranked[j].OnLeaveCount {
			return ranked[i].OnLeaveCount > ranked[j].OnLeaveCount
		}
		return ranked[i].Date < ranked[j].Date
	})

	peaks := make([]DayCoverage, 0, n)
	for _, day := range ranked {
		if day.OnLeaveCount == 0 || len(peaks) == n {
			break
		}
		peaks = append(peaks, day)
	}
	return peaks
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
