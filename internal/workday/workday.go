package workday

import "time"

const (
	StatusWorking = "WORKING"
	StatusWeekend = "WEEKEND"
	StatusHoliday = "HOLIDAY"
)

const dateLayout = "2006-01-02"

// Day is the classification of a single calendar date inside a leave range.
type Day struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	Status    string `json:"status"`
}

// HolidaySet is a lookup of tenant holiday dates keyed by YYYY-MM-DD.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d.Format(dateLayout)] = struct{}{}
	}
	return set
}

func (s HolidaySet) Contains(d time.Time) bool {
	_, ok := s[d.Format(dateLayout)]
	return ok
}

// Classify walks the inclusive [start, end] range and labels every date.
// A registered holiday wins over a weekend so a date is never counted twice.
// The function is deterministic and side-effect free; callers freeze its
// output at submission time.
func Classify(start, end time.Time, holidays HolidaySet) []Day {
	if end.Before(start) {
		return nil
	}

	start = truncate(start)
	end = truncate(end)

	days := make([]Day, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, Day{
			Date:      d.Format(dateLayout),
			DayOfWeek: d.Weekday().String(),
			Status:    classifyDate(d, holidays),
		})
	}
	return days
}

// CountWorking returns how many entries are billable working days.
func CountWorking(days []Day) int {
	count := 0
	for _, d := range days {
		if d.Status == StatusWorking {
			count++
		}
	}
	return count
}

func classifyDate(d time.Time, holidays HolidaySet) string {
	if holidays.Contains(d) {
		return StatusHoliday
	}
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return StatusWeekend
	}
	return StatusWorking
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
