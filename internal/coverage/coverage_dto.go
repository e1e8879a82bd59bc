package coverage

// TeamCalendarRequest accepts either a month (YYYY-MM, expanded to the full
// month) or an explicit start/end pair. Member ids repeat as query params.
type TeamCalendarRequest struct {
	EmployeeIDs []string `form:"employee_ids" binding:"required,min=1"`
	Month       string   `form:"month" binding:"omitempty"`
	StartDate   string   `form:"start_date" binding:"omitempty"`
	EndDate     string   `form:"end_date" binding:"omitempty"`
	PeakDays    int      `form:"peak_days" binding:"omitempty,min=1,max=31"`
}
