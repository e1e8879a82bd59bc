package holiday

type CreateHolidayRequest struct {
	Date      string `json:"date" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type" binding:"omitempty,oneof=PUBLIC COMPANY REGIONAL"`
	Recurring bool   `json:"recurring"`
}

type HolidayResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Recurring bool   `json:"recurring"`
}
