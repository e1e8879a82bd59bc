package policy

type UpdatePolicyRequest struct {
	MinimumNoticeDays      int  `json:"minimum_notice_days" binding:"min=0"`
	MaximumConsecutiveDays *int `json:"maximum_consecutive_days"`
	AnnualDays             int  `json:"annual_days" binding:"min=0"`
	SickDays               int  `json:"sick_days" binding:"min=0"`
	PersonalDays           int  `json:"personal_days" binding:"min=0"`
	MaternityDays          int  `json:"maternity_days" binding:"min=0"`
	PaternityDays          int  `json:"paternity_days" binding:"min=0"`
	UnpaidDays             int  `json:"unpaid_days" binding:"min=0"`
}

type PolicyResponse struct {
	ID                     string `json:"id"`
	CompanyID              string `json:"company_id"`
	MinimumNoticeDays      int    `json:"minimum_notice_days"`
	MaximumConsecutiveDays *int   `json:"maximum_consecutive_days"`
	AnnualDays             int    `json:"annual_days"`
	SickDays               int    `json:"sick_days"`
	PersonalDays           int    `json:"personal_days"`
	MaternityDays          int    `json:"maternity_days"`
	PaternityDays          int    `json:"paternity_days"`
	UnpaidDays             int    `json:"unpaid_days"`
}
