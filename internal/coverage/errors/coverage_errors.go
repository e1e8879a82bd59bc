package coverageerrors

import (
	"net/http"

	"leaveops/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(apperror.CodeInvalidInput, "invalid company id format", http.StatusBadRequest)
	ErrEmptyTeam        = apperror.New(apperror.CodeInvalidInput, "at least one team member id is required", http.StatusBadRequest)
	ErrInvalidMemberID  = apperror.New(apperror.CodeInvalidInput, "invalid team member id format", http.StatusBadRequest)
	ErrInvalidMonth     = apperror.New(apperror.CodeInvalidInput, "month must be in YYYY-MM format", http.StatusBadRequest)
	ErrMissingWindow    = apperror.New(apperror.CodeInvalidInput, "either month or start_date and end_date are required", http.StatusBadRequest)
	ErrInvalidDate      = apperror.New(apperror.CodeInvalidInput, "dates must be in YYYY-MM-DD format", http.StatusBadRequest)
	ErrInvalidDateRange = apperror.New(apperror.CodeInvalidInput, "end date must not be before start date", http.StatusBadRequest)
	ErrWindowTooLarge   = apperror.New(apperror.CodeInvalidInput, "requested window exceeds the maximum of 92 days", http.StatusBadRequest)
)
