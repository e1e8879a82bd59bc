package balanceerrors

import (
	"net/http"

	"leaveops/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave type",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year must be a four digit calendar year",
		http.StatusBadRequest,
	)
	ErrInvalidDebitAmount = apperror.New(
		apperror.CodeInvalidInput,
		"debit amount must be positive",
		http.StatusBadRequest,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found",
		http.StatusNotFound,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"remaining leave balance is not enough for this request",
		http.StatusUnprocessableEntity,
	)
)

// InsufficientBalanceDetails is attached to ErrInsufficientBalance so the
// caller can explain the shortfall.
type InsufficientBalanceDetails struct {
	Available string `json:"available"`
	Required  string `json:"required"`
}

func InsufficientBalance(available, required string) *apperror.AppError {
	return ErrInsufficientBalance.WithDetails(InsufficientBalanceDetails{
		Available: available,
		Required:  required,
	})
}
