package policyerrors

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
	ErrPolicyNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave policy not found",
		http.StatusNotFound,
	)
	ErrInvalidNoticeDays = apperror.New(
		apperror.CodeInvalidInput,
		"minimum_notice_days must be zero or positive",
		http.StatusBadRequest,
	)
	ErrInvalidMaxConsecutive = apperror.New(
		apperror.CodeInvalidInput,
		"maximum_consecutive_days must be positive when set",
		http.StatusBadRequest,
	)
	ErrInvalidEntitlement = apperror.New(
		apperror.CodeInvalidInput,
		"default entitlements must be zero or positive",
		http.StatusBadRequest,
	)
)
