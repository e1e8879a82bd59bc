package leaveerrors

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
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave type",
		http.StatusBadRequest,
	)
	ErrStartDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"retroactive leave requests are not supported",
		http.StatusBadRequest,
	)
	ErrNoWorkingDays = apperror.New(
		apperror.CodeInvalidInput,
		"requested range contains no working days",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeAlreadyProcessed,
		"leave request was already processed by another reviewer",
		http.StatusConflict,
	)
	ErrNotAuthorizedReviewer = apperror.New(
		apperror.CodeForbidden,
		"only the employee's manager or an elevated role may decide this request",
		http.StatusForbidden,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the original submitter may cancel this request",
		http.StatusForbidden,
	)
	ErrRejectionReasonTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"rejection reason must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrInvalidRejectionCategory = apperror.New(
		apperror.CodeInvalidInput,
		"unknown rejection category",
		http.StatusBadRequest,
	)
	ErrPolicyViolations = apperror.New(
		apperror.CodePolicyViolation,
		"leave request violates tenant policy",
		http.StatusUnprocessableEntity,
	)
	ErrEmptyBulkRequest = apperror.New(
		apperror.CodeInvalidInput,
		"request_ids must not be empty",
		http.StatusBadRequest,
	)
)
