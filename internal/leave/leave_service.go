package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"leaveops/internal/authz"
	"leaveops/internal/balance"
	"leaveops/internal/events"
	"leaveops/internal/holiday"
	leaveerrors "leaveops/internal/leave/errors"
	"leaveops/internal/messaging/kafka"
	"leaveops/internal/policy"
	"leaveops/internal/shared/apperror"
	"leaveops/internal/shared/counter"
	"leaveops/internal/shared/contextutil"
	"leaveops/internal/workday"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minRejectionReasonLen = 10

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, companyID, reviewerID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, companyID, reviewerID, id string, req RejectLeaveRequest) (LeaveResponse, error)
	BulkReject(ctx context.Context, companyID, reviewerID string, req BulkRejectRequest) ([]BulkRejectResult, error)
	Cancel(ctx context.Context, companyID, requesterID, id string) (LeaveResponse, error)
}

// Deps are the collaborators the lifecycle manager orchestrates. Holidays
// and policies feed submission, balances and the outbox join the approval
// transaction, and the authorizer is consumed as opaque predicates.
type Deps struct {
	Holidays   holiday.Service
	Policies   policy.Service
	Balances   balance.Service
	Authorizer authz.Service
	Counter    counter.Repository
	Outbox     kafka.OutboxRepository
}

type service struct {
	db     *sql.DB
	repo   Repository
	deps   Deps
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Deps, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, deps: deps, logger: l}
}

// Submit validates a proposed range against the tenant calendar and policy,
// then persists a PENDING request with the working-day count and day
// classification frozen as of now.
func (s *service) Submit(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	companyUUID, employeeUUID, createdByUUID, startDate, endDate, err := validateSubmitRequest(companyID, actorID, req)
	if err != nil {
		s.logger.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	today := todayUTC()
	if startDate.Before(today) {
		return LeaveResponse{}, leaveerrors.ErrStartDateInPast
	}

	holidays, err := s.deps.Holidays.HolidaySetForRange(ctx, companyID, startDate, endDate)
	if err != nil {
		s.logger.Error("submit leave holiday lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	days := workday.Classify(startDate, endDate, holidays)
	workingDays := workday.CountWorking(days)
	if workingDays == 0 {
		return LeaveResponse{}, leaveerrors.ErrNoWorkingDays
	}

	overlap, err := s.repo.HasOverlappingPeriod(ctx, companyID, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit leave overlap detected",
			zap.String("company_id", companyID),
			zap.String("employee_id", req.EmployeeID),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	pol, err := s.deps.Policies.Resolve(ctx, companyID)
	if err != nil {
		return LeaveResponse{}, err
	}

	bal, err := s.deps.Balances.GetOrInit(ctx, companyID, req.EmployeeID, req.LeaveType, startDate.Year())
	if err != nil {
		return LeaveResponse{}, err
	}

	violations := policy.Validate(policy.ValidationInput{
		StartDate:        startDate,
		WorkingDays:      workingDays,
		AvailableBalance: bal.RemainingDays,
	}, pol, today)
	if len(violations) > 0 {
		s.logger.Warn("submit leave policy violations",
			zap.String("company_id", companyID),
			zap.String("employee_id", req.EmployeeID),
			zap.Int("violations", len(violations)),
		)
		return LeaveResponse{}, leaveerrors.ErrPolicyViolations.WithDetails(violations)
	}

	snapshot, err := json.Marshal(days)
	if err != nil {
		return LeaveResponse{}, err
	}

	nextVal, err := s.deps.Counter.GetNextValue(ctx, companyID, "leave_request")
	if err != nil {
		s.logger.Error("submit leave generate number failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		EmployeeID:    employeeUUID,
		RequestNumber: fmt.Sprintf("LR-%06d", nextVal),
		LeaveType:     req.LeaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		WorkingDays:   workingDays,
		DaySnapshot:   snapshot,
		Reason:        req.Reason,
		DocumentRef:   req.DocumentRef,
		Status:        StatusPending,
		CreatedBy:     createdByUUID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("working_days", workingDays),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error) {
	requests, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

// Approve flips a PENDING request to APPROVED and debits the ledger in one
// transaction. Either both land or neither: an insufficient balance rolls
// the status flip back, and a lost status race surfaces as already-processed
// without touching the ledger.
func (s *service) Approve(ctx context.Context, companyID, reviewerID, id string) (LeaveResponse, error) {
	s.logger.Debug("approve leave requested",
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("reviewer_id", reviewerID),
	)

	l, err := s.loadForDecision(ctx, companyID, reviewerID, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	processed, err := qtx.MarkApproved(ctx, companyID, id, reviewerID, now)
	if err != nil {
		s.logger.Error("approve leave status flip failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !processed {
		s.logger.Warn("approve leave lost status race", zap.String("leave_id", id))
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	amount := decimal.NewFromInt(int64(l.WorkingDays))
	if err := s.deps.Balances.DebitTx(ctx, tx, companyID, l.EmployeeID.String(), l.LeaveType, l.StartDate.Year(), amount); err != nil {
		s.logger.Warn("approve leave debit failed, rolling back",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := s.enqueueDecidedEvent(ctx, tx, l, events.LeaveDecisionApproved, reviewerID, now); err != nil {
		s.logger.Error("approve leave outbox enqueue failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	reviewerUUID := uuid.MustParse(reviewerID)
	l.Status = StatusApproved
	l.ReviewedBy = &reviewerUUID
	l.DecidedAt = &now

	s.logger.Info("approve leave success",
		zap.String("leave_id", id),
		zap.String("reviewer_id", reviewerID),
		zap.Int("working_days", l.WorkingDays),
	)
	return mapToResponse(*l), nil
}

// Reject flips a PENDING request to REJECTED and appends the immutable
// audit record in the same transaction. The ledger is never touched.
func (s *service) Reject(ctx context.Context, companyID, reviewerID, id string, req RejectLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("reject leave requested",
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("reviewer_id", reviewerID),
	)

	reason := strings.TrimSpace(req.Reason)
	if len(reason) < minRejectionReasonLen {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonTooShort
	}
	category := req.Category
	if category == "" {
		category = CategoryOther
	}
	if !IsValidRejectionCategory(category) {
		return LeaveResponse{}, leaveerrors.ErrInvalidRejectionCategory
	}

	l, err := s.loadForDecision(ctx, companyID, reviewerID, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	processed, err := qtx.MarkRejected(ctx, companyID, id, reviewerID, reason, category, now)
	if err != nil {
		s.logger.Error("reject leave status flip failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !processed {
		s.logger.Warn("reject leave lost status race", zap.String("leave_id", id))
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	record := &RejectionRecord{
		ID:         uuid.New(),
		CompanyID:  l.CompanyID,
		RequestID:  l.ID,
		ReviewerID: uuid.MustParse(reviewerID),
		Reason:     reason,
		Category:   category,
	}
	if err := qtx.AppendRejectionRecord(ctx, record); err != nil {
		s.logger.Error("reject leave audit record failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueueDecidedEvent(ctx, tx, l, events.LeaveDecisionRejected, reviewerID, now); err != nil {
		s.logger.Error("reject leave outbox enqueue failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	reviewerUUID := uuid.MustParse(reviewerID)
	l.Status = StatusRejected
	l.ReviewedBy = &reviewerUUID
	l.DecidedAt = &now
	l.RejectionReason = &reason
	l.RejectionCategory = &category

	s.logger.Info("reject leave success",
		zap.String("leave_id", id),
		zap.String("reviewer_id", reviewerID),
		zap.String("category", category),
	)
	return mapToResponse(*l), nil
}

// BulkReject applies Reject to each id independently. One failed item never
// rolls back or blocks the rest; every outcome is reported per item.
func (s *service) BulkReject(ctx context.Context, companyID, reviewerID string, req BulkRejectRequest) ([]BulkRejectResult, error) {
	if len(req.RequestIDs) == 0 {
		return nil, leaveerrors.ErrEmptyBulkRequest
	}

	results := make([]BulkRejectResult, 0, len(req.RequestIDs))
	for _, requestID := range req.RequestIDs {
		resp, err := s.Reject(ctx, companyID, reviewerID, requestID, RejectLeaveRequest{
			Reason:   req.Reason,
			Category: req.Category,
		})
		if err != nil {
			httpErr := toItemError(err)
			results = append(results, BulkRejectResult{
				RequestID: requestID,
				Ok:        false,
				ErrorCode: httpErr.code,
				Error:     httpErr.message,
			})
			continue
		}
		results = append(results, BulkRejectResult{
			RequestID: requestID,
			Ok:        true,
			Request:   &resp,
		})
	}

	s.logger.Info("bulk reject finished",
		zap.String("company_id", companyID),
		zap.String("reviewer_id", reviewerID),
		zap.Int("total", len(results)),
	)
	return results, nil
}

// Cancel lets the original submitter withdraw a still-pending request.
func (s *service) Cancel(ctx context.Context, companyID, requesterID, id string) (LeaveResponse, error) {
	s.logger.Debug("cancel leave requested",
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("requester_id", requesterID),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(requesterID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}

	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if l.CreatedBy.String() != requesterID {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	processed, err := s.repo.WithTx(tx).MarkCancelled(ctx, companyID, id, now)
	if err != nil {
		s.logger.Error("cancel leave status flip failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !processed {
		s.logger.Warn("cancel leave lost status race", zap.String("leave_id", id))
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l.Status = StatusCancelled
	l.DecidedAt = &now

	s.logger.Info("cancel leave success", zap.String("leave_id", id))
	return mapToResponse(*l), nil
}

// loadForDecision runs the shared preconditions of approve and reject:
// ids parse, the request exists, it still looks PENDING, and the reviewer is
// the employee's direct manager or holds an elevated role. The PENDING check
// here is only a fast path; the conditional update inside the transaction is
// what actually decides the race.
func (s *service) loadForDecision(ctx context.Context, companyID, reviewerID, id string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, leaveerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(reviewerID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidRequestID
	}

	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}

	if l.Status != StatusPending {
		return nil, leaveerrors.ErrAlreadyProcessed
	}

	isManager, err := s.deps.Authorizer.IsManagerOf(ctx, companyID, reviewerID, l.EmployeeID.String())
	if err != nil {
		return nil, err
	}
	if !isManager {
		elevated, err := s.deps.Authorizer.IsElevatedRole(ctx, companyID, reviewerID)
		if err != nil {
			return nil, err
		}
		if !elevated {
			s.logger.Warn("decision rejected, reviewer not authorized",
				zap.String("leave_id", id),
				zap.String("reviewer_id", reviewerID),
			)
			return nil, leaveerrors.ErrNotAuthorizedReviewer
		}
	}

	return l, nil
}

func (s *service) enqueueDecidedEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest, decision, reviewerID string, at time.Time) error {
	if s.deps.Outbox == nil {
		return nil
	}

	event := events.LeaveDecidedEvent{
		EventType:   "leave.decided",
		RequestID:   l.ID.String(),
		CompanyID:   l.CompanyID.String(),
		EmployeeID:  l.EmployeeID.String(),
		LeaveType:   l.LeaveType,
		Decision:    decision,
		WorkingDays: l.WorkingDays,
		ReviewerID:  reviewerID,
		OccurredAt:  at,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.deps.Outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     "leave.decided",
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func validateSubmitRequest(companyID, actorID string, req SubmitLeaveRequest) (uuid.UUID, uuid.UUID, uuid.UUID, time.Time, time.Time, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidEmployeeID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidActorID
	}
	if !policy.IsValidType(req.LeaveType) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return companyUUID, employeeUUID, createdByUUID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

type itemError struct {
	code    string
	message string
}

func toItemError(err error) itemError {
	httpErr := apperror.ToHTTP(err)
	return itemError{code: httpErr.Code, message: httpErr.Message}
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		CompanyID:     l.CompanyID.String(),
		EmployeeID:    l.EmployeeID.String(),
		RequestNumber: l.RequestNumber,
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		WorkingDays:   l.WorkingDays,
		Reason:        l.Reason,
		DocumentRef:   l.DocumentRef,
		Status:        l.Status,
		CreatedBy:     l.CreatedBy.String(),
	}
	if len(l.DaySnapshot) > 0 {
		var days []workday.Day
		if err := json.Unmarshal(l.DaySnapshot, &days); err == nil {
			for _, d := range days {
				if d.Status != workday.StatusWorking {
					resp.ExcludedDays = append(resp.ExcludedDays, d)
				}
			}
		}
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	resp.RejectionCategory = l.RejectionCategory
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
