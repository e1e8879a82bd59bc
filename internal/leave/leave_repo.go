package leave

import (
	"context"
	"database/sql"
	"time"

	"leaveops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveRequest, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	MarkApproved(ctx context.Context, companyID, id, reviewerID string, decidedAt time.Time) (bool, error)
	MarkRejected(ctx context.Context, companyID, id, reviewerID, reason, category string, decidedAt time.Time) (bool, error)
	MarkCancelled(ctx context.Context, companyID, id string, decidedAt time.Time) (bool, error)
	AppendRejectionRecord(ctx context.Context, rec *RejectionRecord) error
	FindActiveForEmployees(ctx context.Context, companyID string, employeeIDs []string, startDate, endDate time.Time) ([]LeaveRequest, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (
			id, company_id, employee_id, request_number, leave_type, start_date, end_date,
			working_days, day_snapshot, reason, document_ref, status, created_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`
	exec := r.execer()
	_, err := exec.ExecContext(ctx, query,
		l.ID, l.CompanyID, l.EmployeeID, l.RequestNumber, l.LeaveType, l.StartDate, l.EndDate,
		l.WorkingDays, l.DaySnapshot, l.Reason, l.DocumentRef, l.Status, l.CreatedBy,
	)
	return err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// MarkApproved flips PENDING to APPROVED. The status guard in the WHERE
// clause is the concurrency control: of two racing reviewers exactly one
// update touches the row, the other sees zero rows affected.
func (r *repository) MarkApproved(ctx context.Context, companyID, id, reviewerID string, decidedAt time.Time) (bool, error) {
	query := `
		UPDATE leave_requests
		SET status = $1, reviewed_by = $2, decided_at = $3, updated_at = NOW()
		WHERE id = $4 AND company_id = $5 AND status = $6
	`
	return r.execConditional(ctx, query, StatusApproved, reviewerID, decidedAt, id, companyID, StatusPending)
}

func (r *repository) MarkRejected(ctx context.Context, companyID, id, reviewerID, reason, category string, decidedAt time.Time) (bool, error) {
	query := `
		UPDATE leave_requests
		SET status = $1, reviewed_by = $2, decided_at = $3,
			rejection_reason = $4, rejection_category = $5, updated_at = NOW()
		WHERE id = $6 AND company_id = $7 AND status = $8
	`
	return r.execConditional(ctx, query, StatusRejected, reviewerID, decidedAt, reason, category, id, companyID, StatusPending)
}

func (r *repository) MarkCancelled(ctx context.Context, companyID, id string, decidedAt time.Time) (bool, error) {
	query := `
		UPDATE leave_requests
		SET status = $1, decided_at = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4 AND status = $5
	`
	return r.execConditional(ctx, query, StatusCancelled, decidedAt, id, companyID, StatusPending)
}

func (r *repository) AppendRejectionRecord(ctx context.Context, rec *RejectionRecord) error {
	query := `
		INSERT INTO leave_rejection_records (
			id, company_id, request_id, reviewer_id, reason, category, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	exec := r.execer()
	_, err := exec.ExecContext(ctx, query,
		rec.ID, rec.CompanyID, rec.RequestID, rec.ReviewerID, rec.Reason, rec.Category,
	)
	return err
}

// FindActiveForEmployees loads the PENDING and APPROVED requests that touch
// a date window, for the coverage calendar. Read-only, no locking.
func (r *repository) FindActiveForEmployees(ctx context.Context, companyID string, employeeIDs []string, startDate, endDate time.Time) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id IN ?", employeeIDs).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) execConditional(ctx context.Context, query string, args ...any) (bool, error) {
	exec := r.execer()
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

type execerContext interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *repository) execer() execerContext {
	if r.tx != nil {
		return r.tx
	}
	db, err := r.db.DB()
	if err != nil {
		return failingExecer{err: err}
	}
	return db
}

type failingExecer struct{ err error }

func (f failingExecer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, f.err
}
