package holiday

import (
	"context"
	"errors"
	"time"

	holidayerrors "leaveops/internal/holiday/errors"
	"leaveops/internal/workday"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateHolidayRequest) (HolidayResponse, error)
	GetAll(ctx context.Context, companyID string) ([]HolidayResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	HolidaySetForRange(ctx context.Context, companyID string, start, end time.Time) (workday.HolidaySet, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateHolidayRequest) (HolidayResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidCompanyID
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidDateFormat
	}

	holidayType := req.Type
	if holidayType == "" {
		holidayType = TypePublic
	}

	h := &Holiday{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Date:      date,
		Name:      req.Name,
		Type:      holidayType,
		Recurring: req.Recurring,
	}

	if err := s.repo.Create(ctx, h); err != nil {
		s.logger.Error("create holiday persist failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return HolidayResponse{}, err
	}

	s.logger.Info("holiday created",
		zap.String("company_id", companyID),
		zap.String("date", req.Date),
		zap.String("name", req.Name),
	)
	return mapToResponse(*h), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapToResponse(h)
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return holidayerrors.ErrHolidayNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, companyID, id)
}

// HolidaySetForRange resolves the tenant calendar into the date set the
// workday calculator consumes. Recurring entries are projected onto every
// year the range touches.
func (s *service) HolidaySetForRange(ctx context.Context, companyID string, start, end time.Time) (workday.HolidaySet, error) {
	set := workday.HolidaySet{}

	fixed, err := s.repo.FindInRange(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	for _, h := range fixed {
		set[h.Date.Format(dateLayout)] = struct{}{}
	}

	recurring, err := s.repo.FindRecurring(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for _, h := range recurring {
		for year := start.Year(); year <= end.Year(); year++ {
			projected := time.Date(year, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, time.UTC)
			if !projected.Before(start) && !projected.After(end) {
				set[projected.Format(dateLayout)] = struct{}{}
			}
		}
	}

	return set, nil
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:        h.ID.String(),
		CompanyID: h.CompanyID.String(),
		Date:      h.Date.Format(dateLayout),
		Name:      h.Name,
		Type:      h.Type,
		Recurring: h.Recurring,
	}
}
