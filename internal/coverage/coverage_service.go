package coverage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	coverageerrors "leaveops/internal/coverage/errors"
	"leaveops/internal/leave"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Calendar windows are capped at three months; a manager's view never needs
// more and unbounded ranges would turn the day loop into a DoS vector.
const maxWindowDays = 92

const cacheTTL = 60 * time.Second

//go:generate mockgen -source=coverage_service.go -destination=mock/coverage_service_mock.go -package=mock
type Service interface {
	GetTeamCalendar(ctx context.Context, companyID string, req TeamCalendarRequest) (CalendarView, error)
}

type service struct {
	leaves leave.Repository
	rdb    *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

func NewService(leaves leave.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("coverage.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("coverage.service")
	}
	return &service{leaves: leaves, rdb: rdb, logger: l}
}

// GetTeamCalendar resolves the window, loads the active requests that touch
// it, and builds the per-day view. Identical concurrent lookups (a whole
// team opening the same dashboard) collapse into one database round trip via
// singleflight, and the built view is cached briefly in Redis. Staleness up
// to the TTL is acceptable for this reporting read.
func (s *service) GetTeamCalendar(ctx context.Context, companyID string, req TeamCalendarRequest) (CalendarView, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return CalendarView{}, coverageerrors.ErrInvalidCompanyID
	}
	memberIDs, err := normalizeMemberIDs(req.EmployeeIDs)
	if err != nil {
		return CalendarView{}, err
	}
	start, end, err := resolveWindow(req)
	if err != nil {
		return CalendarView{}, err
	}

	key := cacheKey(companyID, memberIDs, start, end, req.PeakDays)

	if s.rdb != nil {
		if cached, getErr := s.rdb.Get(ctx, key).Result(); getErr == nil {
			var view CalendarView
			if unmarshalErr := json.Unmarshal([]byte(cached), &view); unmarshalErr == nil {
				s.logger.Debug("team calendar cache hit", zap.String("key", key))
				return view, nil
			}
		}
	}

	result, err, shared := s.group.Do(key, func() (any, error) {
		requests, findErr := s.leaves.FindActiveForEmployees(ctx, companyID, memberIDs, start, end)
		if findErr != nil {
			return nil, findErr
		}

		view := BuildCalendar(memberIDs, start, end, requests, req.PeakDays)

		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(view); marshalErr == nil {
				_ = s.rdb.Set(ctx, key, payload, cacheTTL).Err()
			}
		}
		return view, nil
	})
	if err != nil {
		s.logger.Error("team calendar build failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return CalendarView{}, err
	}

	s.logger.Debug("team calendar built",
		zap.String("company_id", companyID),
		zap.Int("team_size", len(memberIDs)),
		zap.Bool("shared", shared),
	)
	return result.(CalendarView), nil
}

func normalizeMemberIDs(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, err := uuid.Parse(id); err != nil {
				return nil, coverageerrors.ErrInvalidMemberID
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, coverageerrors.ErrEmptyTeam
	}
	sort.Strings(out)
	return out, nil
}

func resolveWindow(req TeamCalendarRequest) (time.Time, time.Time, error) {
	if req.Month != "" {
		monthStart, err := time.Parse("2006-01", req.Month)
		if err != nil {
			return time.Time{}, time.Time{}, coverageerrors.ErrInvalidMonth
		}
		monthEnd := monthStart.AddDate(0, 1, -1)
		return monthStart, monthEnd, nil
	}

	if req.StartDate == "" || req.EndDate == "" {
		return time.Time{}, time.Time{}, coverageerrors.ErrMissingWindow
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, coverageerrors.ErrInvalidDate
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, coverageerrors.ErrInvalidDate
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, coverageerrors.ErrInvalidDateRange
	}
	if end.Sub(start) > maxWindowDays*24*time.Hour {
		return time.Time{}, time.Time{}, coverageerrors.ErrWindowTooLarge
	}
	return start, end, nil
}

func cacheKey(companyID string, memberIDs []string, start, end time.Time, peakN int) string {
	sum := sha256.Sum256([]byte(strings.Join(memberIDs, ",")))
	return fmt.Sprintf("coverage:%s:%s:%s:%d:%s",
		companyID,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
		peakN,
		hex.EncodeToString(sum[:8]),
	)
}
