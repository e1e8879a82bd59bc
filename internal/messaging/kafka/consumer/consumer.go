package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"leaveops/internal/balance"
	"leaveops/internal/events"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEmployeeLifecycle seeds the balance ledger for every new hire so
// their first submission never pays the lazy-init cost. The ledger init is
// idempotent, so redelivered messages are harmless.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	balanceService balance.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		year := time.Now().UTC().Year()
		if err := balanceService.EnsureDefaults(ctx, event.CompanyID, event.EmployeeID, year); err != nil {
			if isUniqueBalanceViolation(err) {
				log.Warn("balance rows already exist for event, skipping",
					zap.String("employee_id", event.EmployeeID),
					zap.String("company_id", event.CompanyID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("seed default leave balances failed",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave balances seeded from employee_created event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("company_id", event.CompanyID),
			zap.Int("year", year),
		)
	}
}

func isUniqueBalanceViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_balances_key"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_leave_balances_key")
}
