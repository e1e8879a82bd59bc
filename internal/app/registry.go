package app

import (
	"database/sql"

	"leaveops/internal/authz"
	"leaveops/internal/balance"
	"leaveops/internal/coverage"
	"leaveops/internal/holiday"
	"leaveops/internal/leave"
	"leaveops/internal/messaging/kafka"
	"leaveops/internal/middleware"
	"leaveops/internal/policy"
	"leaveops/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authzRepo := authz.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	policyRepo := policy.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Authorization Core ---
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return err
	}
	authzService := authz.NewService(authzRepo, enforcer)

	// --- Services ---
	holidayService := holiday.NewService(holidayRepo)
	policyService := policy.NewService(db, policyRepo)
	balanceService := balance.NewService(balanceRepo, policyService)
	leaveService := leave.NewService(db, leaveRepo, leave.Deps{
		Holidays:   holidayService,
		Policies:   policyService,
		Balances:   balanceService,
		Authorizer: authzService,
		Counter:    counterRepo,
		Outbox:     outboxRepo,
	})
	coverageService := coverage.NewService(leaveRepo, rdb)

	// --- Handlers ---
	holidayHandler := holiday.NewHandler(holidayService)
	policyHandler := policy.NewHandler(policyService)
	balanceHandler := balance.NewHandler(balanceService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	coverageHandler := coverage.NewHandler(coverageService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RateLimitByIP(20, 40))
	{
		holiday.RegisterRoutes(api, holidayHandler, authzService)
		policy.RegisterRoutes(api, policyHandler, authzService)
		balance.RegisterRoutes(api, balanceHandler, authzService)
		leave.RegisterRoutes(api, leaveHandler, authzService, rdb)
		coverage.RegisterRoutes(api, coverageHandler, authzService)
	}

	return nil
}
