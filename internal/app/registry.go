package app

import (
	"go-leavemgmt/internal/assistant"
	"go-leavemgmt/internal/auth"
	"go-leavemgmt/internal/bootstrap"
	"go-leavemgmt/internal/health"
	"go-leavemgmt/internal/inbound"
	"go-leavemgmt/internal/leave"
	"go-leavemgmt/internal/mail"
	"go-leavemgmt/internal/messaging/kafka"
	"go-leavemgmt/internal/middleware"
	"go-leavemgmt/internal/rbac"
	"go-leavemgmt/internal/rbac/infra"
	"go-leavemgmt/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func (a *App) registerModules(router *gin.Engine) error {
	cfg := a.cfg
	log := a.logger

	// cache stays a nil interface when redis is absent.
	var cache redis.Cmdable
	if a.rdb != nil {
		cache = a.rdb
	}

	// --- Core ---
	tokens, err := newTokenService(cfg)
	if err != nil {
		return err
	}

	enforcer, err := infra.NewEnforcer(rbac.ModelText)
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, log)
	if err != nil {
		return err
	}

	// --- Repositories ---
	userRepo := user.NewRepository(a.gormDB)
	leaveRepo := leave.NewRepository(a.gormDB)
	tokenStore := mail.NewTokenStore(a.gormDB)

	// --- Collaborators ---
	effects, classifier, notifier := newSideEffects(cfg, a.gormDB, tokens, log)

	var sink leave.EventSink
	if cfg.KafkaBroker != "" {
		log.Info("leave side effects: outbox + kafka")
		sink = leave.NewOutboxSink(kafka.NewOutboxRepository(a.sqlDB))
	} else {
		log.Info("leave side effects: in-process dispatch")
		a.dispatch = leave.NewDispatchSink(effects, cfg.SideEffectTimeout, log)
		sink = a.dispatch
	}

	var states mail.StateStore = mail.NewMemoryStateStore()
	var locker inbound.Locker = inbound.NewLocalLocker()
	if cache != nil {
		states = mail.NewRedisStateStore(cache)
		locker = inbound.NewRedisLocker(cache, log)
	}

	// --- Services ---
	userService := user.NewService(userRepo, log)
	authService := auth.NewService(userRepo, userService, tokens, log)
	leaveService := leave.NewService(a.sqlDB, leaveRepo, userRepo, sink, tokens, log)
	oauthService := mail.NewOAuthService(mail.NewOAuthConfig(cfg.Gmail), states, tokenStore, cfg.Mail.ServiceMailbox, log)
	processor := inbound.NewProcessor(
		notifier,
		classifier,
		leaveRepo,
		leaveService,
		locker,
		bootstrap.NewStdoutAuditLogger(),
		cfg.Mail.ServiceMailbox,
		cfg.DecisionConfidenceThreshold,
		log,
	)
	assistantService := assistant.NewService(leaveRepo, userRepo, classifier, a.rdb, log)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction(), log)
	userHandler := user.NewHandler(userService, log)
	leaveHandler := leave.NewHandler(leaveService, log)
	mailHandler := mail.NewHandler(oauthService, notifier, log)
	inboundHandler := inbound.NewHandler(processor, log)
	assistantHandler := assistant.NewHandler(assistantService, log)
	rbacHandler := rbac.NewHandler(rbacService)
	healthHandler := health.NewHandler(a.sqlDB, classifier, notifier, log)

	// --- Routes Registration ---
	router.Use(middleware.RequestID(), middleware.ContextLogger(log))
	authMiddleware := middleware.AuthMiddleware(tokens)

	api := router.Group("/api/v1")
	{
		health.RegisterRoutes(api, healthHandler)
		auth.RegisterRoutes(api, authHandler, authMiddleware, rbacService)
		user.RegisterRoutes(api, userHandler, authMiddleware, rbacService)
		leave.RegisterRoutes(api, leaveHandler, authMiddleware, rbacService, middleware.Idempotency(cache))
		mail.RegisterRoutes(api, mailHandler, authMiddleware, rbacService)
		inbound.RegisterRoutes(api, inboundHandler, authMiddleware, rbacService)
		assistant.RegisterRoutes(api, assistantHandler, authMiddleware, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, authMiddleware)
	}

	return nil
}
