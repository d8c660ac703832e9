package app

import (
	"context"
	"database/sql"
	"time"

	"go-leavemgmt/internal/ai"
	"go-leavemgmt/internal/config"
	"go-leavemgmt/internal/leave"
	"go-leavemgmt/internal/mail"
	"go-leavemgmt/internal/shared/connection"
	"go-leavemgmt/internal/shared/database"
	"go-leavemgmt/internal/token"
	"go-leavemgmt/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

const connectRetries = 5

// App owns the long-lived resources opened by BuildApp.
type App struct {
	cfg      config.Config
	gormDB   *gorm.DB
	sqlDB    *sql.DB
	rdb      *redis.Client
	dispatch *leave.DispatchSink
	logger   *zap.Logger
}

// BuildApp opens infrastructure, runs migrations and mounts every module on router.
func BuildApp(router *gin.Engine, cfg config.Config) (*App, error) {
	logger := zap.L().Named("app")

	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, gormDB: gormDB, sqlDB: sqlDB, logger: logger}

	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
		if err != nil {
			// caches, locks and idempotency degrade to in-process or off.
			logger.Warn("redis unavailable, continuing without it", zap.Error(err))
		} else {
			a.rdb = rdb
		}
	}

	if err := a.registerModules(router); err != nil {
		a.Close(context.Background())
		return nil, err
	}
	return a, nil
}

// Close waits for in-process side effects, then releases connections.
func (a *App) Close(ctx context.Context) {
	if a.dispatch != nil {
		done := make(chan struct{})
		go func() {
			a.dispatch.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			a.logger.Warn("side effects still running at shutdown")
		}
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.sqlDB != nil {
		_ = a.sqlDB.Close()
	}
}

func openDatabase(cfg config.Config) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.OpenDatabase(cfg.DB, connectRetries)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := database.RunMigrations(ctx, gormDB); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}

func newTokenService(cfg config.Config) (*token.Service, error) {
	return token.NewService(token.Config{
		Secret:      cfg.JWT.Secret,
		Issuer:      cfg.JWT.Issuer,
		Audience:    cfg.JWT.Audience,
		SessionTTL:  cfg.JWT.SessionTTL,
		DecisionTTL: cfg.JWT.DecisionTTL,
	})
}

// newNotifier prefers Gmail, then SMTP. With neither configured mail is skipped everywhere.
func newNotifier(cfg config.Config, gormDB *gorm.DB, logger *zap.Logger) mail.Notifier {
	switch {
	case cfg.GmailConfigured() && cfg.Mail.ServiceMailbox != "":
		logger.Info("mail: using gmail", zap.String("mailbox", cfg.Mail.ServiceMailbox))
		return mail.NewGmailNotifier(
			mail.NewOAuthConfig(cfg.Gmail),
			mail.NewTokenStore(gormDB),
			cfg.Mail.ServiceMailbox,
			cfg.Mail.SenderName,
			mail.WithGmailLogger(logger),
			mail.WithGmailTimeout(cfg.Mail.Timeout),
		)
	case cfg.SMTPConfigured():
		from := cfg.Mail.ServiceMailbox
		if from == "" {
			from = cfg.Mail.SMTPUser
		}
		logger.Info("mail: using smtp", zap.String("host", cfg.Mail.SMTPHost))
		dialer := gomail.NewDialer(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.SMTPUser, cfg.Mail.SMTPPassword)
		return mail.NewSMTPNotifier(dialer, from, cfg.Mail.SenderName, logger).WithTimeout(cfg.Mail.Timeout)
	default:
		logger.Warn("mail: no provider configured, notifications disabled")
		return mail.NoopNotifier{}
	}
}

func newSideEffects(
	cfg config.Config,
	gormDB *gorm.DB,
	tokens *token.Service,
	logger *zap.Logger,
) (*leave.SideEffects, ai.Classifier, mail.Notifier) {
	classifier := ai.NewClient(cfg.AI, logger)
	notifier := newNotifier(cfg, gormDB, logger)

	effects := leave.NewSideEffects(
		leave.NewRepository(gormDB),
		user.NewRepository(gormDB),
		classifier,
		notifier,
		tokens,
		tokens.DecisionTTL(),
		cfg.BaseURL,
		logger,
	)
	return effects, classifier, notifier
}
