package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/app"
	"github.com/Freeeeeet/officehours_bot/internal/calendar"
	"github.com/Freeeeeet/officehours_bot/internal/config"
	"github.com/Freeeeeet/officehours_bot/internal/controller"
	"github.com/Freeeeeet/officehours_bot/internal/controller/common"
	"github.com/Freeeeeet/officehours_bot/internal/notify"
	"github.com/Freeeeeet/officehours_bot/internal/ratelimit"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
	"github.com/Freeeeeet/officehours_bot/internal/service"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Запустить бота и фоновые задачи",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Value: true, Usage: "Применить миграции перед запуском"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := app.NewLogger(cfg.Environment)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, c.Bool("migrate"), logger)
		},
	}
}

func run(ctx context.Context, cfg *config.Config, migrate bool, logger *zap.Logger) error {
	logger.Info("Starting officehours bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Location.String()),
		zap.String("overlap_scope", cfg.OverlapScope),
		zap.String("cancel_policy", cfg.CancelPolicy))

	shutdownTelemetry, err := app.SetupTelemetry(ctx, app.TelemetryConfig{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: "officehours_bot",
		Endpoint:    cfg.Telemetry.Endpoint,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	pool, err := app.OpenPool(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrate {
		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		_ = migrator.Close()
		if err != nil {
			return err
		}
	}

	// Контроллер создаётся после бота, а default handler нужен при создании бота
	var ctrl *controller.BotController
	b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if ctrl != nil {
			ctrl.HandleDefault(ctx, b, update)
		}
	}))
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}

	notifier, closeNotifier := buildNotifier(cfg, b, logger)
	defer closeNotifier()

	syncer, err := buildSyncer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	limiter, closeLimiter := buildLimiter(cfg, logger)
	defer closeLimiter()

	store := repository.NewStore(pool)
	clock := timewindow.NewClock(cfg.Location)
	quota := service.NewQuotaEngine(logger)
	policy := service.Policy{
		MinWindow:    cfg.MinWindow,
		OverlapScope: service.OverlapScope(cfg.OverlapScope),
		CancelPolicy: service.CancelPolicy(cfg.CancelPolicy),
	}

	svc := common.Services{
		Users:        service.NewUserService(store, cfg.AdminTelegramIDs, logger),
		Programs:     service.NewProgramService(store, logger),
		Availability: service.NewAvailabilityService(store, quota, clock, policy, logger),
		Reservations: service.NewReservationService(store, quota, clock, policy, notifier, syncer, logger),
		Comments:     service.NewCommentService(store, logger),
		Feedback:     service.NewFeedbackService(store, clock, logger),
	}

	ctrl = controller.NewBotController(b, svc, limiter, clock, cfg.HostInviteCode, logger)
	if err := ctrl.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично для работы
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	scheduler := app.NewScheduler(svc.Reservations, cfg.SweepInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	ctrl.Start(ctx)
	logger.Info("Bot stopped")
	return nil
}

// buildNotifier Telegram всегда, почта и Kafka по конфигурации
func buildNotifier(cfg *config.Config, b *bot.Bot, logger *zap.Logger) (notify.Notifier, func()) {
	channels := notify.Multi{notify.NewTelegramNotifier(b)}
	closers := []func() error{}

	if cfg.SMTP.Enabled() {
		channels = append(channels, notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}))
		logger.Info("Email notifications enabled", zap.String("smtp_host", cfg.SMTP.Host))
	}

	if cfg.Kafka.Enabled() {
		writer := notify.NewKafkaWriter(cfg.Kafka.Brokers)
		channels = append(channels, notify.NewKafkaNotifier(writer, cfg.Kafka.Topic))
		closers = append(closers, writer.Close)
		logger.Info("Kafka notifications enabled", zap.String("topic", cfg.Kafka.Topic))
	}

	return channels, func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				logger.Warn("Notifier close failed", zap.Error(err))
			}
		}
	}
}

// buildSyncer CalDAV приоритетнее Google, без настроек календарь не ведётся
func buildSyncer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (calendar.Syncer, error) {
	switch {
	case cfg.CalDAV.Enabled():
		s, err := calendar.NewCalDAVSyncer(ctx, cfg.CalDAV.Endpoint, cfg.CalDAV.Username, cfg.CalDAV.Password, cfg.CalDAV.Calendar, logger)
		if err != nil {
			return nil, fmt.Errorf("init caldav: %w", err)
		}
		logger.Info("CalDAV sync enabled", zap.String("calendar", cfg.CalDAV.Calendar))
		return s, nil
	case cfg.Google.Enabled():
		s, err := calendar.NewGoogleSyncer(ctx, cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.TokenFile, cfg.Google.CalendarID, logger)
		if err != nil {
			return nil, fmt.Errorf("init google calendar: %w", err)
		}
		logger.Info("Google Calendar sync enabled", zap.String("calendar_id", cfg.Google.CalendarID))
		return s, nil
	default:
		return nil, nil
	}
}

func buildLimiter(cfg *config.Config, logger *zap.Logger) (ratelimit.Limiter, func()) {
	if !cfg.Redis.Enabled() {
		return ratelimit.Unlimited{}, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	limiter := ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window, "officehours:rl:", cfg.RateLimit.FailOpen, logger)
	logger.Info("Reservation rate limit enabled",
		zap.Int("limit", cfg.RateLimit.Limit),
		zap.Duration("window", cfg.RateLimit.Window))

	return limiter, func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("Redis close failed", zap.Error(err))
		}
	}
}
