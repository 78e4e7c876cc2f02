package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodshare/internal/config"
	"foodshare/internal/database"
	"foodshare/internal/handlers"
	"foodshare/internal/middleware"
	"foodshare/internal/notify"
	"foodshare/internal/repositories"
	"foodshare/internal/services"
	"foodshare/internal/storage"
	"foodshare/pkg/logger"
	"foodshare/pkg/mailer"
	"foodshare/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// App is the assembled API: the Fiber app plus the resources it owns.
type App struct {
	Fiber *fiber.App

	db      *gorm.DB
	closers []func() error
}

// NewApp opens the database described by cfg and wires every component.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, db)
}

// New wires the application on top of an already migrated database.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB) (*App, error) {
	a := &App{db: db}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	donationRepo := repositories.NewGORMDonationRepository(db)
	requestRepo := repositories.NewGORMRequestRepository(db)
	logRepo := repositories.NewGORMNotificationLogRepository(db)

	// --- Notifications ---
	m, err := newMailer(cfg.Mail)
	if err != nil {
		return nil, a.abort(err)
	}
	deliverer := notify.NewDeliverer(m, logRepo)
	dispatcher, err := a.newDispatcher(cfg, deliverer)
	if err != nil {
		return nil, a.abort(err)
	}

	// --- Photo storage ---
	photos, err := newPhotoStore(ctx, cfg)
	if err != nil {
		return nil, a.abort(err)
	}

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	donationService := services.NewDonationService(donationRepo)
	requestService := services.NewRequestService(requestRepo, donationRepo, logRepo, dispatcher)
	dashboardService := services.NewDashboardService(donationService, requestService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:   "foodshare",
		BodyLimit: 10 * 1024 * 1024,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestContext())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,OPTIONS",
	}))

	if cfg.StorageDriver == "local" {
		app.Static("/uploads", cfg.UploadDir)
	}

	// --- Health Check Endpoint ---
	app.Get("/health", a.handleHealth)

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	auth := middleware.AuthRequired(authService)

	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1, auth)
	handlers.NewDonationHandler(donationService, photos).RegisterRoutes(apiV1, auth)
	handlers.NewRequestHandler(requestService).RegisterRoutes(apiV1, auth)
	handlers.NewDashboardHandler(authService, dashboardService).RegisterRoutes(apiV1, auth)

	a.Fiber = app
	return a, nil
}

func newMailer(cfg config.MailConfig) (mailer.Mailer, error) {
	switch cfg.Driver {
	case "smtp":
		return mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.From, cfg.FromName, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUseTLS), nil
	case "mailersend":
		return mailer.NewMailerSendMailer(cfg.MailerSendAPIKey, cfg.FromName, cfg.From)
	case "log":
		return mailer.NewLogMailer(logger.Default()), nil
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.Driver)
	}
}

// newDispatcher builds the notification transport: a bounded in-process
// queue whose workers either send the emails or publish them to RabbitMQ.
// Close drains the queue before the broker connection and the database are
// released.
func (a *App) newDispatcher(cfg *config.Config, deliverer *notify.Deliverer) (notify.Dispatcher, error) {
	var sender notify.Sender = deliverer
	if cfg.NotifyTransport == "amqp" {
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.NotifyQueue})
		if err != nil {
			return nil, err
		}
		// Close waits for the consumer, so its outcome rows are written
		// before the database closes.
		a.closers = append(a.closers, client.Close)
		if err := client.Consume(notify.ConsumeHandler(deliverer)); err != nil {
			return nil, err
		}
		sender = notify.NewAMQPPublisher(client, deliverer)
		logger.Info("notifications published to RabbitMQ", "queue", cfg.NotifyQueue)
	}

	queue := notify.NewQueue(sender, cfg.NotifyQueueSize, cfg.NotifyWorkers)
	queue.Start()
	a.closers = append(a.closers, func() error {
		queue.Close()
		return nil
	})
	logger.Info("notification queue started", "transport", cfg.NotifyTransport,
		"workers", cfg.NotifyWorkers, "queue_size", cfg.NotifyQueueSize)
	return queue, nil
}

func newPhotoStore(ctx context.Context, cfg *config.Config) (storage.PhotoStore, error) {
	switch cfg.StorageDriver {
	case "s3":
		return storage.NewS3StoreFromEnv(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3PublicURL)
	default:
		return storage.NewLocalStore(cfg.UploadDir, "/uploads")
	}
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status, code := "healthy", fiber.StatusOK
	dbStatus := "connected"
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		logger.ErrorContext(c.UserContext(), "database health check failed", "error", err)
		status, code, dbStatus = "unhealthy", fiber.StatusServiceUnavailable, "unreachable"
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"time":     time.Now().Format(time.RFC3339),
		"database": dbStatus,
	})
}

// Close drains pending notifications, then releases the broker connection
// and the database.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) abort(err error) error {
	if closeErr := a.Close(); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return err
}
