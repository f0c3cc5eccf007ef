package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Aprobaciones-api/internal/application/activity"
	"github.com/jhoicas/Aprobaciones-api/internal/application/auth"
	"github.com/jhoicas/Aprobaciones-api/internal/application/notification"
	"github.com/jhoicas/Aprobaciones-api/internal/application/usecase"
	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/excel"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/feed"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/memory"
	infranats "github.com/jhoicas/Aprobaciones-api/internal/infrastructure/nats"
	infrapdf "github.com/jhoicas/Aprobaciones-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/redislock"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Aprobaciones-api/internal/interfaces/http"
	"github.com/jhoicas/Aprobaciones-api/pkg/config"
	"github.com/jhoicas/Aprobaciones-api/pkg/logger"
)

// repos persistencia elegida por APP_STORE.
type repos struct {
	tx            workflow.TxRunner
	users         repository.UserRepository
	ledger        repository.LedgerRepository
	projects      repository.ProjectRepository
	invoices      repository.InvoiceRepository
	submissions   repository.InventorySubmissionRepository
	activity      repository.ActivityRepository
	notifications repository.NotificationRepository
	timeLogs      repository.TimeLogRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	changes := feed.NewBroadcaster()
	defer changes.Close()

	var r repos
	switch cfg.App.Store {
	case config.StoreMemory:
		store := memory.NewStore(changes)
		r = repos{
			tx:            memory.NewTxRunner(store),
			users:         store.Users(),
			ledger:        store.Ledger(),
			projects:      store.Projects(),
			invoices:      store.Invoices(),
			submissions:   store.Submissions(),
			activity:      store.Activity(),
			notifications: store.Notifications(),
			timeLogs:      store.TimeLogs(),
		}
		log.Warn().Msg("APP_STORE=memory: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migración del esquema")
			}
		}
		go postgres.NewChangeListener(pool, changes, log.Zerolog()).Run(ctx)
		r = repos{
			tx:            postgres.NewTxRunner(pool),
			users:         postgres.NewUserRepository(pool),
			ledger:        postgres.NewLedgerRepository(pool),
			projects:      postgres.NewProjectRepository(pool),
			invoices:      postgres.NewInvoiceRepository(pool),
			submissions:   postgres.NewSubmissionRepository(pool),
			activity:      postgres.NewActivityRepository(pool),
			notifications: postgres.NewNotificationRepository(pool),
			timeLogs:      postgres.NewTimeLogRepository(pool),
		}
	}

	// Lock distribuido opcional entre réplicas.
	var locker workflow.TransitionLocker
	if cfg.Redis.Address != "" {
		rdb, err := redislock.NewClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = redislock.New(rdb, cfg.Redis.LockTTL, log.Zerolog())
	}

	// Bus de notificaciones opcional.
	var publisher notification.Publisher
	if cfg.NATS.URL != "" {
		nc, err := infranats.Connect(cfg.NATS.URL, cfg.App.Name, log.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a NATS")
		}
		defer nc.Drain()
		publisher = infranats.NewPublisher(nc, cfg.NATS.SubjectPrefix, log.Zerolog())
	}

	var docs workflow.DocumentStore
	if cfg.Storage.GCSBucket != "" {
		gcs, err := storage.NewGCS(ctx, cfg.Storage.GCSBucket)
		if err != nil {
			log.Fatal().Err(err).Msg("bucket de documentos")
		}
		defer gcs.Close()
		docs = gcs
	} else {
		docs = storage.NewMemory()
	}

	activityUC := activity.NewUseCase(r.activity)
	notificationUC := notification.NewUseCase(r.notifications, publisher, log.Component("notifications"))
	deps := workflow.Deps{
		Tx:       r.tx,
		Users:    r.users,
		Locker:   locker,
		Docs:     docs,
		Activity: activityUC,
		Notifier: notificationUC,
		Logger:   log.Component("workflow"),
	}

	authUC := auth.NewAuthUseCase(r.users, activityUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Auth.SuperAdminEmail, log.Component("auth"))

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
		BodyLimit:   25 << 20,
		// Sin WriteTimeout: las conexiones SSE permanecen abiertas.
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Aprobaciones API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(r.users, activityUC, log.Component("users")),
		ProjectWF:     workflow.NewProjectWorkflow(deps),
		InvoiceWF:     workflow.NewInvoiceWorkflow(deps),
		InventoryWF:   workflow.NewInventoryWorkflow(deps),
		ProjectUC:     usecase.NewProjectUseCase(r.projects),
		InvoiceUC:     usecase.NewInvoiceUseCase(r.invoices),
		InventoryUC:   usecase.NewInventoryUseCase(r.ledger, r.submissions, r.projects),
		TimeLogUC:     usecase.NewTimeLogUseCase(r.timeLogs, r.projects, activityUC, log.Component("timelogs")),
		ReportUC:      usecase.NewReportUseCase(r.projects, r.invoices, r.timeLogs, r.ledger, infrapdf.NewCostSheetGenerator(), excel.NewLedgerExporter()),
		Activity:      activityUC,
		Notifications: notificationUC,
		Changes:       changes,
		JWTSecret:     cfg.JWT.Secret,
		Logger:        log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()
	changes.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
