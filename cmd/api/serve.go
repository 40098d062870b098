package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "github.com/rafabene/skillboard/docs"
	"github.com/rafabene/skillboard/internal/domain/ports"
	httphandlers "github.com/rafabene/skillboard/internal/handlers/http"
	"github.com/rafabene/skillboard/internal/infrastructure/flash"
	"github.com/rafabene/skillboard/internal/infrastructure/i18n"
	"github.com/rafabene/skillboard/internal/infrastructure/metrics"
	"github.com/rafabene/skillboard/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/skillboard/internal/infrastructure/security"
	"github.com/rafabene/skillboard/internal/services"
	"github.com/rafabene/skillboard/internal/web"
)

func runServe(ctx context.Context) error {
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}

	logger.Info("starting skillboard",
		"env", cfg.Env,
		"version", "dev",
	)

	flush := initSentry(cfg, logger)
	defer flush()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			logger.Error("migration failed", "error", err)
			return err
		}
	}

	// Inicializar i18n
	i18nService, err := i18n.NewEmbeddedService(cfg.I18n.DefaultLanguage)
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		return err
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	flashStore, err := flash.NewStore(cfg.Security.FlashSecret, 5*time.Minute, cfg.IsProduction())
	if err != nil {
		logger.Error("failed to initialize flash store", "error", err)
		return err
	}
	if cfg.Security.FlashSecret == "" {
		logger.Warn("FLASH_SECRET not set, using a random key")
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Inicializar repositories
	userRepo := postgres.NewUserRepository(db)
	professionRepo := postgres.NewProfessionRepository(db)
	skillRepo := postgres.NewSkillRepository(db)
	uow := postgres.NewUnitOfWork(db)

	// Inicializar services
	var userMetrics ports.Metrics
	if m != nil {
		userMetrics = m
	}
	userService := services.NewUserService(
		userRepo, professionRepo, skillRepo, uow,
		security.NewBcryptHasher(cfg.Security.BcryptCost),
		userMetrics, logger,
	)
	catalogService := services.NewCatalogService(professionRepo, skillRepo, logger)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := httphandlers.NewRouter(httphandlers.RouterDeps{
		Config:         cfg,
		UserService:    userService,
		CatalogService: catalogService,
		I18n:           i18nService,
		Flash:          flashStore,
		Renderer:       renderer,
		Metrics:        m,
		Logger:         logger,
	})

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
	return nil
}
