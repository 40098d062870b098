package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/rafabene/skillboard/internal/domain/ports"
	"github.com/rafabene/skillboard/internal/infrastructure/config"
	"github.com/rafabene/skillboard/internal/infrastructure/logging"
	"github.com/rafabene/skillboard/internal/infrastructure/persistence/postgres"
)

// @title        Skillboard API
// @version      1.0
// @description  Cadastro de usuários com perfil, profissão e habilidades.
// @BasePath     /api/v1
func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "skillboard",
		Short:         "Skillboard: usuários, perfis, profissões e habilidades",
		SilenceUsage: true,
		// Sem subcomando, sobe o servidor
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Sobe o servidor HTTP",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Cria ou atualiza o schema do banco",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate()
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Cadastra profissões e habilidades padrão (idempotente)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runSeed(cmd.Context())
			},
		},
	)
	return root
}

// bootstrap carrega config, logger e conexão com o banco
func bootstrap() (*config.Config, ports.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Println("Failed to load config:", err)
		return nil, nil, nil, err
	}

	logger := logging.NewSlogLogger(cfg.Logging.Level)

	db, err := postgres.NewDatabaseConnection(&cfg.Database, cfg.Logging.Level, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}

func runMigrate() error {
	_, logger, db, err := bootstrap()
	if err != nil {
		return err
	}

	if err := postgres.Migrate(db); err != nil {
		logger.Error("migration failed", "error", err)
		return err
	}
	logger.Info("schema migrated")
	return nil
}

func runSeed(ctx context.Context) error {
	_, logger, db, err := bootstrap()
	if err != nil {
		return err
	}

	if err := postgres.Migrate(db); err != nil {
		logger.Error("migration failed", "error", err)
		return err
	}

	created, err := postgres.Seed(ctx, db)
	if err != nil {
		logger.Error("seed failed", "error", err)
		return err
	}
	logger.Info("seed finished", "created", created)
	return nil
}

func initSentry(cfg *config.Config, logger ports.Logger) (flush func()) {
	if cfg.Sentry.DSN == "" {
		return func() {}
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Env,
		AttachStacktrace: true,
	}); err != nil {
		logger.Error("sentry init failed", "error", err)
		return func() {}
	}
	return func() { sentry.Flush(2 * time.Second) }
}
