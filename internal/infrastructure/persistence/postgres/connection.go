package postgres

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rafabene/skillboard/internal/domain/ports"
	"github.com/rafabene/skillboard/internal/infrastructure/config"
)

// GormConfig retorna a configuração GORM compartilhada pela aplicação e pelos testes
func GormConfig(logLevel string) *gorm.Config {
	return gormConfigTo(os.Stdout, logLevel)
}

func gormConfigTo(w io.Writer, logLevel string) *gorm.Config {
	level := logger.Warn
	switch logLevel {
	case "debug":
		level = logger.Info
	case "error":
		level = logger.Error
	}

	return &gorm.Config{
		Logger: logger.New(log.New(w, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      level,
			// First sem resultado é o caminho normal (404, checagem de perfil existente)
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: false,
		// Converte violações de unicidade em gorm.ErrDuplicatedKey
		TranslateError: true,
	}
}

// NewDatabaseConnection cria uma nova conexão com o PostgreSQL
func NewDatabaseConnection(cfg *config.DatabaseConfig, logLevel string, appLogger ports.Logger) (*gorm.DB, error) {
	// Conectar
	db, err := gorm.Open(postgres.Open(cfg.DSN()), GormConfig(logLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configurar connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MinConns)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.MaxIdleTime) * time.Second)

	// Ping para verificar conexão
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	appLogger.Info("database connected successfully",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DBName,
	)

	return db, nil
}
