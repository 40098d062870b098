package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config contém todas as configurações da aplicação
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	I18n     I18nConfig
	Security SecurityConfig
	Sentry   SentryConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	BaseURL string // URL base da API para construir URIs RFC 7807
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	MaxIdleTime int
	AutoMigrate bool
}

type LoggingConfig struct {
	Level string
}

type CORSConfig struct {
	AllowedOrigins string
}

type I18nConfig struct {
	DefaultLanguage string
}

type SecurityConfig struct {
	FlashSecret string
	BcryptCost  int
}

type SentryConfig struct {
	DSN string
}

type MetricsConfig struct {
	Enabled bool
}

var defaults = map[string]interface{}{
	"ENV":                  "development",
	"HOST":                 "0.0.0.0",
	"PORT":                 "8080",
	"API_BASE_URL":         "http://localhost:8080",
	"DB_HOST":              "localhost",
	"DB_PORT":              5432,
	"DB_USER":              "postgres",
	"DB_PASS":              "postgres",
	"DB_NAME":              "skillboard",
	"DB_SSL_MODE":          "disable",
	"DB_MAX_CONNS":         10,
	"DB_MIN_CONNS":         2,
	"DB_MAX_IDLE_TIME":     300,
	"DB_AUTO_MIGRATE":      true,
	"LOG_LEVEL":            "info",
	"CORS_ALLOWED_ORIGINS": "",
	"DEFAULT_LANGUAGE":     "en",
	"FLASH_SECRET":         "",
	"BCRYPT_COST":          10,
	"SENTRY_DSN":           "",
	"METRICS_ENABLED":      true,
}

// Load carrega as configurações do ambiente. Um arquivo .env, se existir,
// é lido antes; variáveis já definidas no ambiente têm precedência.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	config := &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSL_MODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			MinConns:    v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime: v.GetInt("DB_MAX_IDLE_TIME"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		I18n: I18nConfig{
			DefaultLanguage: v.GetString("DEFAULT_LANGUAGE"),
		},
		Security: SecurityConfig{
			FlashSecret: v.GetString("FLASH_SECRET"),
			BcryptCost:  v.GetInt("BCRYPT_COST"),
		},
		Sentry: SentryConfig{
			DSN: v.GetString("SENTRY_DSN"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate verifica combinações inválidas de configuração
func (c *Config) Validate() error {
	if c.IsProduction() && len(c.Security.FlashSecret) < 32 {
		return errors.New("FLASH_SECRET must have at least 32 characters in production")
	}
	if c.Database.Port <= 0 {
		return fmt.Errorf("invalid DB_PORT: %d", c.Database.Port)
	}
	return nil
}

// IsProduction indica ambiente de produção
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}
