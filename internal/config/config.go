package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host               string
	Port               int
	CORSAllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type TariffConfig struct {
	DefaultVersion string
}

type CalculationConfig struct {
	DefaultStunden decimal.Decimal
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type DocumentConfig struct {
	Issuer string
}

type DispatchConfig struct {
	Timeout    time.Duration
	Attempts   int
	RetryDelay time.Duration
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Tariff      TariffConfig
	Calculation CalculationConfig
	SMTP        SMTPConfig
	Dispatch    DispatchConfig
	Document    DocumentConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:               v.GetString("HTTP_HOST"),
			Port:               v.GetInt("HTTP_PORT"),
			CORSAllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Tariff: TariffConfig{
			DefaultVersion: v.GetString("TARIFF_DEFAULT_VERSION"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		Dispatch: DispatchConfig{
			Timeout:    v.GetDuration("DISPATCH_TIMEOUT"),
			Attempts:   v.GetInt("DISPATCH_ATTEMPTS"),
			RetryDelay: v.GetDuration("DISPATCH_RETRY_DELAY"),
		},
		Document: DocumentConfig{
			Issuer: strings.TrimSpace(v.GetString("DOCUMENT_ISSUER")),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7089
	}
	if len(cfg.HTTP.CORSAllowedOrigins) == 0 {
		cfg.HTTP.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Tariff.DefaultVersion == "" {
		cfg.Tariff.DefaultVersion = "default"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Document.Issuer == "" {
		cfg.Document.Issuer = "Freiwillige Feuerwehr"
	}
	if cfg.Dispatch.Timeout <= 0 {
		cfg.Dispatch.Timeout = 30 * time.Second
	}
	if cfg.Dispatch.Attempts <= 0 {
		cfg.Dispatch.Attempts = 3
	}
	if cfg.Dispatch.RetryDelay <= 0 {
		cfg.Dispatch.RetryDelay = 2 * time.Second
	}

	rawStunden := strings.TrimSpace(v.GetString("CALC_DEFAULT_STUNDEN"))
	if rawStunden == "" {
		rawStunden = "1"
	}
	stunden, err := decimal.NewFromString(rawStunden)
	if err != nil {
		return nil, fmt.Errorf("CALC_DEFAULT_STUNDEN: %w", err)
	}
	cfg.Calculation.DefaultStunden = stunden

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if !cfg.Calculation.DefaultStunden.IsPositive() {
		return fmt.Errorf("CALC_DEFAULT_STUNDEN must be positive")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
