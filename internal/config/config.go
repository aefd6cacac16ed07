package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMS      SMSConfig
	CORS     CORSConfig
	App      AppConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type JWTConfig struct {
	Secret    string
	ExpiryHrs int
	Issuer    string
}

type SMSConfig struct {
	Provider string // "fast2sms" or "mock"
	APIKey   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type AppConfig struct {
	Env      string
	LogLevel string
}

// Load reads config.yaml (if present), layers environment variables on
// top, and validates required secrets. A .env file is loaded first so
// local development doesn't need exported variables.
func Load() (*Config, error) {
	// Ignore error: .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "caretrek")
	v.SetDefault("database.name", "caretrek_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("jwt.expiry_hrs", 72)
	v.SetDefault("jwt.issuer", "caretrek")
	v.SetDefault("sms.provider", "mock")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; env vars alone are enough
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
			SSLMode:  v.GetString("database.sslmode"),
			MaxConns: int32(v.GetInt("database.max_conns")),
		},
		JWT: JWTConfig{
			Secret:    v.GetString("jwt.secret"),
			ExpiryHrs: v.GetInt("jwt.expiry_hrs"),
			Issuer:    v.GetString("jwt.issuer"),
		},
		SMS: SMSConfig{
			Provider: v.GetString("sms.provider"),
			APIKey:   v.GetString("sms.api_key"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		},
		App: AppConfig{
			Env:      v.GetString("app.env"),
			LogLevel: v.GetString("app.log_level"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.SMS.Provider == "fast2sms" && c.SMS.APIKey == "" {
		return fmt.Errorf("SMS_API_KEY is required when sms provider is fast2sms")
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Name, c.Database.SSLMode,
	)
}
