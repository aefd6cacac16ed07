package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "caretrek",
			Password: "secret",
			Name:     "caretrek_db",
			SSLMode:  "disable",
		},
		JWT: JWTConfig{
			Secret: strings.Repeat("k", 32),
		},
		SMS: SMSConfig{
			Provider: "mock",
		},
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing database password",
			mutate:  func(c *Config) { c.Database.Password = "" },
			wantErr: "DATABASE_PASSWORD",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.JWT.Secret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.JWT.Secret = "too-short" },
			wantErr: "at least 32 characters",
		},
		{
			name: "fast2sms without api key",
			mutate: func(c *Config) {
				c.SMS.Provider = "fast2sms"
				c.SMS.APIKey = ""
			},
			wantErr: "SMS_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFast2SMSWithKeyIsValid(t *testing.T) {
	cfg := validConfig()
	cfg.SMS.Provider = "fast2sms"
	cfg.SMS.APIKey = "api-key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("fast2sms with key rejected: %v", err)
	}
}

func TestDSN(t *testing.T) {
	got := validConfig().DSN()
	want := "host=localhost port=5432 user=caretrek password=secret dbname=caretrek_db sslmode=disable"
	if got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
