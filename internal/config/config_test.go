package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	if err := os.Setenv("ACCESS_ALLOWED_EMAILS", "tesoreria@empresa.com.ar, Gerencia@Empresa.com.ar"); err != nil {
		t.Fatalf("Failed to set ACCESS_ALLOWED_EMAILS: %v", err)
	}
	if err := os.Setenv("SERVER_PORT", "9090"); err != nil {
		t.Fatalf("Failed to set SERVER_PORT: %v", err)
	}
	if err := os.Setenv("POSTGRES_HOST", "testhost"); err != nil {
		t.Fatalf("Failed to set POSTGRES_HOST: %v", err)
	}
	if err := os.Setenv("GATEWAY_TIMEOUT", "3s"); err != nil {
		t.Fatalf("Failed to set GATEWAY_TIMEOUT: %v", err)
	}
	defer func() {
		_ = os.Unsetenv("ACCESS_ALLOWED_EMAILS")
		_ = os.Unsetenv("SERVER_PORT")
		_ = os.Unsetenv("POSTGRES_HOST")
		_ = os.Unsetenv("GATEWAY_TIMEOUT")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %v, want %v", cfg.Server.Port, "9090")
	}

	if cfg.Database.Postgres.Host != "testhost" {
		t.Errorf("Database.Postgres.Host = %v, want %v", cfg.Database.Postgres.Host, "testhost")
	}

	if cfg.Gateway.Timeout != 3*time.Second {
		t.Errorf("Gateway.Timeout = %v, want %v", cfg.Gateway.Timeout, 3*time.Second)
	}

	// Emails are normalized to lower case
	if len(cfg.Access.AllowedEmails) != 2 || cfg.Access.AllowedEmails[1] != "gerencia@empresa.com.ar" {
		t.Errorf("Access.AllowedEmails = %v, want two lower-cased entries", cfg.Access.AllowedEmails)
	}

	if cfg.RedisEnabled() {
		t.Error("RedisEnabled() = true without REDIS_HOST set")
	}
}

func TestLoadConfig_RequiresAllowList(t *testing.T) {
	_ = os.Unsetenv("ACCESS_ALLOWED_EMAILS")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() expected error with empty allow-list")
	}
}

func TestLoadConfig_RejectsBadScheduleTime(t *testing.T) {
	if err := os.Setenv("ACCESS_ALLOWED_EMAILS", "a@b.com"); err != nil {
		t.Fatalf("Failed to set ACCESS_ALLOWED_EMAILS: %v", err)
	}
	if err := os.Setenv("SCHEDULER_DAILY_DIGEST_AT", "25:99"); err != nil {
		t.Fatalf("Failed to set SCHEDULER_DAILY_DIGEST_AT: %v", err)
	}
	defer func() {
		_ = os.Unsetenv("ACCESS_ALLOWED_EMAILS")
		_ = os.Unsetenv("SCHEDULER_DAILY_DIGEST_AT")
	}()

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() expected error with invalid schedule time")
	}
}

func TestGetEnvAsList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "empty value yields nil", value: "", want: 0},
		{name: "trims and drops empty entries", value: " a@b.com ,, c@d.com", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv("TEST_LIST_KEY", tt.value); err != nil {
					t.Fatalf("Failed to set env var: %v", err)
				}
				defer func() {
					_ = os.Unsetenv("TEST_LIST_KEY")
				}()
			}

			got := getEnvAsList("TEST_LIST_KEY")
			if len(got) != tt.want {
				t.Errorf("getEnvAsList() = %v, want %d entries", got, tt.want)
			}
		})
	}
}
