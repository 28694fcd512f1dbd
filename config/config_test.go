package config

import (
	"os"
	"testing"
	"time"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "SESSION_STORE", "SESSION_TTL", "REPORT_TIMEZONE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SessionStore != SessionStoreMemory {
		t.Errorf("SessionStore = %q, want memory", cfg.SessionStore)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("SessionTTL = %s, want 12h", cfg.SessionTTL)
	}
	if cfg.Location().String() != "Europe/Istanbul" {
		t.Errorf("Location = %s", cfg.Location())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown store", map[string]string{"SESSION_STORE": "etcd"}},
		{"redis without addr", map[string]string{"SESSION_STORE": "redis"}},
		{"bad ttl", map[string]string{"SESSION_TTL": "-1h"}},
		{"bad timezone", map[string]string{"REPORT_TIMEZONE": "Mars/Olympus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t, "SESSION_STORE", "SESSION_TTL", "REPORT_TIMEZONE")
			unsetEnv(t, "REDIS_ADDR")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_Redis(t *testing.T) {
	unsetEnv(t, "SESSION_TTL", "REPORT_TIMEZONE")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RedisDB != 3 || cfg.RedisAddr != "localhost:6379" {
		t.Errorf("unexpected redis config: %+v", cfg)
	}
}
