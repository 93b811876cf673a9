package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	return path
}

func TestLoadWithPath_Defaults(t *testing.T) {
	path := writeEnvFile(t, "APP_NAME=yoga-widget-backend\n")

	cfg, err := LoadWithPath(path)
	if err != nil {
		t.Fatalf("LoadWithPath failed: %v", err)
	}

	if cfg.App.Environment != "development" {
		t.Errorf("Expected environment 'development', got '%s'", cfg.App.Environment)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Database.DBName != "yoga_widget" {
		t.Errorf("Expected dbname 'yoga_widget', got '%s'", cfg.Database.DBName)
	}
	if cfg.Wix.VerifyCacheTTL.Minutes() != 5 {
		t.Errorf("Expected verify cache TTL 5m, got %v", cfg.Wix.VerifyCacheTTL)
	}
	if cfg.Kafka.Enabled {
		t.Error("Expected kafka disabled by default")
	}
}

func TestLoadWithPath_Overrides(t *testing.T) {
	path := writeEnvFile(t, `
SERVER_PORT=9090
DATABASE_DBNAME=widget_test
WIX_APP_SECRET=secret-from-file
KAFKA_BROKERS=k1:9092,k2:9092
`)

	cfg, err := LoadWithPath(path)
	if err != nil {
		t.Fatalf("LoadWithPath failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.DBName != "widget_test" {
		t.Errorf("Expected dbname 'widget_test', got '%s'", cfg.Database.DBName)
	}
	if cfg.Wix.AppSecret != "secret-from-file" {
		t.Errorf("Expected app secret from file, got '%s'", cfg.Wix.AppSecret)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Expected 2 kafka brokers, got %d", len(cfg.Kafka.Brokers))
	}
}

func TestValidate_ProductionGuards(t *testing.T) {
	path := writeEnvFile(t, `
APP_ENVIRONMENT=production
WIX_ALLOW_ANONYMOUS=false
`)

	// Default secret is rejected in production
	if _, err := LoadWithPath(path); err == nil {
		t.Error("Expected error for default secret in production")
	}

	path = writeEnvFile(t, `
APP_ENVIRONMENT=production
WIX_APP_SECRET=real-secret
WIX_ALLOW_ANONYMOUS=true
`)

	// Anonymous bypass is rejected in production
	if _, err := LoadWithPath(path); err == nil {
		t.Error("Expected error for anonymous bypass in production")
	}

	path = writeEnvFile(t, `
APP_ENVIRONMENT=production
WIX_APP_SECRET=real-secret
WIX_ALLOW_ANONYMOUS=false
`)

	if _, err := LoadWithPath(path); err != nil {
		t.Errorf("Expected valid production config, got: %v", err)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		DBName:   "yoga_widget",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=postgres password=postgres dbname=yoga_widget sslmode=disable"
	if dsn := d.DSN(); dsn != expected {
		t.Errorf("DSN mismatch:\nExpected: %s\nGot: %s", expected, dsn)
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	r := &RedisConfig{Host: "localhost", Port: 6379}
	if addr := r.Addr(); addr != "localhost:6379" {
		t.Errorf("Expected 'localhost:6379', got '%s'", addr)
	}
}
