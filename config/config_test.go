package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGetEnv_Default(t *testing.T) {
	t.Setenv("MARKETSTOCK_TEST_KEY", "")
	if got := GetEnv("MARKETSTOCK_TEST_KEY", "def"); got != "def" {
		t.Errorf("GetEnv empty = %q, want def", got)
	}
	t.Setenv("MARKETSTOCK_TEST_KEY", "v")
	if got := GetEnv("MARKETSTOCK_TEST_KEY", "def"); got != "v" {
		t.Errorf("GetEnv set = %q, want v", got)
	}
}

func TestGetEnvIntBool(t *testing.T) {
	t.Setenv("MARKETSTOCK_INT", "12")
	t.Setenv("MARKETSTOCK_BAD_INT", "x")
	t.Setenv("MARKETSTOCK_BOOL", "false")
	if got := getEnvInt("MARKETSTOCK_INT", 4); got != 12 {
		t.Errorf("getEnvInt = %d, want 12", got)
	}
	if got := getEnvInt("MARKETSTOCK_BAD_INT", 4); got != 4 {
		t.Errorf("getEnvInt bad = %d, want 4", got)
	}
	if got := getEnvBool("MARKETSTOCK_BOOL", true); got {
		t.Error("getEnvBool = true, want false")
	}
}

func TestMySQLDSN_FromParts(t *testing.T) {
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("MYSQL_USER", "u")
	t.Setenv("MYSQL_PASS", "p")
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("MYSQL_PORT", "")
	t.Setenv("MYSQL_DB", "stock")
	want := "u:p@tcp(db:3306)/stock?parseTime=true&charset=utf8mb4&loc=Local"
	if got := MySQLDSN(); got != want {
		t.Errorf("MySQLDSN = %q, want %q", got, want)
	}
}

func TestPingRedis_NotConfigured(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	InitRedis()
	if RedisClient != nil {
		t.Fatal("RedisClient should be nil without REDIS_ADDR")
	}
	if msg := PingRedis(t.Context()); msg == "" {
		t.Error("PingRedis returned empty status")
	}
}

func TestLoadEnv_AppliesLogLevelFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")
	t.Chdir(dir)
	prev := GetLogger().GetLevel()
	t.Cleanup(func() { GetLogger().SetLevel(prev) })

	GetLogger().SetLevel(logrus.InfoLevel)
	LoadEnv()
	if got := GetLogger().GetLevel(); got != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}
}
