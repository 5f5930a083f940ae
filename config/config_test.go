package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
auth:
  jwt_secret: "file-secret-0123456789"
mqtt:
  enabled: true
  broker: "tcp://broker:1883"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("寫入設定檔失敗: %v", err)
	}
	t.Setenv("CARE_SERVER_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失敗: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("環境變數應覆蓋設定檔，期望 7070，實際 %d", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "file-secret-0123456789" {
		t.Errorf("期望讀到設定檔的 jwt_secret，實際 %q", cfg.Auth.JWTSecret)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Broker != "tcp://broker:1883" {
		t.Errorf("mqtt 設定讀取錯誤: %+v", cfg.MQTT)
	}
	if cfg.Database.Timezone != "Asia/Hong_Kong" {
		t.Errorf("期望預設時區 Asia/Hong_Kong，實際 %s", cfg.Database.Timezone)
	}
	if cfg.Server.RateLimit.Window != time.Minute {
		t.Errorf("期望預設限流窗口 1m，實際 %s", cfg.Server.RateLimit.Window)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{JWTSecret: "short"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("過短的 jwt_secret 應校驗失敗")
	}

	cfg.Auth.JWTSecret = "0123456789abcdef"
	if err := cfg.Validate(); err != nil {
		t.Errorf("期望通過，實際 %v", err)
	}

	cfg.MQTT = MQTTConfig{Enabled: true, QoS: 3, Broker: "tcp://x:1883"}
	if err := cfg.Validate(); err == nil {
		t.Error("qos=3 應校驗失敗")
	}
}
