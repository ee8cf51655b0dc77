package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile_DefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 8080 || cfg.Mode != "release" || cfg.PingPeriod != 54*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RateLimit.Events != 50 || cfg.RateLimit.Interval != time.Second {
		t.Fatalf("rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.FileName != "" {
		t.Fatalf("FileName=%q, want empty", cfg.FileName)
	}
	servers, err := cfg.WebRTCICEServers()
	if err != nil || len(servers) != 1 {
		t.Fatalf("ICE servers=%v, %v", servers, err)
	}
}

func TestLoadFile_ReadsYAML(t *testing.T) {
	path := writeConfig(t, `
mode: debug
port: 9090
log_level: debug
require_relay_auth: true
backpressure_policy: kick
token_ttl: 30m
rate_limit:
  events: 5
  interval: 2s
allowed_origins: ["http://localhost:3000"]
ice_servers:
  - urls: ["stun:stun.example.com:3478"]
  - urls: ["turn:turn.example.com:3478?transport=udp"]
    username: u
    credential: p
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 9090 || cfg.Mode != "debug" || !cfg.RequireRelayAuth || cfg.BackpressurePolicy != "kick" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.TokenTTL != 30*time.Minute || cfg.RateLimit.Events != 5 || cfg.RateLimit.Interval != 2*time.Second {
		t.Fatalf("durations: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("origins=%v", cfg.AllowedOrigins)
	}
	if cfg.Level() != zerolog.DebugLevel {
		t.Fatalf("Level=%v", cfg.Level())
	}
	if cfg.FileName != path {
		t.Fatalf("FileName=%q, want %q", cfg.FileName, path)
	}
	servers, err := cfg.WebRTCICEServers()
	if err != nil {
		t.Fatalf("WebRTCICEServers: %v", err)
	}
	if len(servers) != 2 || servers[1].Username != "u" {
		t.Fatalf("servers=%+v", servers)
	}
}

func TestLoadFile_EnvOverride(t *testing.T) {
	t.Setenv("HUDDLE_PORT", "7070")
	t.Setenv("HUDDLE_RATE_LIMIT_EVENTS", "3")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 7070 || cfg.RateLimit.Events != 3 {
		t.Fatalf("port=%d events=%d", cfg.Port, cfg.RateLimit.Events)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad policy", "backpressure_policy: explode\n", "backpressure_policy"},
		{"bad port", "port: 70000\n", "port"},
		{"pong before ping", "ping_period: 10s\npong_wait: 5s\n", "pong_wait"},
		{"turn without creds", "ice_servers:\n  - urls: [\"turn:t.example.com:3478\"]\n", "requires username"},
		{"garbage url", "ice_servers:\n  - urls: [\"http://nope\"]\n", "ice_servers[0]"},
	}
	for _, tt := range tests {
		_, err := LoadFile(writeConfig(t, tt.body))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("%s: err=%v, want mention of %q", tt.name, err, tt.want)
		}
	}
}
