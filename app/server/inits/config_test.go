package inits

import (
	"database/sql"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestConfig(t *testing.T) {
	t.Setenv("DB_CONN", "postgres://localhost/evote")
	t.Setenv("SIGNATURE_SECRET_KEY", "s3cret")
	t.Setenv("MODE", "production")
	t.Setenv("JWT_EXPIRES_IN", "2d")
	t.Setenv("VOTE_TX_ISOLATION", "read_committed")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}

	if !cfg.System.IsProd || cfg.System.Listen != ":1323" || cfg.System.DBMaxOpenConns != 20 {
		t.Errorf("System = %+v", cfg.System)
	}
	if cfg.Security.TokenExpiresIn != 48*time.Hour {
		t.Errorf("TokenExpiresIn = %v, want 48h", cfg.Security.TokenExpiresIn)
	}
	if cfg.Vote.TxIsolation != sql.LevelReadCommitted || cfg.Vote.TxTimeout != 10*time.Second {
		t.Errorf("Vote = %+v", cfg.Vote)
	}
	if len(cfg.Events.KafkaBrokers) != 2 || cfg.Events.KafkaBrokers[1] != "k2:9092" || cfg.Events.KafkaTopic != "evote.votes" {
		t.Errorf("Events = %+v", cfg.Events)
	}
	if Kafka(cfg) == nil {
		t.Error("Kafka() = nil with brokers configured")
	}
}

func TestConfigRequired(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"DB_CONN": "x"}},
		{"bad pool size", map[string]string{"DB_CONN": "x", "SIGNATURE_SECRET_KEY": "k", "DB_MAX_OPEN_CONNS": "zero"}},
		{"bad isolation", map[string]string{"DB_CONN": "x", "SIGNATURE_SECRET_KEY": "k", "VOTE_TX_ISOLATION": "chaos"}},
		{"bad timeout", map[string]string{"DB_CONN": "x", "SIGNATURE_SECRET_KEY": "k", "VOTE_TX_TIMEOUT": "-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DB_CONN", "SIGNATURE_SECRET_KEY", "DB_MAX_OPEN_CONNS", "VOTE_TX_ISOLATION", "VOTE_TX_TIMEOUT"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Config(); err == nil {
				t.Error("Config() succeeded")
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"0d", 0, true},
		{"xd", 0, true},
		{"soon", 0, true},
		{"0s", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDuration(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRedis(t *testing.T) {
	if rdb, err := Redis(""); rdb != nil || err != nil {
		t.Errorf("Redis(\"\") = %v, %v; want nil, nil", rdb, err)
	}

	mr := miniredis.RunT(t)
	rdb, err := Redis("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("Redis() error = %v", err)
	}
	_ = rdb.Close()

	if _, err := Redis("not a url"); err == nil {
		t.Error("Redis() accepted a malformed URL")
	}
}
