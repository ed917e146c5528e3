package inits

import (
	"database/sql"
	"e-voting/app/server/config"
	"e-voting/app/server/constants"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func Config() (*config.Config, error) {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	cfg := &config.Config{}

	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":1323"
	} else {
		cfg.System.Listen = listen
	}

	if dbconn := os.Getenv("DB_CONN"); dbconn == "" {
		return nil, fmt.Errorf("DB_CONN environment variable not set")
	} else {
		cfg.System.DBConnectionString = dbconn
	}

	var err error
	if cfg.System.DBMaxOpenConns, err = envInt("DB_MAX_OPEN_CONNS", 20); err != nil {
		return nil, err
	}
	if cfg.System.DBMaxIdleConns, err = envInt("DB_MAX_IDLE_CONNS", 10); err != nil {
		return nil, err
	}

	// Redis is optional here: without it sessions are checked against the DB every time
	cfg.System.RedisConnectionString = os.Getenv("REDIS_CONN")

	if sigsk := os.Getenv("SIGNATURE_SECRET_KEY"); sigsk == "" {
		return nil, fmt.Errorf("SIGNATURE_SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}

	if cfg.Security.TokenExpiresIn, err = envDuration("JWT_EXPIRES_IN", constants.DefaultTokenExpiresIn); err != nil {
		return nil, err
	}

	if cfg.Vote.TxTimeout, err = envDuration("VOTE_TX_TIMEOUT", constants.DefaultVoteTxTimeout); err != nil {
		return nil, err
	}

	if cfg.Vote.TxIsolation, err = parseIsolation(os.Getenv("VOTE_TX_ISOLATION")); err != nil {
		return nil, err
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Events.KafkaBrokers = append(cfg.Events.KafkaBrokers, b)
			}
		}
	}
	if topic, exist := os.LookupEnv("KAFKA_TOPIC"); !exist {
		cfg.Events.KafkaTopic = "evote.votes"
	} else {
		cfg.Events.KafkaTopic = topic
	}

	if id, exist := os.LookupEnv("ADMIN_IDENTIFIER"); !exist {
		cfg.Bootstrap.AdminIdentifier = "admin"
	} else {
		cfg.Bootstrap.AdminIdentifier = id
	}
	if pw, exist := os.LookupEnv("ADMIN_PASSWORD"); !exist {
		cfg.Bootstrap.AdminPassword = "password"
	} else {
		cfg.Bootstrap.AdminPassword = pw
	}

	return cfg, nil
}

func envInt(key string, def int) (int, error) {
	v, exist := os.LookupEnv(key)
	if !exist || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v, exist := os.LookupEnv(key)
	if !exist || v == "" {
		return def, nil
	}
	d, err := parseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// parseDuration accepts Go durations plus a plain day suffix ("7d").
func parseDuration(v string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid duration %q", v)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", v)
	}
	return d, nil
}

func parseIsolation(v string) (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "serializable":
		return sql.LevelSerializable, nil
	case "repeatable_read", "repeatable-read":
		return sql.LevelRepeatableRead, nil
	case "read_committed", "read-committed":
		return sql.LevelReadCommitted, nil
	case "default":
		return sql.LevelDefault, nil
	default:
		return sql.LevelDefault, fmt.Errorf("unknown VOTE_TX_ISOLATION %q", v)
	}
}
