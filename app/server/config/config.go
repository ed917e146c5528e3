package config

import (
	"database/sql"
	"time"
)

type Config struct {
	System struct {
		IsProd                bool   // production mode: quieter logs, no API docs
		Listen                string // listen address
		DBConnectionString    string // Postgres connection string
		DBMaxOpenConns        int    // connection pool size, caps concurrent vote transactions
		DBMaxIdleConns        int    // idle connections kept in the pool
		RedisConnectionString string // Redis connection string, empty disables the session cache
	}
	Security struct {
		SignatureSecretKey string        // signs session tokens; rotating it logs everyone out
		TokenExpiresIn     time.Duration // session token lifetime
	}
	Vote struct {
		TxTimeout   time.Duration      // upper bound for one vote transaction
		TxIsolation sql.IsolationLevel // isolation level of the vote transaction
	}
	Events struct {
		KafkaBrokers []string // empty disables vote event publishing
		KafkaTopic   string
	}
	Bootstrap struct {
		AdminIdentifier string // account seeded into an empty users table
		AdminPassword   string
	}
}
