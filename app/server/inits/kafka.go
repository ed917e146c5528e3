package inits

import (
	"e-voting/app/server/config"
	"time"

	"github.com/segmentio/kafka-go"
)

// Kafka returns nil when no brokers are configured.
func Kafka(cfg *config.Config) *kafka.Writer {
	if len(cfg.Events.KafkaBrokers) == 0 {
		return nil
	}

	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Events.KafkaBrokers...),
		Topic:        cfg.Events.KafkaTopic,
		Balancer:     &kafka.Hash{}, // votes of one voting stay ordered on one partition
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}
