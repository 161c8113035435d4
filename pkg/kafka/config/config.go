package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Brokers []string

	ProducerCompression  string
	ProducerRequireAcks  int
	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerAsync        bool
}

const (
	EnvBrokers              = "KAFKA_BROKERS"
	EnvProducerCompression  = "KAFKA_PRODUCER_COMPRESSION"
	EnvProducerRequireAcks  = "KAFKA_PRODUCER_REQUIRE_ACKS"
	EnvProducerMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvProducerBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvProducerAsync        = "KAFKA_PRODUCER_ASYNC"
)

const (
	DefaultProducerCompression  = "snappy"
	DefaultProducerRequireAcks  = -1
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 100 * time.Millisecond
)

func Load() *Config {
	return &Config{
		Brokers: splitList(os.Getenv(EnvBrokers)),

		ProducerCompression:  getStr(EnvProducerCompression, DefaultProducerCompression),
		ProducerRequireAcks:  getNum(EnvProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerMaxAttempts:  getNum(EnvProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout: getDuration(EnvProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerAsync:        os.Getenv(EnvProducerAsync) == "true",
	}
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getNum(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
