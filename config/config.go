package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
	Business BusinessConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver   string
	DSN      string
	SeedDemo bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers        []string
	TopicPurchases string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
	TracingEnabled bool
}

type BusinessConfig struct {
	// FailureRate is the probability that an otherwise valid purchase is
	// rejected with a simulated failure, drawn once per attempt.
	FailureRate float64
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	failureRate, err := strconv.ParseFloat(getEnv("PURCHASE_FAILURE_RATE", "0.2"), 64)
	if err != nil || failureRate < 0 || failureRate > 1 {
		failureRate = 0.2
	}

	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", ""); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			DSN:      getEnv("DB_DSN", "data/shop.db"),
			SeedDemo: getEnv("DB_SEED_DEMO", "true") == "true",
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:        brokers,
			TopicPurchases: getEnv("KAFKA_TOPIC_PURCHASE_EVENTS", "purchase-events"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			TracingEnabled: getEnv("TRACING_ENABLED", "false") == "true",
		},
		Business: BusinessConfig{
			FailureRate: failureRate,
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, db=%s", cfg.Server.Env, cfg.Server.Port, cfg.Database.Driver)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
