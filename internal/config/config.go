// Package config loads engine configuration the way the rest of the
// stack does: an optional .env file layered under environment variables,
// read through viper with an ITCHBOOK_ prefix.
package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every externally tunable knob the replay engine exposes.
// An empty RedisAddr or KafkaBrokers disables that sink; the HTTP server
// always runs, on HTTPAddr (":8080" by default).
type Config struct {
	HTTPAddr string `mapstructure:"http_addr"`

	RedisAddr   string `mapstructure:"redis_addr"`
	RedisPrefix string `mapstructure:"redis_prefix"`

	KafkaBrokers string `mapstructure:"kafka_brokers"`
	KafkaTopic   string `mapstructure:"kafka_topic"`

	LogLevel      string `mapstructure:"log_level"`
	TracePretty   bool   `mapstructure:"trace_pretty"`
	TraceDisabled bool   `mapstructure:"trace_disabled"`
}

func defaults() Config {
	return Config{
		HTTPAddr:    ":8080",
		RedisPrefix: "itchbook.book",
		KafkaTopic:  "itchbook.top-of-book",
		LogLevel:    "info",
	}
}

// Load reads a .env file if present, then environment variables prefixed
// ITCHBOOK_, overlaying the package defaults. A missing .env file is not
// an error — most deployments set real environment variables instead.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	v := viper.New()
	v.SetEnvPrefix("ITCHBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := defaults()
	v.SetDefault("http_addr", cfg.HTTPAddr)
	v.SetDefault("redis_prefix", cfg.RedisPrefix)
	v.SetDefault("kafka_topic", cfg.KafkaTopic)
	v.SetDefault("log_level", cfg.LogLevel)

	cfg.HTTPAddr = v.GetString("http_addr")
	cfg.RedisAddr = v.GetString("redis_addr")
	cfg.RedisPrefix = v.GetString("redis_prefix")
	cfg.KafkaBrokers = v.GetString("kafka_brokers")
	cfg.KafkaTopic = v.GetString("kafka_topic")
	cfg.LogLevel = v.GetString("log_level")
	cfg.TracePretty = v.GetBool("trace_pretty")
	cfg.TraceDisabled = v.GetBool("trace_disabled")

	return &cfg
}

// KafkaBrokerList splits the comma-separated broker string into the slice
// kafka.TCP expects. Returns nil when Kafka publishing is disabled.
func (c *Config) KafkaBrokerList() []string {
	if c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
