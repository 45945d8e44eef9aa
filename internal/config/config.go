package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Protocol constants.
const (
	// NotificationPreviewLen bounds the content carried by a
	// messageNotification; longer content is cut and ellipsized.
	NotificationPreviewLen = 50

	// History pagination.
	DefaultPageLimit = 50
	MaxPageLimit     = 100

	// RegistryShards is the shard count of the session registry map.
	RegistryShards = 16

	// SendBufferSize is the per-connection outbound channel capacity.
	SendBufferSize = 256

	// BridgeChannel is the redis pub/sub channel carrying cross-node events.
	BridgeChannel = "chat:events"
)

// Config holds the environment-driven settings of the service process.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"user"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"password"`
	DBName     string `envconfig:"DB_NAME" default:"eventchatdb"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// JWTSecret has no default: refusing to boot beats shipping a
	// well-known signing key.
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// NodeID tags bridge envelopes; generated per process when empty.
	NodeID string `envconfig:"NODE_ID" default:""`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN formats the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
