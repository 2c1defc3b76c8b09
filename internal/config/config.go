package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the POS backend.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// RabbitMQConfig holds RabbitMQ connection configuration.
type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host string
	Port int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present, without overriding variables that
// are already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("POS_PORT", 3000),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POS_DB_HOST", "localhost"),
			Port:     getEnvInt("POS_DB_PORT", 5432),
			User:     getEnv("POS_DB_USER", "postgres"),
			Password: getEnv("POS_DB_PASSWORD", "postgres"),
			Database: getEnv("POS_DB_NAME", "resto_pos"),
		},
		RabbitMQ: RabbitMQConfig{
			Host:     getEnv("POS_RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("POS_RABBITMQ_PORT", 5672),
			User:     getEnv("POS_RABBITMQ_USER", "guest"),
			Password: getEnv("POS_RABBITMQ_PASSWORD", "guest"),
		},
		Redis: RedisConfig{
			Host: getEnv("POS_REDIS_HOST", "localhost"),
			Port: getEnvInt("POS_REDIS_PORT", 6379),
		},
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid POS_PORT: %d", cfg.Server.Port)
	}

	return cfg, nil
}

// DatabaseURL returns a PostgreSQL connection URL.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL.
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

// RedisAddr returns the host:port address of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable parsed as int, or a default.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
