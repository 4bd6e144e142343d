package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. Values come from the environment,
// with an optional .env file loaded first.
type Config struct {
	AppPort string

	DatabaseURL string
	DBHost      string
	DBPort      int
	DBName      string
	DBUser      string
	DBPassword  string
	DBSSLMode   string

	AdminAPIKey string

	// RabbitMQURL is optional; empty disables event publishing.
	RabbitMQURL string
}

// Load reads configuration from environment variables, applying defaults.
func Load() Config {
	_ = godotenv.Load()

	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_NAME", "appdb")
	viper.SetDefault("DB_USER", "app_user")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_SSLMODE", "prefer")
	viper.SetDefault("ADMIN_API_KEY", "change-me")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	return Config{
		AppPort:     viper.GetString("APP_PORT"),
		DatabaseURL: viper.GetString("DATABASE_URL"),
		DBHost:      viper.GetString("DB_HOST"),
		DBPort:      viper.GetInt("DB_PORT"),
		DBName:      viper.GetString("DB_NAME"),
		DBUser:      viper.GetString("DB_USER"),
		DBPassword:  viper.GetString("DB_PASSWORD"),
		DBSSLMode:   viper.GetString("DB_SSLMODE"),
		AdminAPIKey: viper.GetString("ADMIN_API_KEY"),
		RabbitMQURL: viper.GetString("RABBITMQ_URL"),
	}
}

// DSN builds the PostgreSQL connection string. DATABASE_URL, when set, wins
// over the discrete DB_* variables.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}
