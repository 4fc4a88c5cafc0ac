package config

import (
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds Postgres settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds broker settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret string
}

// ServiceConfig holds all configuration for the billing service.
type ServiceConfig struct {
	Port            string
	AppEnv          string
	DefaultCurrency string
	MigrationsDir   string
	DBConfig        DatabaseConfig
	KafkaConfig     KafkaConfig
	JWTConfig       JWTConfig
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DEFAULT_CURRENCY", "USD")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "billing")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "lumina-")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")

	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &ServiceConfig{
		Port:            port,
		AppEnv:          v.GetString("APP_ENV"),
		DefaultCurrency: v.GetString("DEFAULT_CURRENCY"),
		MigrationsDir:   v.GetString("MIGRATIONS_DIR"),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		JWTConfig: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
	}, nil
}
