package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	ServiceName string
	Port        string
	Database    DatabaseConfig
	Dynamo      DynamoConfig
	Auth        AuthConfig

	// IncludeDeletedReads enables the privileged read mode that still
	// fetches soft-deleted products. Reads filter them out by default.
	IncludeDeletedReads bool
}

// DatabaseConfig holds relational store configuration
type DatabaseConfig struct {
	Path            string
	MigrationsPath  string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DynamoConfig holds document store configuration
type DynamoConfig struct {
	Region      string
	Endpoint    string
	AuditTable  string
	ConfigTable string
}

// AuthConfig holds actor-identity configuration
type AuthConfig struct {
	JWTSecret string
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SERVICE_NAME", "product-catalog-api")
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("DB_PATH", "./data/catalog.db")
	viper.SetDefault("DB_MIGRATIONS_PATH", "./migrations")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 2)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 1)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	viper.SetDefault("TABLE_AUDIT", "product-audit-trail")
	viper.SetDefault("TABLE_CONFIG", "app-configs")
	viper.SetDefault("INCLUDE_DELETED_READS", false)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		ServiceName: serviceName(),
		Port:        viper.GetString("PORT"),
		Database: DatabaseConfig{
			Path:            viper.GetString("DB_PATH"),
			MigrationsPath:  viper.GetString("DB_MIGRATIONS_PATH"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute,
		},
		Dynamo: DynamoConfig{
			Region:      viper.GetString("AWS_REGION"),
			Endpoint:    viper.GetString("DYNAMO_ENDPOINT"),
			AuditTable:  viper.GetString("TABLE_AUDIT"),
			ConfigTable: viper.GetString("TABLE_CONFIG"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
		},
		IncludeDeletedReads: viper.GetBool("INCLUDE_DELETED_READS"),
	}

	if IsServerlessMode() {
		config = AdaptConfigForServerless(config)
	}

	return config, nil
}

// serviceName resolves the service name, preferring the Lambda function name
// when running in Lambda.
func serviceName() string {
	if name := viper.GetString("AWS_LAMBDA_FUNCTION_NAME"); name != "" {
		return name
	}
	return viper.GetString("SERVICE_NAME")
}
