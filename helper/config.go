package helper

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DatabaseConfiguration holds the postgres connection parameters.
// All values are read from the environment; a .env file is loaded if present.
type DatabaseConfiguration struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// NewDatabaseConfiguration reads the database configuration from the environment.
// Required variables: DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME.
// DB_SSLMODE is optional and defaults to "disable".
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	// Best effort, env vars may already be set by the caller
	_ = godotenv.Load()

	config := &DatabaseConfiguration{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	if config.Host == "" || config.Port == "" || config.User == "" || config.Password == "" || config.Name == "" {
		return nil, NewError("database configuration", fmt.Errorf("missing required environment variables (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)"))
	}

	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config, nil
}

// ConnectionString builds a lib/pq connection string from the configuration
func (c *DatabaseConfiguration) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
