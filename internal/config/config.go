package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds the application configuration.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	TokenTTL   time.Duration `mapstructure:"TOKEN_TTL"`
	BcryptCost int           `mapstructure:"BCRYPT_COST"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
}

var defaults = map[string]interface{}{
	"PORT":           "5000",
	"GIN_MODE":       "",
	"STORE_DRIVER":   DriverPostgres,
	"DATABASE_URL":   "",
	"MONGO_URI":      "",
	"MONGO_DATABASE": "socialportfolio",
	"JWT_SECRET":     "",
	"TOKEN_TTL":      "168h",
	"BCRYPT_COST":    10,
	"CORS_ORIGINS":   []string{"http://localhost:5500", "http://127.0.0.1:5500"},
}

// Load loads the configuration from a .env file and environment variables.
// An empty envFile means ".env" in the working directory. A missing file is
// not an error; the environment alone is used.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	if envFile == "" {
		v.AddConfigPath(".")
		v.SetConfigName(".env")
	} else {
		v.SetConfigFile(envFile)
	}
	v.SetConfigType("env")

	// Unmarshal only sees keys viper knows about, so every key gets a default.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the settings needed by the selected store are present.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the %s driver", c.StoreDriver)
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("config: MONGO_URI is required for the mongo driver")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}
