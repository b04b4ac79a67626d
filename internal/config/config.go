// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// JWTSecret is the symmetric key used to sign and verify tokens.
	JWTSecret string

	// TokenTTL is the token lifetime as a Go duration string (e.g. "24h").
	TokenTTL string

	// AdminPassword is the fixed secret for the reserved admin account.
	AdminPassword string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.JWTSecret, "s", "", "token signing secret")
	flag.StringVar(&options.TokenTTL, "ttl", "24h", "token lifetime")
	flag.StringVar(&options.AdminPassword, "ap", "", "admin account password")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		options.TokenTTL = ttl
	}
	if adminPassword := os.Getenv("ADMIN_PASSWORD"); adminPassword != "" {
		options.AdminPassword = adminPassword
	}

	return options
}

// TokenLifetime parses TokenTTL, falling back to 24 hours when the value
// is empty or malformed.
func (o *Options) TokenLifetime() time.Duration {
	d, err := time.ParseDuration(o.TokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}
