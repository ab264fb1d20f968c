package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type HeaderConfig struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		RedisURL          string `toml:"redis_url"`
		TokenHeader       string `toml:"token_header"`
		SessionTTLMinutes int    `toml:"session_ttl_minutes"`
	} `toml:"auth"`

	Login struct {
		EmailSuffix string `toml:"email_suffix"`
	} `toml:"login"`

	API struct {
		EmailHeader     string         `toml:"email_header"`
		RequiredHeaders []HeaderConfig `toml:"required_headers"`
	} `toml:"api"`

	Database struct {
		DSN string `toml:"dsn"`
	} `toml:"database"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("Database DSN is not specified in config")
	}
	if config.Server.EnableAuth && config.Auth.RedisURL == "" {
		return nil, fmt.Errorf("Auth is enabled but auth.redis_url is not set")
	}
	if config.Auth.TokenHeader == "" {
		config.Auth.TokenHeader = "Authorization"
	}
	if config.API.EmailHeader == "" {
		config.API.EmailHeader = "X-Student-Email"
	}

	logger.Debug.Printf("Loaded login config: %+v", config.Login)

	return &config, nil
}
