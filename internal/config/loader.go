package config

import (
	"fmt"

	"github.com/aeroaudit/flightcheck/internal/db"
	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// LookupConfig holds the external airport lookup settings.
type LookupConfig struct {
	BaseURL  string
	APIToken string
}

// OpenAIConfig holds the country disambiguation settings.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// Config aggregates all runtime settings.
type Config struct {
	DB     db.Config
	Server ServerConfig
	Lookup LookupConfig
	OpenAI OpenAIConfig
}

// Load reads config.yaml from configPath with environment overrides.
func Load(configPath string) (Config, error) {
	cfg := Config{
		DB: db.DefaultConfig(),
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	// Environment overrides, e.g. FLIGHTCHECK_DATABASE_HOST
	v.AutomaticEnv()
	v.SetEnvPrefix("FLIGHTCHECK")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.addr")
	v.BindEnv("lookup.base_url")
	v.BindEnv("lookup.api_token")
	v.BindEnv("openai.api_key")
	v.BindEnv("openai.model")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.DB.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.DB.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.DB.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.DB.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DB.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.DB.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("lookup.base_url") {
		cfg.Lookup.BaseURL = v.GetString("lookup.base_url")
	}
	if v.IsSet("lookup.api_token") {
		cfg.Lookup.APIToken = v.GetString("lookup.api_token")
	}
	if v.IsSet("openai.api_key") {
		cfg.OpenAI.APIKey = v.GetString("openai.api_key")
	}
	if v.IsSet("openai.model") {
		cfg.OpenAI.Model = v.GetString("openai.model")
	}

	return cfg, nil
}
