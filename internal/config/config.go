package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	LiveKit   LiveKitConfig   `yaml:"livekit"`
	Signaling SignalingConfig `yaml:"signaling"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	BasePath    string `yaml:"base_path"`
	Env         string `yaml:"env"`
	CORSOrigins string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type AuthConfig struct {
	ServiceURL string `yaml:"service_url"`
	SecretKey  string `yaml:"secret_key"`
}

type LiveKitConfig struct {
	Host      string `yaml:"host"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	WSUrl     string `yaml:"ws_url"`
}

// NotifyMode selects the precedence between the push bus and the poll
// fallback for membership changes.
//
//	both     - always broadcast on the bus and mark the poll flag
//	fallback - mark the poll flag only when the bus publish fails
type SignalingConfig struct {
	NotifyMode       string `yaml:"notify_mode"`
	StaleAfterMin    int    `yaml:"stale_after_minutes"`
	SweepIntervalMin int    `yaml:"sweep_interval_minutes"`
}

const (
	NotifyModeBoth     = "both"
	NotifyModeFallback = "fallback"
)

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8002,
			BasePath:    "/api/signals",
			Env:         "dev",
			CORSOrigins: "*",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
			DB:   0,
		},
		Signaling: SignalingConfig{
			NotifyMode:       NotifyModeBoth,
			StaleAfterMin:    30,
			SweepIntervalMin: 5,
		},
	}

	// Load from yaml file if exists
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override with environment variables
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if basePath := os.Getenv("SERVER_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.Server.Env = env
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = origins
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		cfg.Redis.Host = redisHost
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		if p, err := strconv.Atoi(redisPort); err == nil {
			cfg.Redis.Port = p
		}
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	if authURL := os.Getenv("AUTH_SERVICE_URL"); authURL != "" {
		cfg.Auth.ServiceURL = authURL
	}
	if secretKey := os.Getenv("SECRET_KEY"); secretKey != "" {
		cfg.Auth.SecretKey = secretKey
	}
	if host := os.Getenv("LIVEKIT_HOST"); host != "" {
		cfg.LiveKit.Host = host
	}
	if key := os.Getenv("LIVEKIT_API_KEY"); key != "" {
		cfg.LiveKit.APIKey = key
	}
	if secret := os.Getenv("LIVEKIT_API_SECRET"); secret != "" {
		cfg.LiveKit.APISecret = secret
	}
	if wsURL := os.Getenv("LIVEKIT_WS_URL"); wsURL != "" {
		cfg.LiveKit.WSUrl = wsURL
	}
	if mode := os.Getenv("NOTIFY_MODE"); mode != "" {
		cfg.Signaling.NotifyMode = mode
	}

	if cfg.Signaling.NotifyMode != NotifyModeBoth && cfg.Signaling.NotifyMode != NotifyModeFallback {
		return nil, fmt.Errorf("invalid notify_mode %q", cfg.Signaling.NotifyMode)
	}

	return cfg, nil
}
