package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maturamate/maturamate-backend/internal/platform/envutil"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type Config struct {
	Port        string `yaml:"port"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	BaseURL     string `yaml:"base_url"`

	DB struct {
		Driver     string `yaml:"driver"`
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		Name       string `yaml:"name"`
		SSLMode    string `yaml:"ssl_mode"`
		SQLitePath string `yaml:"sqlite_path"`
		MaxOpen    int    `yaml:"max_open"`
		MaxIdle    int    `yaml:"max_idle"`
	} `yaml:"db"`

	Auth struct {
		JWTSecretKey    string        `yaml:"jwt_secret_key"`
		AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
		RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
	} `yaml:"auth"`

	Stripe struct {
		SecretKey      string `yaml:"secret_key"`
		PublishableKey string `yaml:"publishable_key"`
		WebhookSecret  string `yaml:"webhook_secret"`
	} `yaml:"stripe"`

	UnsubscribeSecret string `yaml:"unsubscribe_secret"`

	URLCache struct {
		Backend    string        `yaml:"backend"`
		MaxEntries int           `yaml:"max_entries"`
		RedisAddr  string        `yaml:"redis_addr"`
		SignedTTL  time.Duration `yaml:"signed_url_ttl"`
	} `yaml:"url_cache"`

	Storage struct {
		Mode         string `yaml:"mode"`
		EmulatorHost string `yaml:"emulator_host"`
		NotesBucket  string `yaml:"notes_bucket"`
		AvatarBucket string `yaml:"avatar_bucket"`
		Credentials  string `yaml:"credentials"`
	} `yaml:"storage"`

	CORSOrigins    []string `yaml:"cors_allowed_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
	MetricsEnabled bool     `yaml:"metrics_enabled"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.Port = "8080"
	cfg.ServiceName = "maturamate-backend"
	cfg.Environment = "development"
	cfg.BaseURL = "http://localhost:5173"
	cfg.DB.Driver = "postgres"
	cfg.DB.Host = "localhost"
	cfg.DB.Port = "5432"
	cfg.DB.SSLMode = "disable"
	cfg.Auth.JWTSecretKey = "defaultsecret"
	cfg.Auth.AccessTokenTTL = time.Hour
	cfg.Auth.RefreshTokenTTL = 30 * 24 * time.Hour
	cfg.URLCache.Backend = "memory"
	cfg.URLCache.MaxEntries = 10000
	cfg.URLCache.SignedTTL = 15 * time.Minute
	cfg.RateLimitRPS = 1
	cfg.RateLimitBurst = 5
	cfg.MetricsEnabled = true
	return cfg
}

// LoadConfig layers CONFIG_FILE (optional YAML) under the environment.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return cfg, err
		}
		log.Info("Loaded config file", "path", path)
	}
	applyEnv(&cfg)

	if cfg.Auth.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set; using an insecure default")
	}
	if cfg.UnsubscribeSecret == "" {
		log.Warn("UNSUBSCRIBE_SECRET not set; unsubscribe links are disabled")
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.ServiceName)
	cfg.Environment = envutil.String("APP_ENV", cfg.Environment)
	cfg.BaseURL = strings.TrimRight(envutil.String("APP_BASE_URL", cfg.BaseURL), "/")

	cfg.DB.Driver = envutil.String("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.Host = envutil.String("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envutil.String("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = envutil.String("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Password = envutil.String("POSTGRES_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = envutil.String("POSTGRES_NAME", cfg.DB.Name)
	cfg.DB.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.DB.SSLMode)
	cfg.DB.SQLitePath = envutil.String("SQLITE_PATH", cfg.DB.SQLitePath)
	cfg.DB.MaxOpen = envutil.Int("POSTGRES_MAX_OPEN_CONNS", cfg.DB.MaxOpen)
	cfg.DB.MaxIdle = envutil.Int("POSTGRES_MAX_IDLE_CONNS", cfg.DB.MaxIdle)

	cfg.Auth.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.Auth.JWTSecretKey)
	cfg.Auth.AccessTokenTTL = envutil.Seconds("ACCESS_TOKEN_TTL", cfg.Auth.AccessTokenTTL)
	cfg.Auth.RefreshTokenTTL = envutil.Seconds("REFRESH_TOKEN_TTL", cfg.Auth.RefreshTokenTTL)

	cfg.Stripe.SecretKey = envutil.String("STRIPE_SECRET_KEY", cfg.Stripe.SecretKey)
	cfg.Stripe.PublishableKey = envutil.String("STRIPE_PUBLISHABLE_KEY", cfg.Stripe.PublishableKey)
	cfg.Stripe.WebhookSecret = envutil.String("STRIPE_WEBHOOK_SECRET", cfg.Stripe.WebhookSecret)
	cfg.UnsubscribeSecret = envutil.String("UNSUBSCRIBE_SECRET", cfg.UnsubscribeSecret)

	cfg.URLCache.Backend = strings.ToLower(envutil.String("URL_CACHE_BACKEND", cfg.URLCache.Backend))
	cfg.URLCache.MaxEntries = envutil.Int("URL_CACHE_MAX_ENTRIES", cfg.URLCache.MaxEntries)
	cfg.URLCache.RedisAddr = envutil.String("REDIS_ADDR", cfg.URLCache.RedisAddr)
	cfg.URLCache.SignedTTL = envutil.Seconds("SIGNED_URL_TTL", cfg.URLCache.SignedTTL)

	cfg.Storage.Mode = envutil.String("OBJECT_STORAGE_MODE", cfg.Storage.Mode)
	cfg.Storage.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", cfg.Storage.EmulatorHost)
	cfg.Storage.NotesBucket = envutil.String("NOTES_GCS_BUCKET_NAME", cfg.Storage.NotesBucket)
	cfg.Storage.AvatarBucket = envutil.String("AVATAR_GCS_BUCKET_NAME", cfg.Storage.AvatarBucket)
	cfg.Storage.Credentials = envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON",
		envutil.String("GOOGLE_APPLICATION_CREDENTIALS", cfg.Storage.Credentials))

	cfg.CORSOrigins = envutil.CSV("CORS_ALLOWED_ORIGINS", cfg.CORSOrigins)
	cfg.RateLimitRPS = envutil.Float("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = envutil.Int("RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)
}
