package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreMySQL = "mysql"
	StoreMongo = "mongo"
)

type Config struct {
	AppEnv            string `env:"APP_ENV" envDefault:"local"`
	Addr              string `env:"APP_ADDR" envDefault:":8080"`
	StoreDriver       string `env:"STORE_DRIVER" envDefault:"mysql"`
	DbDsn             string `env:"DB_DSN"`
	MongoURI          string `env:"MONGO_URI"`
	MongoDB           string `env:"MONGO_DB" envDefault:"hostelwala"`
	JwtSecret         string `env:"JWT_SECRET"`
	JwtAccessMinutes  int    `env:"JWT_ACCESS_MINUTES" envDefault:"1440"`
	OtpMinutes        int    `env:"OTP_MINUTES" envDefault:"10"`
	AdminBootstrap    string `env:"ADMIN_BOOTSTRAP_EMAIL"`
	SmtpHost          string `env:"SMTP_HOST"`
	SmtpPort          int    `env:"SMTP_PORT" envDefault:"587"`
	SmtpUser          string `env:"SMTP_USER"`
	SmtpPass          string `env:"SMTP_PASS"`
	SmtpFrom          string `env:"SMTP_FROM"`
	AllowedOriginsRaw string `env:"ALLOWED_ORIGINS"`

	// OTP throttling is disabled when RedisAddr is empty.
	RedisAddr          string `env:"REDIS_ADDR"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	OtpCooldownSeconds int    `env:"OTP_COOLDOWN_SECONDS" envDefault:"60"`
	OtpMaxPerWindow    int    `env:"OTP_MAX_PER_WINDOW" envDefault:"5"`
	OtpWindowMinutes   int    `env:"OTP_WINDOW_MINUTES" envDefault:"30"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	return cfg, cfg.Validate()
}

// Validate reports every missing or malformed key at once.
func (c Config) Validate() error {
	missing := []string{}
	switch c.StoreDriver {
	case StoreMySQL:
		if c.DbDsn == "" {
			missing = append(missing, "DB_DSN")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JwtSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.IsProduction() {
		if c.SmtpHost == "" {
			missing = append(missing, "SMTP_HOST")
		}
		if c.SmtpUser == "" {
			missing = append(missing, "SMTP_USER")
		}
		if c.SmtpPass == "" {
			missing = append(missing, "SMTP_PASS")
		}
		if c.SmtpFrom == "" {
			missing = append(missing, "SMTP_FROM")
		}
	}

	if len(missing) > 0 {
		return errors.New("missing env: " + strings.Join(missing, ", "))
	}
	if c.JwtAccessMinutes <= 0 || c.OtpMinutes <= 0 {
		return errors.New("JWT_ACCESS_MINUTES and OTP_MINUTES must be positive")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c Config) SMTPConfigured() bool {
	return c.SmtpHost != "" && c.SmtpUser != "" && c.SmtpPass != ""
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.JwtAccessMinutes) * time.Minute
}

func (c Config) OtpTTL() time.Duration {
	return time.Duration(c.OtpMinutes) * time.Minute
}

func (c Config) AllowedOrigins() []string {
	origins := []string{}
	for _, origin := range strings.Split(c.AllowedOriginsRaw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
