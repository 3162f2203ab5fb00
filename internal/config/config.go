package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devJWTSecret = "default_super_secret_key"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	Auth   AuthConfig   `mapstructure:"auth"`
	SMTP   SMTPConfig   `mapstructure:"smtp"`
	Upload UploadConfig `mapstructure:"upload"`
}

type ServerConfig struct {
	Port          string `mapstructure:"port"`
	GinMode       string `mapstructure:"gin_mode"`
	CORSOrigins   string `mapstructure:"cors_origins"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type DBConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	AdminSecret string        `mapstructure:"admin_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type UploadConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

// env maps each config key to the environment variable that overrides it
var env = map[string]string{
	"server.port":            "PORT",
	"server.gin_mode":        "GIN_MODE",
	"server.cors_origins":    "CORS_ORIGINS",
	"server.public_base_url": "PUBLIC_BASE_URL",
	"db.host":                "DB_HOST",
	"db.port":                "DB_PORT",
	"db.user":                "DB_USER",
	"db.password":            "DB_PASSWORD",
	"db.name":                "DB_NAME",
	"db.sslmode":             "DB_SSLMODE",
	"db.max_open_conns":      "DB_MAX_OPEN_CONNS",
	"db.max_idle_conns":      "DB_MAX_IDLE_CONNS",
	"db.conn_max_lifetime":   "DB_CONN_MAX_LIFETIME",
	"auth.jwt_secret":        "JWT_SECRET",
	"auth.admin_secret":      "ADMIN_SECRET",
	"auth.token_ttl":         "TOKEN_TTL",
	"smtp.host":              "SMTP_HOST",
	"smtp.port":              "SMTP_PORT",
	"smtp.username":          "SMTP_USERNAME",
	"smtp.password":          "SMTP_PASSWORD",
	"smtp.from":              "SMTP_FROM",
	"upload.dir":             "UPLOAD_DIR",
	"upload.max_bytes":       "UPLOAD_MAX_BYTES",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "debug")
	v.SetDefault("server.cors_origins", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("server.public_base_url", "http://localhost:3000")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "gamerx")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "no-reply@gamerx.local")

	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_bytes", 5<<20)
}

// Load reads configs/.env and .env into the environment, then merges defaults, an optional
// config.yaml and environment variables, in increasing priority.
func Load() (*Config, error) {
	for _, f := range []string{"configs/.env", ".env"} {
		if err := godotenv.Load(f); err == nil {
			log.Printf("Loaded environment from %s", f)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs/")
	v.AddConfigPath("./")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		if c.Server.GinMode == "release" {
			return errors.New("JWT_SECRET environment variable is required in release mode")
		}
		log.Println("WARNING: JWT_SECRET not set, using development fallback")
		c.Auth.JWTSecret = devJWTSecret
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.Upload.MaxBytes)
	}
	return nil
}

// DSN builds the PostgreSQL connection URL
func (c DBConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.Name + "?sslmode=" + c.SSLMode
}

// Origins splits the comma separated CORS allow-list
func (c ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// MailEnabled reports whether an SMTP relay is configured
func (c SMTPConfig) MailEnabled() bool {
	return c.Host != ""
}
