package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Driver     string
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	SQLitePath string
}

type JWTConfig struct {
	Secret      string
	Issuer      string
	Audience    string
	SessionTTL  time.Duration
	DecisionTTL time.Duration
}

type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type GmailConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type MailConfig struct {
	ServiceMailbox string
	SenderName     string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	Timeout        time.Duration
}

type Config struct {
	Env         string
	Port        string
	BaseURL     string
	RedisAddr   string
	KafkaBroker string

	DB    DBConfig
	JWT   JWTConfig
	AI    AIConfig
	Gmail GmailConfig
	Mail  MailConfig

	// Minimum confidence (exclusive) before an inbound email decision is applied.
	DecisionConfidenceThreshold int
	SideEffectTimeout           time.Duration
}

// Load membaca .env (jika ada) lalu environment process.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:         GetEnv("APP_ENV", "development"),
		Port:        GetEnv("PORT", "3000"),
		BaseURL:     strings.TrimRight(GetEnv("APP_BASE_URL", ""), "/"),
		RedisAddr:   GetEnv("REDIS_ADDR", ""),
		KafkaBroker: GetEnv("KAFKA_BROKER", ""),
		DB: DBConfig{
			Driver:     strings.ToLower(GetEnv("DB_DRIVER", "postgres")),
			Host:       GetEnv("DB_HOST", "localhost"),
			User:       GetEnv("DB_USER", "postgres"),
			Password:   GetEnv("DB_PASSWORD", ""),
			Name:       GetEnv("DB_NAME", "leavemgmt"),
			Port:       GetEnv("DB_PORT", "5432"),
			SSLMode:    GetEnv("DB_SSLMODE", "disable"),
			SQLitePath: GetEnv("SQLITE_PATH", "leavemgmt.db"),
		},
		JWT: JWTConfig{
			Secret:      GetEnv("JWT_SECRET", ""),
			Issuer:      GetEnv("JWT_ISSUER", "leavemgmt"),
			Audience:    GetEnv("JWT_AUDIENCE", "leavemgmt-clients"),
			SessionTTL:  GetEnvAsDuration("SESSION_TOKEN_TTL", 2*time.Hour),
			DecisionTTL: GetEnvAsDuration("DECISION_TOKEN_TTL", 24*time.Hour),
		},
		AI: AIConfig{
			APIKey:  GetEnv("DEEPSEEK_API_KEY", ""),
			BaseURL: GetEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
			Model:   GetEnv("DEEPSEEK_MODEL", "deepseek-chat"),
			Timeout: GetEnvAsDuration("AI_TIMEOUT", 20*time.Second),
		},
		Gmail: GmailConfig{
			ClientID:     GetEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: GetEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURI:  GetEnv("GOOGLE_REDIRECT_URI", ""),
		},
		Mail: MailConfig{
			ServiceMailbox: GetEnv("SERVICE_MAILBOX", ""),
			SenderName:     GetEnv("MAIL_SENDER_NAME", "Leave Management"),
			SMTPHost:       GetEnv("SMTP_HOST", ""),
			SMTPPort:       GetEnvAsInt("SMTP_PORT", 587),
			SMTPUser:       GetEnv("SMTP_USER", ""),
			SMTPPassword:   GetEnv("SMTP_PASSWORD", ""),
			Timeout:        GetEnvAsDuration("MAIL_TIMEOUT", 15*time.Second),
		},
		DecisionConfidenceThreshold: GetEnvAsInt("DECISION_CONFIDENCE_THRESHOLD", 70),
		SideEffectTimeout:           GetEnvAsDuration("SIDE_EFFECT_TIMEOUT", 45*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MaxDecisionTTL caps the lifetime of email decision links.
const MaxDecisionTTL = 48 * time.Hour

func (c Config) Validate() error {
	var errs []error

	if len(c.JWT.Secret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}
	if c.BaseURL == "" {
		errs = append(errs, errors.New("APP_BASE_URL is required"))
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("APP_BASE_URL is not a valid url: %q", c.BaseURL))
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DB.Driver))
	}
	if c.JWT.SessionTTL <= 0 || c.JWT.DecisionTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	if c.JWT.DecisionTTL > MaxDecisionTTL {
		errs = append(errs, fmt.Errorf("DECISION_TOKEN_TTL must not exceed %s, got %s", MaxDecisionTTL, c.JWT.DecisionTTL))
	}
	if c.DecisionConfidenceThreshold < 0 || c.DecisionConfidenceThreshold > 100 {
		errs = append(errs, errors.New("DECISION_CONFIDENCE_THRESHOLD must be between 0 and 100"))
	}

	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) GmailConfigured() bool {
	return c.Gmail.ClientID != "" && c.Gmail.ClientSecret != "" && c.Gmail.RedirectURI != ""
}

func (c Config) SMTPConfigured() bool {
	return c.Mail.SMTPHost != ""
}

// GetEnv returns the variable or fallback when unset.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// GetEnvAsDuration accepts Go duration strings ("24h") or plain seconds.
func GetEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := strings.TrimSpace(GetEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
