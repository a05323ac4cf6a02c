package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Google      GoogleConfig
	Scheduler   SchedulerConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type MongoConfig struct {
	DirectURL        string
	Host             string
	Port             string
	User             string
	Password         string
	AuthSource       string
	Database         string
	SelectionTimeout time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	SessionTTL time.Duration
}

type GoogleConfig struct {
	CredentialsFile string
	TokenStorePath  string
	CalendarID      string
	RequestTimeout  time.Duration
}

type SchedulerConfig struct {
	KeepaliveSchedule string
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "personal-manager-backend"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8000"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Mongo: MongoConfig{
			DirectURL:        os.Getenv("MONGODB_URL"),
			Host:             getString("MONGODB_HOST", "localhost"),
			Port:             getString("MONGODB_PORT", "27017"),
			User:             os.Getenv("MONGODB_USER"),
			Password:         os.Getenv("MONGODB_PASSWORD"),
			AuthSource:       getString("MONGODB_AUTH_SOURCE", "admin"),
			Database:         getString("DATABASE_NAME", "personal_manager"),
			SelectionTimeout: getDuration("MONGODB_SELECTION_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     getString("SECRET_KEY", "changeThisInProduction"),
			Issuer:     getString("JWT_ISSUER", "personal-manager-backend"),
			SessionTTL: getDuration("ACCESS_TOKEN_TTL", 7*24*time.Hour),
		},
		Google: GoogleConfig{
			CredentialsFile: getString("GOOGLE_CREDENTIALS_FILE", "data/credentials.json"),
			TokenStorePath:  getString("GOOGLE_TOKEN_STORE", "./data/tokens.db"),
			CalendarID:      getString("GOOGLE_CALENDAR_ID", "primary"),
			RequestTimeout:  getDuration("GOOGLE_REQUEST_TIMEOUT", 30*time.Second),
		},
		Scheduler: SchedulerConfig{
			KeepaliveSchedule: getString("CALENDAR_KEEPALIVE_SCHEDULE", "0 */15 * * * *"),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
	}

	return cfg, nil
}

// URL returns the Mongo connection string, using the direct URL when
// provided or assembling one from components.
func (c MongoConfig) URL() string {
	if c.DirectURL != "" {
		return c.DirectURL
	}
	if c.User == "" || c.Password == "" {
		return fmt.Sprintf("mongodb://%s:%s", c.Host, c.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s/?authSource=%s&authMechanism=DEFAULT",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.AuthSource,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
