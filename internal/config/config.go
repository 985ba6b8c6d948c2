package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const minJWTSecretLength = 32

// Config holds the full configuration of the auth service.
type Config struct {
	Env      string         `env:"APP_ENV" env-default:"development"`
	Server   ServerConfig   `env-prefix:"SERVER_"`
	Database DatabaseConfig `env-prefix:"DB_"`
	Redis    RedisConfig    `env-prefix:"REDIS_"`
	Kafka    KafkaConfig    `env-prefix:"KAFKA_"`
	JWT      JWTConfig      `env-prefix:"JWT_"`
	OTP      OTPConfig      `env-prefix:"OTP_"`
	SMS      SMSConfig      `env-prefix:"SMS_"`
	Cleanup  CleanupConfig  `env-prefix:"CLEANUP_"`
	Logging  LoggingConfig  `env-prefix:"LOG_"`
}

type ServerConfig struct {
	Port            int           `env:"PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type DatabaseConfig struct {
	Host         string        `env:"HOST" env-default:"localhost"`
	Port         int           `env:"PORT" env-default:"5432"`
	User         string        `env:"USER" env-default:"postgres"`
	Password     string        `env:"PASSWORD" env-default:""`
	DBName       string        `env:"NAME" env-default:"roombridge_auth"`
	SSLMode      string        `env:"SSLMODE" env-default:"disable"`
	MaxConns     int           `env:"MAX_CONNS" env-default:"10"`
	MinConns     int           `env:"MIN_CONNS" env-default:"2"`
	ConnMaxLife  time.Duration `env:"CONN_MAX_LIFE" env-default:"30m"`
	AutoMigrate  bool          `env:"AUTO_MIGRATE" env-default:"true"`
	MigrationDir string        `env:"MIGRATION_DIR" env-default:"migrations"`
}

type RedisConfig struct {
	Host     string `env:"HOST" env-default:"localhost"`
	Port     int    `env:"PORT" env-default:"6379"`
	Password string `env:"PASSWORD" env-default:""`
	DB       int    `env:"DB" env-default:"0"`
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" env-default:"false"`
	Brokers []string `env:"BROKERS" env-default:"localhost:9092"`
	Topic   string   `env:"TOPIC" env-default:"auth-events"`
}

type JWTConfig struct {
	Secret          string        `env:"SECRET"`
	Issuer          string        `env:"ISSUER" env-default:"roombridge-auth"`
	Audience        string        `env:"AUDIENCE" env-default:"roombridge-api"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"1440h"`
}

// OTPConfig controls code lifetime and the per-phone abuse caps.
type OTPConfig struct {
	CodeTTL          time.Duration `env:"CODE_TTL" env-default:"5m"`
	SendLimit        int           `env:"SEND_LIMIT" env-default:"5"`
	SendWindow       time.Duration `env:"SEND_WINDOW" env-default:"1h"`
	VerifyLimit      int           `env:"VERIFY_LIMIT" env-default:"5"`
	VerifyWindow     time.Duration `env:"VERIFY_WINDOW" env-default:"1h"`
	RateLimitEnabled bool          `env:"RATE_LIMIT_ENABLED" env-default:"true"`
}

type SMSConfig struct {
	APIURL  string        `env:"API_URL" env-default:""`
	APIKey  string        `env:"API_KEY" env-default:""`
	Sender  string        `env:"SENDER" env-default:"RoomBridge"`
	Timeout time.Duration `env:"TIMEOUT" env-default:"5s"`
}

type CleanupConfig struct {
	Enabled  bool          `env:"ENABLED" env-default:"true"`
	Interval time.Duration `env:"INTERVAL" env-default:"1h"`
}

type LoggingConfig struct {
	Level string `env:"LEVEL" env-default:"info"`
}

// Load reads configuration from the environment, first merging a local
// .env file when present. It fails if the signing secret is missing or
// too short; the service must not start with a weak key.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes, got %d", minJWTSecretLength, len(c.JWT.Secret))
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TOKEN_TTL must be positive")
	}
	if c.JWT.RefreshTokenTTL <= c.JWT.AccessTokenTTL {
		return fmt.Errorf("JWT_REFRESH_TOKEN_TTL must exceed the access token TTL")
	}
	if c.OTP.CodeTTL <= 0 {
		return fmt.Errorf("OTP_CODE_TTL must be positive")
	}
	return nil
}
