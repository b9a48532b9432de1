package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Logger   LoggerConfig   `yaml:"logger"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Mail     MailConfig     `yaml:"mail"`
	Reminder ReminderConfig `yaml:"reminder"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `yaml:"name" env:"APP_NAME" env-default:"recruitment-service"`
	Env                   string `yaml:"env" env:"APP_ENV" env-default:"development"`
	Host                  string `yaml:"host" env:"APP_HOST" env-default:"0.0.0.0"`
	Port                  string `yaml:"port" env:"APP_PORT" env-default:"8080"`
	Version               string `yaml:"version" env:"APP_VERSION" env-default:"dev"`
	CompanyName           string `yaml:"company_name" env:"COMPANY_NAME" env-default:"Công ty"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" env:"HTTP_REQUEST_TIMEOUT_SECONDS" env-default:"30"`
	BodyLimitMB           int    `yaml:"body_limit_mb" env:"HTTP_BODY_LIMIT_MB" env-default:"10"`
	CORSOrigins           string `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-default:"*"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `yaml:"dsn" env:"POSTGRES_DSN"`
	MaxConns       int32  `yaml:"max_conns" env:"POSTGRES_MAX_CONNS" env-default:"10"`
	MinConns       int32  `yaml:"min_conns" env:"POSTGRES_MIN_CONNS" env-default:"2"`
	RunMigrations  bool   `yaml:"run_migrations" env:"POSTGRES_RUN_MIGRATIONS" env-default:"true"`
	MigrationsDir  string `yaml:"migrations_dir" env:"POSTGRES_MIGRATIONS_DIR" env-default:"migrations"`
	ConnMaxIdleSec int32  `yaml:"conn_max_idle_seconds" env:"POSTGRES_CONN_MAX_IDLE_SECONDS" env-default:"30"`
	ConnMaxLifeSec int32  `yaml:"conn_max_life_seconds" env:"POSTGRES_CONN_MAX_LIFE_SECONDS" env-default:"300"`
	TimeZone       string `yaml:"time_zone" env:"POSTGRES_TIME_ZONE" env-default:"Asia/Ho_Chi_Minh"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"127.0.0.1:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-default:"dev-secret"`
	AccessTokenTTLMinutes   int    `yaml:"access_token_ttl_minutes" env:"AUTH_ACCESS_TOKEN_TTL_MINUTES" env-default:"1440"`
	PasswordResetTTLMinutes int    `yaml:"password_reset_ttl_minutes" env:"AUTH_PASSWORD_RESET_TTL_MINUTES" env-default:"30"`
	BcryptCost              int    `yaml:"bcrypt_cost" env:"AUTH_BCRYPT_COST" env-default:"12"`
	BootstrapAdminEmail     string `yaml:"bootstrap_admin_email" env:"AUTH_BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPassword  string `yaml:"bootstrap_admin_password" env:"AUTH_BOOTSTRAP_ADMIN_PASSWORD"`
}

// StorageConfig holds Cloudinary credentials for uploaded files.
type StorageConfig struct {
	CloudName string `yaml:"cloud_name" env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `yaml:"api_key" env:"CLOUDINARY_API_KEY"`
	APISecret string `yaml:"api_secret" env:"CLOUDINARY_API_SECRET"`
	Folder    string `yaml:"folder" env:"CLOUDINARY_FOLDER" env-default:"recruitment/cv"`
}

// Enabled reports whether Cloudinary credentials are present.
func (s StorageConfig) Enabled() bool {
	return s.CloudName != "" && s.APIKey != "" && s.APISecret != ""
}

// MailConfig configures the Gmail API mailer.
type MailConfig struct {
	From            string  `yaml:"from" env:"MAIL_FROM" env-default:"noreply@example.com"`
	FromName        string  `yaml:"from_name" env:"MAIL_FROM_NAME" env-default:"Phòng Tuyển dụng"`
	CredentialsFile string  `yaml:"credentials_file" env:"GMAIL_CREDENTIALS_FILE"`
	TokenFile       string  `yaml:"token_file" env:"GMAIL_TOKEN_FILE" env-default:"token.json"`
	SendPerSecond   float64 `yaml:"send_per_second" env:"MAIL_SEND_PER_SECOND" env-default:"2"`
	AppBaseURL      string  `yaml:"app_base_url" env:"APP_BASE_URL" env-default:"http://localhost:3000"`
}

// Enabled reports whether Gmail credentials are configured.
func (m MailConfig) Enabled() bool {
	return m.CredentialsFile != ""
}

// ReminderConfig drives the interview reminder cron job.
type ReminderConfig struct {
	Enabled     bool   `yaml:"enabled" env:"REMINDER_ENABLED" env-default:"true"`
	Schedule    string `yaml:"schedule" env:"REMINDER_SCHEDULE" env-default:"* * * * *"`
	LeadMinutes int    `yaml:"lead_minutes" env:"REMINDER_LEAD_MINUTES" env-default:"60"`
}

// LeadTime returns how far ahead of an interview the reminder goes out.
func (r ReminderConfig) LeadTime() time.Duration {
	if r.LeadMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(r.LeadMinutes) * time.Minute
}

// Load reads configuration from environment variables, applying defaults where possible.
// When CONFIG_PATH points at a YAML file its values are used and env vars override them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return &cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// BodyLimit returns the maximum request body size in bytes.
func (a AppConfig) BodyLimit() int {
	if a.BodyLimitMB <= 0 {
		return 4 * 1024 * 1024
	}
	return a.BodyLimitMB * 1024 * 1024
}
