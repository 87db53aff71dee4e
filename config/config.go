package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Database
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Redis (rate limiting only)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Google Cloud Storage (profile pictures)
	GCSBucket              string
	GCSCredentialsJSONPath string // optional; if empty, Application Default Credentials are used

	// JWT session credential
	JWTSecret string
	JWTTTL    time.Duration

	// Passwords
	BcryptCost int

	// Token lifetimes
	VerificationTokenTTLHours  int
	PasswordResetTokenTTLHours int

	// Account lockout
	MaxLoginAttempts int
	LockWindow       time.Duration

	// Email quota
	DailyEmailLimit int

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Migrations
	MigrationsDir string

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string
	MailTimeout   time.Duration

	// Links embedded in emails
	VerifyEmailURL   string
	ResetPasswordURL string

	// Registration email policy
	AllowedEmailDomain string // e.g. "@alumno.ipn.mx"; empty allows any domain

	// Email sending toggle
	MailSendEnabled bool

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "nexum-auth"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "nexum"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),

		JWTSecret: getenv("JWT_SECRET", "devsecret"),
		JWTTTL:    getdur("JWT_TTL", 168*time.Hour),

		BcryptCost: getint("BCRYPT_ROUNDS", 12),

		VerificationTokenTTLHours:  getint("VERIFICATION_TOKEN_EXPIRY_HOURS", 24),
		PasswordResetTokenTTLHours: getint("PASSWORD_RESET_TOKEN_EXPIRY_HOURS", 1),

		MaxLoginAttempts: getint("MAX_LOGIN_ATTEMPTS", 5),
		LockWindow:       time.Duration(getint("ACCOUNT_LOCK_TIME_MINUTES", 15)) * time.Minute,

		DailyEmailLimit: getint("DAILY_EMAIL_LIMIT", 300),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", "Nexum <noreply@nexum.com>"),
		MailTimeout:   getdur("MAIL_TIMEOUT", 10*time.Second),

		VerifyEmailURL:   getenv("VERIFY_EMAIL_URL", "http://localhost:5173/verify-email"),
		ResetPasswordURL: getenv("RESET_PASSWORD_URL", "http://localhost:5173/reset-password"),

		AllowedEmailDomain: getenv("ALLOWED_EMAIL_DOMAIN", "@alumno.ipn.mx"),

		MailSendEnabled: getbool("MAIL_SEND_ENABLED", true),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),
	}
}

// PostgresDSN returns a DSN compatible with pgx
func (c *Config) PostgresDSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
