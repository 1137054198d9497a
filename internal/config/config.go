package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	AppEnv           string
	DatabaseURL      string
	JWTSecret        string
	SessionTTL       time.Duration
	AdminSessionTTL  time.Duration
	GoogleAudience   string
	AllowOrigins     []string
	TrustedProxies   []string
	LogstashTCPAddr  string
	LogLevel         string
	SwaggerSpecPath  string
	OTPTTL           time.Duration
	OTPLength        int
	AdminNotifyEmail string
	AdminSeedEmail   string
	AdminSeedPass    string
	AdminSeedName    string

	MinIOEndpoint     string
	MinIOAccessKey    string
	MinIOSecretKey    string
	MinIOUseSSL       bool
	MinIOBucketMedia  string
	MinIOBucketCVs    string
	MinIOPublicURL    string
	ImageMaxBytes     int64
	CVMaxBytes        int64
	SMTPHost          string
	SMTPPort          string
	SMTPUsername      string
	SMTPPassword      string
	SMTPFrom          string
	RabbitMQURL       string
	NotificationQueue string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string
	Redis             RedisConfig
	Cache             CacheConfig
	RateLimit         RateLimitConfig
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	return Config{
		Port:             getenv("PORT", "8080"),
		AppEnv:           getenv("APP_ENV", "production"),
		DatabaseURL:      must("DATABASE_URL"),
		JWTSecret:        must("JWT_SECRET"),
		SessionTTL:       getduration("SESSION_TTL", 24*time.Hour),
		AdminSessionTTL:  getduration("ADMIN_SESSION_TTL", 12*time.Hour),
		GoogleAudience:   getenv("GOOGLE_AUDIENCE", ""),
		AllowOrigins:     splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		TrustedProxies:   getlist("TRUSTED_PROXIES"),
		LogstashTCPAddr:  getenv("LOGSTASH_TCP_ADDR", ""),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		SwaggerSpecPath:  getenv("SWAGGER_SPEC_PATH", "docs/swagger.yaml"),
		OTPTTL:           getduration("OTP_TTL", 10*time.Minute),
		OTPLength:        6,
		AdminNotifyEmail: getenv("ADMIN_NOTIFY_EMAIL", ""),
		AdminSeedEmail:   getenv("ADMIN_SEED_EMAIL", ""),
		AdminSeedPass:    getenv("ADMIN_SEED_PASSWORD", ""),
		AdminSeedName:    getenv("ADMIN_SEED_NAME", "Site Administrator"),

		MinIOEndpoint:     getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:    getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:    getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:       getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketMedia:  getenv("MINIO_BUCKET_MEDIA", "estate-media"),
		MinIOBucketCVs:    getenv("MINIO_BUCKET_CVS", "estate-cvs"),
		MinIOPublicURL:    getenv("MINIO_PUBLIC_URL", ""),
		ImageMaxBytes:     getint64("IMAGE_MAX_BYTES", 5*1024*1024),
		CVMaxBytes:        getint64("CV_MAX_BYTES", 5*1024*1024),
		SMTPHost:          getenv("SMTP_HOST", ""),
		SMTPPort:          getenv("SMTP_PORT", ""),
		SMTPUsername:      getenv("SMTP_USERNAME", ""),
		SMTPPassword:      getenv("SMTP_PASSWORD", ""),
		SMTPFrom:          getenv("SMTP_FROM", ""),
		RabbitMQURL:       getenv("RABBITMQ_URL", ""),
		NotificationQueue: getenv("NOTIFICATION_QUEUE", "site.notifications"),
		TwilioAccountSID:  getenv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getenv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber:  getenv("TWILIO_FROM_NUMBER", ""),
		Redis:             loadRedisConfig(),
		Cache:             loadCacheConfig(),
		RateLimit:         loadRateLimitConfig(),
	}
}

// IsDevelopment reports whether internal error details may be exposed to clients.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

func (c Config) MinIOEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOAccessKey != "" && c.MinIOSecretKey != ""
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// getlist reads a comma separated value; unset yields nil.
func getlist(k string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(k), ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getbool(k string, d bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func getint(k string, d int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return d
}

func getint64(k string, d int64) int64 {
	if v, err := strconv.ParseInt(os.Getenv(k), 10, 64); err == nil && v > 0 {
		return v
	}
	return d
}

func getduration(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
