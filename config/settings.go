package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	Env           string
	Port          string
	LogLevel      string
	LogFormat     string
	PublicBaseURL string

	DatabaseDriver string // postgres | sqlite
	PostgresURI    string
	SQLitePath     string

	RedisAddr        string
	MongoURI         string
	MongoDB          string
	MongoForceTLS12  bool
	MongoInsecureTLS bool

	StorageDriver  string // gcs | local
	GCSBucket      string
	GCSCredentials string
	UploadDir      string
	UploadBaseURL  string
	MaxUploadBytes int64

	FormTokenSecret string
	FormTokenTTL    time.Duration

	SessionCookie string
	SessionTTL    time.Duration
	CookieDomain  string
	CookieSecure  bool

	AdminJWTSecret   string
	AdminJWTIssuer   string
	AdminJWTAudience string
	WSAllowedOrigins []string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	NotifyEmail  string

	TelegramToken  string
	TelegramChatID int64

	ReferenceFile string
}

// Load reads .env (if present), an optional CONFIG_FILE and the process
// environment, in increasing order of precedence.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	s := &Settings{
		Env:           v.GetString("GO_ENV"),
		Port:          v.GetString("PORT"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
		PublicBaseURL: strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),

		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		PostgresURI:    v.GetString("POSTGRES_URI"),
		SQLitePath:     v.GetString("SQLITE_PATH"),

		RedisAddr:        firstNonEmpty(v.GetString("REDIS_ADDR"), v.GetString("REDIS_URI"), v.GetString("REDIS_URL")),
		MongoURI:         v.GetString("MONGO_URI"),
		MongoDB:          v.GetString("MONGO_DB"),
		MongoForceTLS12:  v.GetBool("MONGO_FORCE_TLS_CONFIG"),
		MongoInsecureTLS: v.GetBool("MONGO_INSECURE_TLS"),

		StorageDriver:  strings.ToLower(v.GetString("STORAGE_DRIVER")),
		GCSBucket:      v.GetString("GCS_BUCKET"),
		GCSCredentials: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		UploadBaseURL:  v.GetString("UPLOAD_BASE_URL"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),

		FormTokenSecret: v.GetString("FORM_TOKEN_SECRET"),
		FormTokenTTL:    v.GetDuration("FORM_TOKEN_TTL"),

		SessionCookie: v.GetString("SESSION_COOKIE"),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
		CookieDomain:  v.GetString("COOKIE_DOMAIN"),
		CookieSecure:  v.GetBool("COOKIE_SECURE"),

		AdminJWTSecret:   v.GetString("ADMIN_JWT_SECRET"),
		AdminJWTIssuer:   v.GetString("ADMIN_JWT_ISSUER"),
		AdminJWTAudience: v.GetString("ADMIN_JWT_AUDIENCE"),
		WSAllowedOrigins: splitList(v.GetString("WS_ALLOWED_ORIGINS")),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetInt("SMTP_PORT"),
		SMTPUser:     v.GetString("SMTP_USER"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		MailFrom:     v.GetString("MAIL_FROM"),
		NotifyEmail:  v.GetString("NOTIFY_EMAIL"),

		TelegramToken:  v.GetString("TELEGRAM_TOKEN"),
		TelegramChatID: v.GetInt64("TELEGRAM_CHAT_ID"),

		ReferenceFile: v.GetString("REFERENCE_FILE"),
	}
	if s.UploadBaseURL == "" {
		s.UploadBaseURL = s.PublicBaseURL + "/uploads"
	}
	return s, s.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GO_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("SQLITE_PATH", "profile-creator.db")
	v.SetDefault("MONGO_DB", "profile_creator")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("FORM_TOKEN_TTL", "24h")
	v.SetDefault("SESSION_COOKIE", "pc_session")
	v.SetDefault("SESSION_TTL", "336h")
	v.SetDefault("SMTP_PORT", 587)
}

func (s *Settings) Validate() error {
	var errs []error
	if s.FormTokenSecret == "" {
		errs = append(errs, errors.New("FORM_TOKEN_SECRET is not set"))
	}
	switch s.DatabaseDriver {
	case "postgres":
		if s.PostgresURI == "" {
			errs = append(errs, errors.New("POSTGRES_URI is not set"))
		}
	case "sqlite":
	default:
		errs = append(errs, errors.New("DATABASE_DRIVER must be postgres or sqlite"))
	}
	switch s.StorageDriver {
	case "gcs":
		if s.GCSBucket == "" {
			errs = append(errs, errors.New("GCS_BUCKET is not set"))
		}
	case "local":
	default:
		errs = append(errs, errors.New("STORAGE_DRIVER must be gcs or local"))
	}
	return errors.Join(errs...)
}

func (s *Settings) MailEnabled() bool {
	return s.SMTPHost != "" && s.MailFrom != "" && s.NotifyEmail != ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
