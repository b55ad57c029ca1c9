package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string
	AppName string // shown in email sender name and default push titles

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	OTPStore            string // "dynamo" | "redis" | "memory"
	OTPValidity         time.Duration
	OTPMaxAttempts      int // 0 disables the lockout
	OTPCodeDigits       int
	OTPAcceptClientCode bool
	OTPEmailSubject     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	AuthProvider              string // "firebase" | "jwt"
	FirebaseProjectID         string
	FirebaseCredentialsBase64 string
	FirebaseCredentialsFile   string
	JWTPrivateKeyPath         string
	JWTPublicKeyPath          string
	JWTExpiry                 time.Duration

	PushProvider         string // "fcm" | "sns"
	PushTopic            string
	PushAndroidChannelID string
	PushClickAction      string
	BroadcastPrefix      string
	SNSRegion            string
	SNSTopicARNPrefix    string // e.g. arn:aws:sns:us-east-1:123456789012: ; topic name is appended

	GoogleMapsKey     string
	DirectionsBaseURL string

	AllowedOrigins []string // CORS allowed origins
	TrustedProxies []string // IPs or CIDRs allowed to set X-Forwarded-For / X-Real-Ip
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	OTPCodes string
	Users    string
	Feedback string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),
		AppName: getEnv("APP_NAME", "MUBS Locator"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			OTPCodes: getEnv("DYNAMO_TABLE_OTP_CODES", "password_reset_otp"),
			Users:    getEnv("DYNAMO_TABLE_USERS", "users"),
			Feedback: getEnv("DYNAMO_TABLE_FEEDBACK", "feedback"),
		},

		OTPStore:            getEnv("OTP_STORE", "dynamo"),
		OTPValidity:         getEnvDuration("OTP_VALIDITY", 30*time.Minute),
		OTPMaxAttempts:      getEnvInt("OTP_MAX_ATTEMPTS", 5),
		OTPCodeDigits:       getEnvInt("OTP_CODE_DIGITS", 4),
		OTPAcceptClientCode: getEnvBool("OTP_ACCEPT_CLIENT_CODE", true),
		OTPEmailSubject:     getEnv("OTP_EMAIL_SUBJECT", "Your MUBS Locator Verification Code"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", getEnv("GMAIL_EMAIL", "")),
		SMTPPassword: getEnv("SMTP_PASSWORD", getEnv("GMAIL_PASSWORD", "")),
		SMTPFrom:     getEnv("SMTP_FROM", getEnv("GMAIL_EMAIL", "noreply@example.com")),

		AuthProvider:              getEnv("AUTH_PROVIDER", "firebase"),
		FirebaseProjectID:         getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsBase64: getEnv("FIREBASE_CREDENTIALS_BASE64", ""),
		FirebaseCredentialsFile:   getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		JWTPrivateKeyPath:         getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:          getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:                 getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),

		PushProvider:         getEnv("PUSH_PROVIDER", "fcm"),
		PushTopic:            getEnv("PUSH_TOPIC", "all_users"),
		PushAndroidChannelID: getEnv("PUSH_ANDROID_CHANNEL_ID", "mubs_locator_notifications"),
		PushClickAction:      getEnv("PUSH_CLICK_ACTION", "FLUTTER_NOTIFICATION_CLICK"),
		BroadcastPrefix:      getEnv("BROADCAST_PREFIX", "MUBS"),
		SNSRegion:            getEnv("SNS_REGION", "us-east-1"),
		SNSTopicARNPrefix:    getEnv("SNS_TOPIC_ARN_PREFIX", ""),

		GoogleMapsKey:     getEnv("GOOGLE_MAPS_KEY", getEnv("GOOGLE_API_KEY", "")),
		DirectionsBaseURL: getEnv("DIRECTIONS_BASE_URL", "https://maps.googleapis.com/maps/api/directions/json"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getEnvDuration accepts Go duration strings ("30m", "1h30m").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
