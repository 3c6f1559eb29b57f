package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// M-Pesa (Daraja) gateway settings.
	MpesaConsumerKey    string `mapstructure:"MPESA_CONSUMER_KEY"`
	MpesaConsumerSecret string `mapstructure:"MPESA_CONSUMER_SECRET"`
	MpesaShortcode      string `mapstructure:"MPESA_SHORTCODE"`
	MpesaPasskey        string `mapstructure:"MPESA_PASSKEY"`
	MpesaBaseURL        string `mapstructure:"MPESA_BASE_URL"`
	MpesaCallbackURL    string `mapstructure:"MPESA_CALLBACK_URL"`

	// CallbackFallbackWindow bounds the phone-and-amount fallback search for
	// callbacks whose correlation id matches no pending payment.
	CallbackFallbackWindow time.Duration

	// CallbackRateLimit is the ulule/limiter format string applied to the
	// public callback endpoints, e.g. "60-M" for 60 requests per minute.
	CallbackRateLimit string

	PosthogAPIKey string `mapstructure:"POSTHOG_API_KEY"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "vitabu-backend")
	viper.SetDefault("MPESA_CONSUMER_KEY", "")
	viper.SetDefault("MPESA_CONSUMER_SECRET", "")
	viper.SetDefault("MPESA_SHORTCODE", "")
	viper.SetDefault("MPESA_PASSKEY", "")
	viper.SetDefault("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke")
	viper.SetDefault("MPESA_CALLBACK_URL", "")
	viper.SetDefault("CALLBACK_FALLBACK_WINDOW", "2h")
	viper.SetDefault("CALLBACK_RATE_LIMIT", "60-M")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.MpesaConsumerKey = viper.GetString("MPESA_CONSUMER_KEY")
	cfg.MpesaConsumerSecret = viper.GetString("MPESA_CONSUMER_SECRET")
	cfg.MpesaShortcode = viper.GetString("MPESA_SHORTCODE")
	cfg.MpesaPasskey = viper.GetString("MPESA_PASSKEY")
	cfg.MpesaBaseURL = viper.GetString("MPESA_BASE_URL")
	cfg.MpesaCallbackURL = viper.GetString("MPESA_CALLBACK_URL")

	fallbackStr := viper.GetString("CALLBACK_FALLBACK_WINDOW")
	fallbackWindow, err := time.ParseDuration(fallbackStr)
	if err != nil {
		fallbackWindow = 2 * time.Hour
		log.Printf("Warning: Invalid value for CALLBACK_FALLBACK_WINDOW ('%s'). Defaulting to %s.\n", fallbackStr, fallbackWindow.String())
	}
	cfg.CallbackFallbackWindow = fallbackWindow

	cfg.CallbackRateLimit = viper.GetString("CALLBACK_RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
