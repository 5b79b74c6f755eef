package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Delivery modes for OTP codes.
const (
	OTPModeMock       = "mock"
	OTPModeProduction = "production"
)

// DevJWTSecret is the well-known fallback signing secret. Running with
// it outside development is a deployment mistake; app startup warns
// loudly when it is in effect.
const DevJWTSecret = "dev-secret-key"

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
	Env     string `yaml:"env"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
	TTL    string `yaml:"ttl"`
}

type OTPConfig struct {
	ExpiryMinutes int    `yaml:"expiry_minutes"`
	MaxAttempts   int    `yaml:"max_attempts"`
	Mode          string `yaml:"mode"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type RateLimitConfig struct {
	SendOTPMax      int    `yaml:"send_otp_max"`
	SendOTPWindow   string `yaml:"send_otp_window"`
	VerifyOTPMax    int    `yaml:"verify_otp_max"`
	VerifyOTPWindow string `yaml:"verify_otp_window"`
	PlacesMax       int    `yaml:"places_max"`
	PlacesWindow    string `yaml:"places_window"`
	RoleUpdateMax   int    `yaml:"role_update_max"`
	RoleUpdateWindow string `yaml:"role_update_window"`
	SweepInterval   string `yaml:"sweep_interval"`
	EdgeRPS         float64 `yaml:"edge_rps"`
	EdgeBurst       int     `yaml:"edge_burst"`
}

type PlacesConfig struct {
	APIKey string `yaml:"api_key"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	OTP       OTPConfig       `yaml:"otp"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Places    PlacesConfig    `yaml:"places"`
	Casbin    CasbinConfig    `yaml:"casbin"`
}

// Config is the fully resolved runtime configuration.
type Config struct {
	Port    string
	GinMode string
	Env     string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	OTPExpiry      time.Duration
	OTPMaxAttempts int
	OTPMode        string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	SendOTPMax       int
	SendOTPWindow    time.Duration
	VerifyOTPMax     int
	VerifyOTPWindow  time.Duration
	PlacesMax        int
	PlacesWindow     time.Duration
	RoleUpdateMax    int
	RoleUpdateWindow time.Duration
	SweepInterval    time.Duration
	EdgeRPS          float64
	EdgeBurst        int

	PlacesAPIKey string

	CasbinModelPath string
}

// Development reports whether the process runs in development mode,
// which enables the query-token fallback in the auth gateway.
func (c *Config) Development() bool { return c.Env != "production" }

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Load reads config/config.yml when present, then applies environment
// overrides for the externally configured knobs.
func Load() (*Config, error) {
	file := &ConfigFile{}
	if raw, err := os.ReadFile(env("KLAP_CONFIG", "config/config.yml")); err == nil {
		if err := yaml.Unmarshal(raw, file); err != nil {
			return nil, fmt.Errorf("could not parse config yaml: %w", err)
		}
	}

	cfg := &Config{
		Port:    env("PORT", defStr(strconv.Itoa(file.App.Port), "0", "8080")),
		GinMode: defStr(file.App.GinMode, "", "debug"),
		Env:     env("APP_ENV", defStr(file.App.Env, "", "development")),

		DSN: env("DATABASE_DSN", file.Database.DSN),

		RedisAddr:     env("REDIS_ADDR", file.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", file.Redis.Password),
		RedisDB:       file.Redis.DB,

		JWTSecret: env("JWT_SECRET", defStr(file.JWT.Secret, "", DevJWTSecret)),
		JWTIssuer: defStr(file.JWT.Issuer, "", "klap"),

		OTPExpiry:      time.Duration(envInt("OTP_EXPIRY_MINUTES", defInt(file.OTP.ExpiryMinutes, 5))) * time.Minute,
		OTPMaxAttempts: defInt(file.OTP.MaxAttempts, 5),
		OTPMode:        env("OTP_MODE", defStr(file.OTP.Mode, "", OTPModeMock)),

		TwilioSID:   env("TWILIO_ACCOUNT_SID", file.Twilio.AccountSID),
		TwilioToken: env("TWILIO_AUTH_TOKEN", file.Twilio.AuthToken),
		TwilioFrom:  env("TWILIO_NUMBER", file.Twilio.FromNumber),

		SendOTPMax:    defInt(file.RateLimit.SendOTPMax, 5),
		VerifyOTPMax:  defInt(file.RateLimit.VerifyOTPMax, 10),
		PlacesMax:     defInt(file.RateLimit.PlacesMax, 30),
		RoleUpdateMax: defInt(file.RateLimit.RoleUpdateMax, 5),
		EdgeRPS:       defFloat(file.RateLimit.EdgeRPS, 50),
		EdgeBurst:     defInt(file.RateLimit.EdgeBurst, 100),

		PlacesAPIKey: env("GOOGLE_PLACES_API_KEY", file.Places.APIKey),

		CasbinModelPath: defStr(file.Casbin.ModelPath, "", "config/casbin_model.conf"),
	}

	if cfg.OTPMode != OTPModeMock && cfg.OTPMode != OTPModeProduction {
		return nil, fmt.Errorf("invalid otp mode %q", cfg.OTPMode)
	}

	var err error
	if cfg.TokenTTL, err = parseDur(file.JWT.TTL, 30*24*time.Hour); err != nil {
		return nil, fmt.Errorf("invalid jwt ttl: %w", err)
	}
	if cfg.SendOTPWindow, err = parseDur(file.RateLimit.SendOTPWindow, time.Hour); err != nil {
		return nil, fmt.Errorf("invalid send-otp window: %w", err)
	}
	if cfg.VerifyOTPWindow, err = parseDur(file.RateLimit.VerifyOTPWindow, time.Hour); err != nil {
		return nil, fmt.Errorf("invalid verify-otp window: %w", err)
	}
	if cfg.PlacesWindow, err = parseDur(file.RateLimit.PlacesWindow, time.Minute); err != nil {
		return nil, fmt.Errorf("invalid places window: %w", err)
	}
	if cfg.RoleUpdateWindow, err = parseDur(file.RateLimit.RoleUpdateWindow, time.Minute); err != nil {
		return nil, fmt.Errorf("invalid role-update window: %w", err)
	}
	if cfg.SweepInterval, err = parseDur(file.RateLimit.SweepInterval, 5*time.Minute); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	return cfg, nil
}

func parseDur(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

func defStr(v, zero, def string) string {
	if v == zero {
		return def
	}
	return v
}

func defInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func defFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
