package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	RazorpayKey           string
	RazorpaySecret        string
	RazorpayWebhookSecret string

	// ReservationWindow is how long claimed codes stay RESERVED for an
	// order awaiting payment before the sweeper releases them.
	ReservationWindow time.Duration
	// SweepInterval is the wall-clock period of the expiry sweeper.
	SweepInterval time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:                os.Getenv("DB_HOST"),
		DBPort:                os.Getenv("DB_PORT"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		Port:                  os.Getenv("PORT"),
		Env:                   os.Getenv("ENV"),
		RazorpayKey:           os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret:        os.Getenv("RAZORPAY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
		ReservationWindow:     durationEnv("RESERVATION_WINDOW", 5*time.Minute),
		SweepInterval:         durationEnv("SWEEP_INTERVAL", 60*time.Second),
	}

	return config, nil
}

// durationEnv parses a duration environment variable, falling back to the
// default on absence or parse failure.
func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
