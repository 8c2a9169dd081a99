package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var Config *ServerConfig

// ServerConfig is a struct that contains configuration values for the server.
type ServerConfig struct {
	// AllowedOrigins is a list of URLs that the server will accept requests from.
	AllowedOrigins []string
	// SessionCookieName is the name to use for the session cookie.
	SessionCookieName string
	// SessionCookieExpiration is the amount of time a session cookie is valid.
	SessionCookieExpiration time.Duration
	// Port is the port the server should run on.
	Port int
	// FirebaseProjectID is the GCP project backing Firestore and Auth.
	FirebaseProjectID string
	// FirebaseCredentialsFile is the path to the service account key.
	FirebaseCredentialsFile string
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		AllowedOrigins:          []string{"http://localhost:3000"},
		SessionCookieName:       "elearning-session",
		SessionCookieExpiration: time.Hour * 24 * 5,
		Port:                    8080,
		FirebaseCredentialsFile: "firebase-config.json",
	}
}

func init() {
	// A missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			log.Panicf("invalid PORT %q: %v", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("SESSION_COOKIE_NAME"); v != "" {
		cfg.SessionCookieName = v
	}
	if v := os.Getenv("FIREBASE_PROJECT_ID"); v != "" {
		cfg.FirebaseProjectID = v
	}
	if v := os.Getenv("FIREBASE_CREDENTIALS_FILE"); v != "" {
		cfg.FirebaseCredentialsFile = v
	}

	Config = cfg
}
