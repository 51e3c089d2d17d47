// Package config provides centralized default values for the Ettle backend
package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Question graph
	QuestionsPath string

	// Local session store
	SessionDBPath string

	// Remote submissions store (Turso with local sqlite fallback)
	TursoDatabase   string
	TursoToken      string
	SubmissionsPath string

	// Database Pool
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int

	// Sync
	SyncDebounceWindow time.Duration
	SyncFinalTimeout   time.Duration

	// Admin auth
	AdminPasswordHash string
	JWTSecret         string
	TokenLifetime     time.Duration

	// Email
	ResendAPIKey   string
	EmailFrom      string
	EmailFromName  string
	EmailSendLeads bool
	SignupURL      string

	// Observability
	SlowQueryThreshold time.Duration
	LogDirectory       string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Question graph
	QuestionsPath = getEnvString("QUESTIONS_PATH", "config/questions.json")

	// Local session store
	SessionDBPath = getEnvString("SESSION_DB_PATH", "data/sessions.db")

	// Remote submissions store
	TursoDatabase = getEnvString("TURSO_DATABASE_URL", "")
	TursoToken = getEnvString("TURSO_AUTH_TOKEN", "")
	SubmissionsPath = getEnvString("SUBMISSIONS_DB_PATH", "data/submissions.db")

	// Database Pool
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)

	// Sync
	SyncDebounceWindow = getEnvDuration("SYNC_DEBOUNCE_WINDOW", 2*time.Second)
	SyncFinalTimeout = getEnvDuration("SYNC_FINAL_TIMEOUT", 10*time.Second)

	// Admin auth
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")
	JWTSecret = getEnvString("JWT_SECRET", "")
	TokenLifetime = getEnvDuration("TOKEN_LIFETIME", 24*time.Hour)

	// Email
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	EmailFrom = getEnvString("EMAIL_FROM", "noreply@ettle.app")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "Ettle")
	EmailSendLeads = getEnvString("EMAIL_SEND_LEADS", "true") == "true"
	SignupURL = getEnvString("SIGNUP_URL", "https://ettle.app/signup")

	// Observability
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 250*time.Millisecond)
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
}
