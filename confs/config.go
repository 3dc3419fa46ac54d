package confs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDBPath is the on-disk name of the embedded store.
const DefaultDBPath = "security_app_database.db"

type Config struct {
	DBDriver string // sqlite | postgres
	DBPath   string
	DBDebug  bool
	DBSeed   bool

	PasswordHasher string // sha256 | bcrypt
	JWTSecret      string
	JWTTTL         time.Duration

	HTTPAddr string

	AuditFlushInterval time.Duration
	AuditRetention     time.Duration
}

// LoadConfig loads environment variables from a .env file if present
// and returns the resolved settings with defaults applied.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}

	cfg := &Config{
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:             getEnv("DB_PATH", DefaultDBPath),
		DBDebug:            getEnvBool("DB_DEBUG", false),
		DBSeed:             getEnvBool("DB_SEED", true),
		PasswordHasher:     strings.ToLower(getEnv("PASSWORD_HASHER", "sha256")),
		JWTSecret:          getEnv("JWT_SECRET", "dev-security-monitor-secret"),
		JWTTTL:             time.Duration(getEnvInt("JWT_TTL_MINUTES", 60)) * time.Minute,
		HTTPAddr:           getEnv("HTTP_ADDR", "127.0.0.1:3536"),
		AuditFlushInterval: getEnvDuration("AUDIT_FLUSH_INTERVAL", 30*time.Second),
		AuditRetention:     getEnvDuration("AUDIT_RETENTION", 90*24*time.Hour),
	}
	if cfg.JWTSecret == "dev-security-monitor-secret" {
		log.Println("warning: JWT_SECRET not set, using development secret")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid integer for %s: %s", key, v)
	}
	return def
}

// getEnvBool accepts "1", "true", "yes" as true and "0", "false", "no" as false.
func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "":
		return def
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		log.Printf("invalid boolean for %s, using %v", key, def)
		return def
	}
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
		log.Printf("invalid duration for %s: %s", key, v)
	}
	return def
}
