package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The struct is built once in main and passed
// explicitly into handlers and services; nothing reads the environment
// after startup.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBPath        string // path of the sqlite database file
	AssetsDir     string // root directory of the asset store
	PublicBaseURL string // external base URL used when building asset links
	JWTSecret     string // secret used to sign access tokens
	AccessTTLMin  int    // access token time-to-live in minutes
	BcryptCost    int    // bcrypt cost for password hashing
	AdminCode     string // login code of the seeded admin account
	AdminEmail    string // email of the seeded admin account
	AdminPassword string // initial password of the seeded admin account
	AuditEvents   bool   // publish audit events to the broker
	AuditConsumer bool   // run the audit log consumer in-process
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional values
// fall back to defaults suitable for a single-office deployment.
func Load() Config {
	return Config{
		Env:           getenvDefault("APP_ENV", "dev"),
		Port:          must("APP_PORT"),
		DBPath:        getenvDefault("DB_PATH", "data/badgeboard.db"),
		AssetsDir:     getenvDefault("ASSETS_DIR", "assets"),
		PublicBaseURL: must("PUBLIC_BASE_URL"),
		JWTSecret:     must("JWT_SECRET"),
		AccessTTLMin:  envIntDefault("ACCESS_TOKEN_TTL_MIN", 480),
		BcryptCost:    envIntDefault("BCRYPT_COST", 10),
		AdminCode:     getenvDefault("ADMIN_CODE", "ADMIN001"),
		AdminEmail:    getenvDefault("ADMIN_EMAIL", "admin@empire.local"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"), // empty skips seeding
		AuditEvents:   getenvDefault("AUDIT_EVENTS", "false") == "true",
		AuditConsumer: getenvDefault("AUDIT_CONSUMER", "false") == "true",
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
