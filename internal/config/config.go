package config // package config loads application configuration from environment variables

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Only the port has to be supplied in production;
// everything else carries a default that matches a single-node deployment.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBDriver     string // "sqlite" or "mysql"
	DBPath       string // sqlite database file
	DBUser       string // mysql username
	DBPass       string // mysql password (optional)
	DBHost       string // mysql host address
	DBPort       string // mysql port number
	DBName       string // mysql database name
	JWTSecret    string // secret used to sign login tokens
	AccessTTLMin int    // login token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	// ProtectWrites requires a bearer token on show mutations.
	ProtectWrites bool

	Upload  UploadConfig
	Cleanup CleanupConfig
}

// Load reads configuration values from the environment and returns a Config.
// A .env file in the working directory is honoured when present; variables
// already set in the process environment win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
	port := envStr("PORT", "")
	if port == "" {
		port = envStr("APP_PORT", "5000")
	}
	cfg := Config{
		Env:           envStr("APP_ENV", "dev"),
		Port:          port,
		DBDriver:      strings.ToLower(envStr("DB_DRIVER", "sqlite")),
		DBPath:        envStr("DB_PATH", "shows.db"),
		DBUser:        envStr("DB_USER", "root"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        envStr("DB_HOST", "127.0.0.1"),
		DBPort:        envStr("DB_PORT", "3306"),
		DBName:        envStr("DB_NAME", "shows"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AccessTTLMin:  envInt("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:    envInt("BCRYPT_COST", 10),
		ProtectWrites: envBool("AUTH_PROTECT_WRITES", false),
		Upload:        LoadUploadConfig(),
		Cleanup:       LoadCleanupConfig(),
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = randomSecret()
		log.Printf("config: JWT_SECRET not set, using a per-process secret; tokens will not survive a restart")
	}
	if cfg.AccessTTLMin < 1 {
		cfg.AccessTTLMin = 60
	}
	return cfg
}

// MustDriver halts the process when DB_DRIVER names an unsupported store.
func (c Config) MustDriver() string {
	switch c.DBDriver {
	case "sqlite", "mysql":
		return c.DBDriver
	}
	log.Fatalf("unsupported DB_DRIVER: %q", c.DBDriver)
	return ""
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("config: generate JWT secret: %v", err)
	}
	return hex.EncodeToString(buf)
}

func envStr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envInt64(k string, d int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

func envList(k, d string) []string {
	var out []string
	for _, p := range strings.Split(envStr(k, d), ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
