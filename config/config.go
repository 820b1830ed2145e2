package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	DBUrl         string
	TokenSecret   string
	TokenTTL      time.Duration
	MonthlyQuota  int
	AdminUser     string
	AdminPassword string
	Debug         bool
}

// ParseFlags reads configuration from command-line flags, with defaults
// taken from the environment (a .env file is loaded first, if present).
func ParseFlags() (cfg Config, err error) {
	_ = godotenv.Load()

	var host string
	flag.StringVar(&host, "host", envOr("FORMHIVE_HOST", "0.0.0.0"), "listen host name")
	var port uint
	flag.UintVar(&port, "port", envOrUint("FORMHIVE_PORT", 80), "listen port number")
	flag.StringVar(&cfg.DBUrl, "db-url", envOr("FORMHIVE_DB", "formhive.sqlite"), "path to SQLite3 DB file")
	flag.StringVar(&cfg.TokenSecret, "token-secret", os.Getenv("FORMHIVE_TOKEN_SECRET"), "secret key for token encryption and decryption")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", envOrUint("FORMHIVE_TOKEN_TTL", 3600), "token TTL in seconds")
	var quota uint
	flag.UintVar(&quota, "monthly-quota", envOrUint("FORMHIVE_MONTHLY_QUOTA", 0), "submissions per owner per month, 0 for unlimited")
	flag.StringVar(&cfg.AdminUser, "admin-user", envOr("FORMHIVE_ADMIN_USER", ""), "bootstrap admin username")
	flag.StringVar(&cfg.AdminPassword, "admin-password", os.Getenv("FORMHIVE_ADMIN_PASSWORD"), "bootstrap admin password")
	flag.BoolVar(&cfg.Debug, "debug", os.Getenv("FORMHIVE_DEBUG") != "", "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second
	cfg.MonthlyQuota = int(quota)

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrUint(key string, fallback uint) uint {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint(n)
		}
	}
	return fallback
}
