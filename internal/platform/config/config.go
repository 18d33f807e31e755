package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	PostgresDSN   string
	JWTSigningKey string

	// Bootstrap admin credentials for a fresh deployment. Empty email skips
	// bootstrap entirely.
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// LoanPeriod is the fixed lending period applied to every checkout.
var LoanPeriod = 14 * 24 * time.Hour

// MaxOpenLoansPerReader caps how many open loans one reader may hold.
var MaxOpenLoansPerReader = 3

// FromEnv builds a Server config from environment variables so main stays
// lean. Empty LIBNET_POSTGRES_DSN selects the in-memory stores.
func FromEnv() Server {
	addr := os.Getenv("LIBNET_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("LIBNET_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	adminName := os.Getenv("LIBNET_ADMIN_NAME")
	if adminName == "" {
		adminName = "Network Admin"
	}

	return Server{
		Addr:          addr,
		PostgresDSN:   os.Getenv("LIBNET_POSTGRES_DSN"),
		JWTSigningKey: jwtSigningKey,
		AdminName:     adminName,
		AdminEmail:    os.Getenv("LIBNET_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("LIBNET_ADMIN_PASSWORD"),
	}
}
