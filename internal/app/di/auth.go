package di

import (
	"time"

	"foodie/internal/feature/auth/usecase"
	"foodie/internal/platform/config"
)

// LoadAuthOptions reads session settings from environment variables.
// Zero values leave the usecase defaults in place.
func LoadAuthOptions() usecase.Options {
	return usecase.Options{
		SessionTTL:         config.Duration("SESSION_TTL", 0),
		MaxSessionsPerUser: config.Int("SESSION_MAX_PER_USER", 0),
		BcryptCost:         config.Int("BCRYPT_COST", 0),
	}
}

// SecureCookie reports whether the session cookie is restricted to HTTPS.
func SecureCookie() bool {
	return config.Bool("COOKIE_SECURE", false)
}

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
func ShutdownTimeout() time.Duration {
	return config.Duration("SHUTDOWN_TIMEOUT", 10*time.Second)
}
