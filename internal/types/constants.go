package types

import (
	"os"
	"strconv"
	"strings"
)

const ContextUserKey = "user"

const (
	SubscriptionFree       = "free"
	SubscriptionBasic      = "basic"
	SubscriptionPremium    = "premium"
	SubscriptionEnterprise = "enterprise"
)

const (
	CategoryInstitutionalEye = "INSTITUTIONAL_EYE"
	CategorySpecials         = "SPECIALS"
)

// PublicationDateFormat renders dates as "02 January, 2006" for article
// responses.
const PublicationDateFormat = "02 January, 2006"

const defaultLockoutThreshold = 5

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()

	// LockoutThreshold is the number of consecutive failed logins after
	// which an account is locked. Accounts stay locked until an admin
	// unlocks them.
	LockoutThreshold = initLockoutThreshold()
)

func IsValidSubscription(s string) bool {
	switch s {
	case SubscriptionFree, SubscriptionBasic, SubscriptionPremium, SubscriptionEnterprise:
		return true
	}
	return false
}

func IsValidCategory(c string) bool {
	return c == CategoryInstitutionalEye || c == CategorySpecials
}

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}

func initLockoutThreshold() int {
	if raw := os.Getenv("LOCKOUT_THRESHOLD"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultLockoutThreshold
}
