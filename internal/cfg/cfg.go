package cfg

import (
	"errors"
	"flag"
	"fmt"
)

// Config adds application configuration fields to the
// common cfg.Registerable and cfg.Validatable interfaces
type Config struct {
	DrainSeconds           int
	ShutdownBudgetSeconds  int
	APIPort                int
	GeocoderEndpoint       string
	GeocoderCountry        string
	GeocoderTimeoutSeconds int
	FallbackLat            float64
	FallbackLon            float64
	AdminSignupCode        string
	SessionTTLMinutes      int
	NotifyWebhookURL       string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.GeocoderEndpoint, "geocoder-endpoint", "https://nominatim.openstreetmap.org", "geocoding gateway base URL")
	fs.StringVar(&c.GeocoderCountry, "geocoder-country", "Philippines", "country qualifier appended to geocoding queries")
	fs.IntVar(&c.GeocoderTimeoutSeconds, "geocoder-timeout-seconds", 10, "per-request geocoding timeout (1..60)")
	fs.Float64Var(&c.FallbackLat, "fallback-lat", 9.3355, "town-center latitude used when an address cannot be located")
	fs.Float64Var(&c.FallbackLon, "fallback-lon", 125.9769, "town-center longitude used when an address cannot be located")
	fs.StringVar(&c.AdminSignupCode, "admin-signup-code", "admin", "verification code required for administrator registration")
	fs.IntVar(&c.SessionTTLMinutes, "session-ttl-minutes", 720, "session lifetime in minutes (1..10080)")
	fs.StringVar(&c.NotifyWebhookURL, "notify-webhook-url", "", "webhook URL for new-alert notifications (empty = disabled)")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	// Every location flow goes through the geocoding gateway
	if c.GeocoderEndpoint == "" {
		errs = append(errs, errors.New("GEOCODER_ENDPOINT is required"))
	}
	if c.GeocoderTimeoutSeconds <= 0 || c.GeocoderTimeoutSeconds > 60 {
		errs = append(errs, fmt.Errorf("invalid GEOCODER_TIMEOUT_SECONDS %d (must be 1..60)", c.GeocoderTimeoutSeconds))
	}

	if c.FallbackLat < -90 || c.FallbackLat > 90 {
		errs = append(errs, fmt.Errorf("invalid FALLBACK_LAT %v (must be -90..90)", c.FallbackLat))
	}
	if c.FallbackLon < -180 || c.FallbackLon > 180 {
		errs = append(errs, fmt.Errorf("invalid FALLBACK_LON %v (must be -180..180)", c.FallbackLon))
	}

	if c.AdminSignupCode == "" {
		errs = append(errs, errors.New("ADMIN_SIGNUP_CODE is required"))
	}

	if c.SessionTTLMinutes <= 0 || c.SessionTTLMinutes > 10080 {
		errs = append(errs, fmt.Errorf("invalid SESSION_TTL_MINUTES %d (must be 1..10080)", c.SessionTTLMinutes))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
