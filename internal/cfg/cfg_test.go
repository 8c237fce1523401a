package cfg

import (
	"flag"
	"strings"
	"testing"
)

// validBase returns a Config with all required fields set to valid values.
func validBase() Config {
	return Config{
		DrainSeconds:           60,
		ShutdownBudgetSeconds:  90,
		APIPort:                8080,
		GeocoderEndpoint:       "https://nominatim.openstreetmap.org",
		GeocoderCountry:        "Philippines",
		GeocoderTimeoutSeconds: 10,
		FallbackLat:            9.3355,
		FallbackLon:            125.9769,
		AdminSignupCode:        "admin",
		SessionTTLMinutes:      720,
	}
}

func TestRegisterFlags_Defaults(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse empty args: %v", err)
	}

	if c.DrainSeconds != 60 {
		t.Errorf("DrainSeconds = %d, want 60", c.DrainSeconds)
	}
	if c.ShutdownBudgetSeconds != 90 {
		t.Errorf("ShutdownBudgetSeconds = %d, want 90", c.ShutdownBudgetSeconds)
	}
	if c.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", c.APIPort)
	}
	if c.GeocoderEndpoint != "https://nominatim.openstreetmap.org" {
		t.Errorf("GeocoderEndpoint = %q", c.GeocoderEndpoint)
	}
	if c.GeocoderCountry != "Philippines" {
		t.Errorf("GeocoderCountry = %q, want Philippines", c.GeocoderCountry)
	}
	if c.FallbackLat != 9.3355 || c.FallbackLon != 125.9769 {
		t.Errorf("fallback = (%v, %v), want town center", c.FallbackLat, c.FallbackLon)
	}
	if c.AdminSignupCode != "admin" {
		t.Errorf("AdminSignupCode = %q, want admin", c.AdminSignupCode)
	}
	if c.SessionTTLMinutes != 720 {
		t.Errorf("SessionTTLMinutes = %d, want 720", c.SessionTTLMinutes)
	}
	if c.NotifyWebhookURL != "" {
		t.Errorf("NotifyWebhookURL = %q, want empty", c.NotifyWebhookURL)
	}

	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate, got: %v", err)
	}
}

func TestRegisterFlags_Override(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	args := []string{
		"-drain-seconds", "30",
		"-shutdown-budget-seconds", "120",
		"-http-port", "9090",
		"-geocoder-endpoint", "http://geocode.local",
		"-geocoder-country", "",
		"-fallback-lat", "10.5",
		"-fallback-lon", "120.25",
		"-admin-signup-code", "s3cret",
		"-session-ttl-minutes", "60",
		"-notify-webhook-url", "http://hooks.local/sos",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse args: %v", err)
	}

	if c.DrainSeconds != 30 {
		t.Errorf("DrainSeconds = %d, want 30", c.DrainSeconds)
	}
	if c.ShutdownBudgetSeconds != 120 {
		t.Errorf("ShutdownBudgetSeconds = %d, want 120", c.ShutdownBudgetSeconds)
	}
	if c.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", c.APIPort)
	}
	if c.GeocoderEndpoint != "http://geocode.local" {
		t.Errorf("GeocoderEndpoint = %q", c.GeocoderEndpoint)
	}
	if c.GeocoderCountry != "" {
		t.Errorf("GeocoderCountry = %q, want empty", c.GeocoderCountry)
	}
	if c.FallbackLat != 10.5 || c.FallbackLon != 120.25 {
		t.Errorf("fallback = (%v, %v)", c.FallbackLat, c.FallbackLon)
	}
	if c.AdminSignupCode != "s3cret" {
		t.Errorf("AdminSignupCode = %q", c.AdminSignupCode)
	}
	if c.SessionTTLMinutes != 60 {
		t.Errorf("SessionTTLMinutes = %d, want 60", c.SessionTTLMinutes)
	}
	if c.NotifyWebhookURL != "http://hooks.local/sos" {
		t.Errorf("NotifyWebhookURL = %q", c.NotifyWebhookURL)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	mutate := func(fn func(*Config)) Config {
		c := validBase()
		fn(&c)
		return c
	}

	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		errSubstr []string // substrings that must appear in error message
	}{
		{name: "base is valid", cfg: validBase()},
		{
			name: "minimum valid values",
			cfg: mutate(func(c *Config) {
				c.DrainSeconds = 1
				c.ShutdownBudgetSeconds = 2
				c.APIPort = 1
				c.GeocoderTimeoutSeconds = 1
				c.SessionTTLMinutes = 1
			}),
		},
		{
			name: "maximum valid values",
			cfg: mutate(func(c *Config) {
				c.DrainSeconds = 299
				c.ShutdownBudgetSeconds = 300
				c.APIPort = 65535
				c.GeocoderTimeoutSeconds = 60
				c.SessionTTLMinutes = 10080
			}),
		},
		{
			name:      "drain zero",
			cfg:       mutate(func(c *Config) { c.DrainSeconds = 0 }),
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS"},
		},
		{
			name:      "drain above max",
			cfg:       mutate(func(c *Config) { c.DrainSeconds = 301 }),
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS"},
		},
		{
			name:      "budget zero",
			cfg:       mutate(func(c *Config) { c.ShutdownBudgetSeconds = 0 }),
			wantErr:   true,
			errSubstr: []string{"SHUTDOWN_BUDGET_SECONDS"},
		},
		{
			name:      "budget not greater than drain",
			cfg:       mutate(func(c *Config) { c.ShutdownBudgetSeconds = c.DrainSeconds }),
			wantErr:   true,
			errSubstr: []string{"must be greater than DRAIN_SECONDS"},
		},
		{
			name:      "port zero",
			cfg:       mutate(func(c *Config) { c.APIPort = 0 }),
			wantErr:   true,
			errSubstr: []string{"HTTP_PORT"},
		},
		{
			name:      "port above max",
			cfg:       mutate(func(c *Config) { c.APIPort = 70000 }),
			wantErr:   true,
			errSubstr: []string{"HTTP_PORT"},
		},
		{
			name:      "missing geocoder endpoint",
			cfg:       mutate(func(c *Config) { c.GeocoderEndpoint = "" }),
			wantErr:   true,
			errSubstr: []string{"GEOCODER_ENDPOINT"},
		},
		{
			name:      "geocoder timeout zero",
			cfg:       mutate(func(c *Config) { c.GeocoderTimeoutSeconds = 0 }),
			wantErr:   true,
			errSubstr: []string{"GEOCODER_TIMEOUT_SECONDS"},
		},
		{
			name:      "latitude out of range",
			cfg:       mutate(func(c *Config) { c.FallbackLat = 91 }),
			wantErr:   true,
			errSubstr: []string{"FALLBACK_LAT"},
		},
		{
			name:      "longitude out of range",
			cfg:       mutate(func(c *Config) { c.FallbackLon = -181 }),
			wantErr:   true,
			errSubstr: []string{"FALLBACK_LON"},
		},
		{
			name:      "missing admin signup code",
			cfg:       mutate(func(c *Config) { c.AdminSignupCode = "" }),
			wantErr:   true,
			errSubstr: []string{"ADMIN_SIGNUP_CODE"},
		},
		{
			name:      "session ttl zero",
			cfg:       mutate(func(c *Config) { c.SessionTTLMinutes = 0 }),
			wantErr:   true,
			errSubstr: []string{"SESSION_TTL_MINUTES"},
		},
		{
			name: "multiple errors joined",
			cfg: mutate(func(c *Config) {
				c.DrainSeconds = 0
				c.APIPort = 0
				c.AdminSignupCode = ""
			}),
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS", "HTTP_PORT", "ADMIN_SIGNUP_CODE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			for _, sub := range tt.errSubstr {
				if !strings.Contains(err.Error(), sub) {
					t.Errorf("error %q does not mention %q", err, sub)
				}
			}
		})
	}
}
