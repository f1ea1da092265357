package config

import (
	"testing"
	"time"
)

// validConfig returns a valid config
func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.AppURL = "https://storm.example.com"
	return cfg
}

func TestValidateDefaultsNeedAnURL(t *testing.T) {
	errs := DefaultConfig().Validate()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if ve, ok := errs[0].(ValidationError); !ok || ve.Path != "app_url" {
		t.Errorf("expected app_url error, got %v", errs[0])
	}
}

func TestValidateURLs(t *testing.T) {
	tests := []struct {
		name        string
		appURL      string
		socketURL   string
		shouldError bool
	}{
		{"app url", "https://storm.example.com", "", false},
		{"localhost app url", "http://localhost:3000", "", false},
		{"socket url only", "", "ws://localhost:3000/cable", false},
		{"both", "https://storm.example.com", "wss://cable.example.com/cable", false},
		{"app url with socket scheme", "ws://storm.example.com", "", true},
		{"socket url with http scheme", "", "https://storm.example.com/cable", true},
		{"missing host", "https://", "", true},
		{"neither", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.AppURL = tt.appURL
			cfg.SocketURL = tt.socketURL
			errs := cfg.Validate()
			if tt.shouldError && len(errs) == 0 {
				t.Errorf("expected error, got none")
			}
			if !tt.shouldError && len(errs) > 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
		})
	}
}

func TestValidateTransport(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*TransportConfig)
		shouldError bool
	}{
		{"defaults", func(*TransportConfig) {}, false},
		{"zero handshake timeout", func(tc *TransportConfig) { tc.HandshakeTimeout = 0 }, true},
		{"negative write timeout", func(tc *TransportConfig) { tc.WriteTimeout = -time.Second }, true},
		{"negative read buffer", func(tc *TransportConfig) { tc.ReadBufferSize = -1 }, true},
		{"zero buffers use gorilla defaults", func(tc *TransportConfig) { tc.ReadBufferSize, tc.WriteBufferSize = 0, 0 }, false},
		{"valid origin", func(tc *TransportConfig) { tc.Origin = "https://storm.example.com" }, false},
		{"invalid origin", func(tc *TransportConfig) { tc.Origin = "storm.example.com" }, true},
		{"empty header name", func(tc *TransportConfig) { tc.Headers[" "] = "x" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg.Transport)
			errs := cfg.Validate()
			if tt.shouldError && len(errs) == 0 {
				t.Errorf("expected error, got none")
			}
			if !tt.shouldError && len(errs) > 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
		})
	}
}

func TestValidateLogging(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		shouldError bool
	}{
		{"valid info console", "info", "console", false},
		{"valid debug json", "debug", "json", false},
		{"invalid level", "verbose", "console", true},
		{"invalid format", "info", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logging.Level = tt.level
			cfg.Logging.Format = tt.format
			errs := cfg.Validate()
			if tt.shouldError && len(errs) == 0 {
				t.Errorf("expected error, got none")
			}
			if !tt.shouldError && len(errs) > 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
		})
	}
}

func TestValidationErrorFormat(t *testing.T) {
	withHint := ValidationError{Path: "logging.level", Message: `invalid value "x"`, Hint: "allowed values: debug"}
	if got := withHint.Error(); got != `logging.level: invalid value "x"; allowed values: debug` {
		t.Errorf("unexpected message %q", got)
	}
	bare := ValidationError{Path: "transport.headers", Message: "header name must not be empty"}
	if got := bare.Error(); got != "transport.headers: header name must not be empty" {
		t.Errorf("unexpected message %q", got)
	}
}
