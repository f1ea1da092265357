package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ValidationError represents a single validation error with context.
type ValidationError struct {
	Path    string // e.g., "transport.write_timeout"
	Message string // e.g., "must be positive"
	Hint    string // e.g., "use a Go duration such as 10s"
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s; %s", e.Path, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate performs comprehensive validation of the entire config.
// It aggregates all errors and returns them, allowing the caller to print all issues at once.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateURLs()...)
	errs = append(errs, c.validateTransport()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

func (c *Config) validateURLs() []error {
	var errs []error

	if strings.TrimSpace(c.AppURL) == "" && strings.TrimSpace(c.SocketURL) == "" {
		errs = append(errs, ValidationError{
			Path:    "app_url",
			Message: "must not be empty when socket_url is not set",
			Hint:    "set app_url to the page URL, e.g. https://storm.example.com",
		})
	}

	if c.AppURL != "" {
		if err := validateURL(c.AppURL, "http", "https"); err != nil {
			errs = append(errs, ValidationError{
				Path:    "app_url",
				Message: err.Error(),
				Hint:    "expected http(s)://host[:port]",
			})
		}
	}

	if c.SocketURL != "" {
		if err := validateURL(c.SocketURL, "ws", "wss"); err != nil {
			errs = append(errs, ValidationError{
				Path:    "socket_url",
				Message: err.Error(),
				Hint:    "expected ws(s)://host[:port]/cable",
			})
		}
	}

	return errs
}

func (c *Config) validateTransport() []error {
	var errs []error
	tc := c.Transport

	if tc.HandshakeTimeout <= 0 {
		errs = append(errs, ValidationError{
			Path:    "transport.handshake_timeout",
			Message: fmt.Sprintf("must be positive; got %s", tc.HandshakeTimeout),
			Hint:    "use a duration such as 10s",
		})
	}
	if tc.WriteTimeout <= 0 {
		errs = append(errs, ValidationError{
			Path:    "transport.write_timeout",
			Message: fmt.Sprintf("must be positive; got %s", tc.WriteTimeout),
			Hint:    "use a duration such as 10s",
		})
	}
	if tc.ReadBufferSize < 0 {
		errs = append(errs, ValidationError{
			Path:    "transport.read_buffer_size",
			Message: fmt.Sprintf("must not be negative; got %d", tc.ReadBufferSize),
		})
	}
	if tc.WriteBufferSize < 0 {
		errs = append(errs, ValidationError{
			Path:    "transport.write_buffer_size",
			Message: fmt.Sprintf("must not be negative; got %d", tc.WriteBufferSize),
		})
	}
	if tc.Origin != "" {
		if err := validateURL(tc.Origin, "http", "https"); err != nil {
			errs = append(errs, ValidationError{
				Path:    "transport.origin",
				Message: err.Error(),
			})
		}
	}
	for name := range tc.Headers {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{
				Path:    "transport.headers",
				Message: "header name must not be empty",
			})
		}
	}

	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error
	log := c.Logging

	// Validate level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[log.Level] {
		errs = append(errs, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("invalid value %q", log.Level),
			Hint:    "allowed values: debug, info, warn, error",
		})
	}

	// Validate format
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[log.Format] {
		errs = append(errs, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("invalid value %q", log.Format),
			Hint:    "allowed values: json, console",
		})
	}

	// Validate output_file
	if log.OutputFile != "" {
		dir := filepath.Dir(log.OutputFile)
		if dir != "" && dir != "." {
			if err := validateDirWritable(dir); err != nil {
				errs = append(errs, ValidationError{
					Path:    "logging.output_file",
					Message: fmt.Sprintf("parent directory not writable: %v", err),
				})
			}
		}
	}

	return errs
}

func validateURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	for _, scheme := range schemes {
		if u.Scheme == scheme {
			return nil
		}
	}
	return fmt.Errorf("unsupported scheme %q", u.Scheme)
}

func validateDirWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access directory: %v", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory")
	}

	// Try to write a test file
	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte(""), 0644); err != nil {
		return fmt.Errorf("directory not writable: %v", err)
	}
	os.Remove(testFile)

	return nil
}
