package config

import (
	"errors"
	"strings"
)

// Wildcard is the CORS origin matching every site.
const Wildcard = "*"

// ParseOrigins splits a comma-separated origin list. Blank entries are dropped.
func ParseOrigins(value string) []string {
	var origins []string
	for _, o := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// HasWildcard reports whether every origin is allowed.
func (c CORSConfig) HasWildcard() bool {
	for _, o := range c.AllowedOrigins {
		if o == Wildcard {
			return true
		}
	}
	return false
}

// Credentials reports whether credentialed requests are allowed.
func (c CORSConfig) Credentials() bool {
	if c.AllowCredentials != nil {
		return *c.AllowCredentials
	}
	return !c.HasWildcard()
}

// Validate rejects credentials combined with the wildcard origin.
func (c CORSConfig) Validate() error {
	if c.HasWildcard() && c.Credentials() {
		return errors.New("cannot enable CORS credentials with wildcard origin (*)")
	}
	if c.MaxAge < 0 {
		return errors.New("server.cors.max_age must be >= 0")
	}
	return nil
}
