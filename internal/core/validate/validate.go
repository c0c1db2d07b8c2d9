// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/assess/internal/core/assessment"
)

// Required validates a value is non-empty after trimming whitespace.
func Required(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

// RequiredField returns a criterio validator for required strings.
func RequiredField(field, value string) error {
	return criterio.Run(field, value, Required)
}

// Rating validates r is one of the rated values.
func Rating(r assessment.Rating) error {
	if !r.Valid() {
		return fmt.Errorf("unknown rating %q", string(r))
	}
	return nil
}

// Status validates s is a known lifecycle status.
func Status(s assessment.Status) error {
	if !s.Valid() {
		return fmt.Errorf("unknown status %q", string(s))
	}
	return nil
}

// HTTPURL validates raw is an absolute http or https URL. Empty is allowed.
func HTTPURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
