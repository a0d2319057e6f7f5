package shipper

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Credentials hold the secrets and endpoint selection for one carrier account.
type Credentials struct {
	Username  string
	Password  string
	APIKey    string
	APISecret string

	// UseSandbox selects the carrier's test environment.
	UseSandbox bool

	// CustomBaseURL, if set, replaces the environment base URL.
	// It must be HTTPS or point at a loopback host.
	CustomBaseURL string `validate:"omitempty,https_or_loopback"`
}

// BaseURL resolves the base URL: override first, then the sandbox flag.
func (c Credentials) BaseURL(production, sandbox string) string {
	if c.CustomBaseURL != "" {
		return strings.TrimSuffix(c.CustomBaseURL, "/")
	}
	if c.UseSandbox {
		return sandbox
	}
	return production
}

// validate is the package-level validator instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("https_or_loopback", func(fl validator.FieldLevel) bool {
		return ValidateBaseURL(fl.Field().String()) == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateBaseURL accepts absolute HTTPS URLs and HTTP URLs on a loopback host.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return fmt.Errorf("base url %q has no host", raw)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return nil
	case "http":
		if isLoopback(u.Hostname()) {
			return nil
		}
		return fmt.Errorf("base url %q must use https unless it targets a loopback host", raw)
	default:
		return fmt.Errorf("base url %q has unsupported scheme %q", raw, u.Scheme)
	}
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.Equal(net.IPv4(127, 0, 0, 1)) || ip.Equal(net.IPv6loopback))
}

// ValidateConfig checks a carrier configuration struct against its validate tags.
// Failures are returned as a configuration ShipperError.
func ValidateConfig(carrier string, cfg any) error {
	if err := validate.Struct(cfg); err != nil {
		return NewConfigError(carrier, formatValidationErrors(err)).WithCause(err)
	}
	return nil
}

// formatValidationErrors converts validator errors to a readable format.
func formatValidationErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, formatFieldError(e))
	}
	return strings.Join(errs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "https_or_loopback":
		return fmt.Sprintf("%s must be an https url or a loopback http url", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath converts "Config.Credentials.APIKey" to "credentials.apikey".
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	return strings.Join(parts, ".")
}
