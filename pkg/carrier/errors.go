package carrier

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError indicates that credentials required by an operation are
// missing. It is raised before any network activity and names the
// missing field(s).
type ConfigError struct {
	Carrier string
	Fields  []string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: missing required configuration: %s", e.Carrier, strings.Join(e.Fields, ", "))
}

// Is matches any ConfigError against ErrMissingCredentials.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingCredentials
}

// CredentialField pairs a credential name with its configured value.
type CredentialField struct {
	Name  string
	Value string
}

// RequireCredentials returns a ConfigError naming every empty field,
// or nil when all fields are set. Adapters call it as the first stage
// of every operation, before building any payload.
func RequireCredentials(carrierName string, fields ...CredentialField) error {
	var missing []string
	for _, f := range fields {
		if f.Value == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return &ConfigError{Carrier: carrierName, Fields: missing}
	}
	return nil
}

// DispatchError indicates a transport-level failure: a connection
// error, a non-success HTTP status, or an unparsable response body.
// It carries the endpoint and status for diagnosis without leaking
// carrier-specific handling upstream.
type DispatchError struct {
	Carrier    string
	Endpoint   string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	msg := fmt.Sprintf("%s: dispatch to %s failed", e.Carrier, e.Endpoint)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *DispatchError) Unwrap() error {
	return e.Cause
}

// Is matches any DispatchError against ErrDispatchFailed.
func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatchFailed
}

// Sentinel errors for common carrier scenarios.
var (
	// ErrMissingCredentials indicates required credentials are absent.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrDispatchFailed indicates a transport-level failure.
	ErrDispatchFailed = errors.New("dispatch failed")

	// ErrShipmentInvalid indicates the shipment fails basic validation.
	ErrShipmentInvalid = errors.New("invalid shipment")

	// ErrCarrierNotFound indicates the requested carrier is not registered.
	ErrCarrierNotFound = errors.New("carrier not found")

	// ErrAuthenticationFailed indicates carrier authentication failed.
	ErrAuthenticationFailed = errors.New("authentication failed")
)
