package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by providers.
type ErrorKind string

const (
	KindMissingAPIKey ErrorKind = "missing_api_key"
	KindUnsupported   ErrorKind = "unsupported"
	KindAPI           ErrorKind = "api_error"
	KindNetwork       ErrorKind = "network_error"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrMissingAPIKey = &Error{Kind: KindMissingAPIKey}
	ErrUnsupported   = &Error{Kind: KindUnsupported}
	ErrAPI           = &Error{Kind: KindAPI}
	ErrNetwork       = &Error{Kind: KindNetwork}
)

// ErrUnknownVendor is returned when a vendor id is not registered.
var ErrUnknownVendor = errors.New("unknown vendor")

// Error is a provider failure normalized from a vendor-specific shape.
type Error struct {
	Kind       ErrorKind
	Vendor     VendorID
	Message    string
	StatusCode int
	// Body is the raw vendor response body, kept for diagnostics.
	Body string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Vendor != "" {
		msg = fmt.Sprintf("%s: %s", e.Vendor, msg)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NewMissingAPIKeyError reports that no key is configured for the vendor.
func NewMissingAPIKeyError(vendor VendorID) *Error {
	return &Error{
		Kind:    KindMissingAPIKey,
		Vendor:  vendor,
		Message: "API key is missing, add a key in settings",
	}
}

// NewUnsupportedError reports a capability the vendor does not offer.
func NewUnsupportedError(vendor VendorID, capability string) *Error {
	return &Error{
		Kind:    KindUnsupported,
		Vendor:  vendor,
		Message: capability + " is not supported",
	}
}

// NewAPIError reports a non-2xx vendor response.
func NewAPIError(vendor VendorID, status int, body string) *Error {
	return &Error{
		Kind:       KindAPI,
		Vendor:     vendor,
		Message:    "request failed",
		StatusCode: status,
		Body:       body,
	}
}

// NewNetworkError reports a transport failure.
func NewNetworkError(vendor VendorID, err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Vendor:  vendor,
		Message: "network failure",
		Err:     err,
	}
}

// ErrorKindOf returns the kind of a provider error, or "" for other errors.
func ErrorKindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
