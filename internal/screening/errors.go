package screening

import (
	"errors"
	"fmt"
	"net/http"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for the upstream failure taxonomy. Compare with errors.Is.
var (
	ErrAuthentication = constError("upstream rejected credential")
	ErrNotFound       = constError("upstream endpoint not found")
	ErrServer         = constError("upstream server error")
	ErrHTTP           = constError("upstream http error")
	ErrTransport      = constError("upstream transport error")
)

// Kind is the normalized failure category of a lookup.
type Kind string

const (
	// KindValidation means the input never left the process.
	KindValidation Kind = "validation"
	// KindAuthentication means the credential is invalid or expired (HTTP 401).
	KindAuthentication Kind = "authentication"
	// KindNotFound means the lookup endpoint does not exist (HTTP 404).
	KindNotFound Kind = "not_found"
	// KindServer means the upstream failed (HTTP >= 500).
	KindServer Kind = "server"
	// KindHTTP is any other non-2xx status.
	KindHTTP Kind = "http"
	// KindTransport means no usable HTTP response was received.
	KindTransport Kind = "transport"
)

// Human-readable messages shown to the operator.
const (
	MessageAuthentication = "Invalid or expired CRM token. Please check your token and try again."
	MessageNotFound       = "API endpoint not found. Please contact support."
	MessageServer         = "Server error occurred. Please try again later."
	MessageFallback       = "Failed to fetch data"
)

// ClassifyStatus maps a non-2xx HTTP status to its failure kind.
func ClassifyStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthentication
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= http.StatusInternalServerError:
		return KindServer
	default:
		return KindHTTP
	}
}

// UpstreamError wraps a failed lookup with its category.
type UpstreamError struct {
	Kind       Kind
	StatusCode int // zero for transport failures
	Err        error
}

// NewStatusError builds the error for a non-2xx upstream response.
func NewStatusError(status int) *UpstreamError {
	return &UpstreamError{Kind: ClassifyStatus(status), StatusCode: status}
}

// NewTransportError wraps a failure that produced no usable HTTP response.
func NewTransportError(err error) *UpstreamError {
	return &UpstreamError{Kind: KindTransport, Err: err}
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Kind == KindTransport {
		if e.Err == nil {
			return "screening lookup failed"
		}
		return fmt.Sprintf("screening lookup failed: %v", e.Err)
	}
	return fmt.Sprintf("screening lookup failed [%s]: status %d", e.Kind, e.StatusCode)
}

// Unwrap returns the underlying transport error, if any.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrAuthentication:
		return e.Kind == KindAuthentication
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrServer:
		return e.Kind == KindServer
	case ErrHTTP:
		return e.Kind == KindHTTP
	case ErrTransport:
		return e.Kind == KindTransport
	}
	return false
}

// Message returns the operator-facing text for the failure.
func (e *UpstreamError) Message() string {
	switch e.Kind {
	case KindAuthentication:
		return MessageAuthentication
	case KindNotFound:
		return MessageNotFound
	case KindServer:
		return MessageServer
	case KindHTTP:
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	case KindTransport:
		if e.Err != nil {
			return e.Err.Error()
		}
	case KindValidation:
	}
	return MessageFallback
}

// ValidationError reports malformed input caught before any network call.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// KindOf returns the failure category of err.
func KindOf(err error) Kind {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return KindValidation
	}
	var uerr *UpstreamError
	if errors.As(err, &uerr) {
		return uerr.Kind
	}
	return KindTransport
}

// Humanize converts any lookup error into the single message shown to the
// operator.
func Humanize(err error) string {
	if err == nil {
		return MessageFallback
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	var uerr *UpstreamError
	if errors.As(err, &uerr) {
		return uerr.Message()
	}

	return err.Error()
}
