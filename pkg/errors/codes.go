package errors

// Error codes for categorizing errors.
const (
	// CodeOK indicates success (not an error).
	CodeOK = "OK"

	// CodeInternal indicates internal errors.
	CodeInternal = "INTERNAL"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound = "NOT_FOUND"

	// CodeValidation indicates input validation failed.
	CodeValidation = "VALIDATION_ERROR"

	// CodeUnauthorized indicates the server rejected a subscription.
	CodeUnauthorized = "UNAUTHORIZED"

	// CodeUnauthenticated indicates the connection was dropped or never
	// authenticated.
	CodeUnauthenticated = "UNAUTHENTICATED"

	// CodeUnavailable indicates the remote endpoint is currently unavailable.
	CodeUnavailable = "UNAVAILABLE"

	// CodeTransportError indicates a websocket dial, read or write failed.
	CodeTransportError = "TRANSPORT_ERROR"

	// CodeConfigError indicates a configuration error.
	CodeConfigError = "CONFIG_ERROR"

	// CodeSerializationError indicates serialization/deserialization failed.
	CodeSerializationError = "SERIALIZATION_ERROR"
)

// ErrorCategory represents a high-level error category.
type ErrorCategory string

const (
	// CategoryClient indicates a caller-side error.
	CategoryClient ErrorCategory = "CLIENT_ERROR"

	// CategoryAuth indicates an authentication/authorization error.
	CategoryAuth ErrorCategory = "AUTH_ERROR"

	// CategoryNetwork indicates a network-related error.
	CategoryNetwork ErrorCategory = "NETWORK_ERROR"

	// CategoryInternal indicates a bug or unexpected condition.
	CategoryInternal ErrorCategory = "INTERNAL_ERROR"
)

// GetCategory returns the category for an error code.
func GetCategory(code string) ErrorCategory {
	switch code {
	case CodeValidation, CodeNotFound, CodeConfigError, CodeSerializationError:
		return CategoryClient

	case CodeUnauthorized, CodeUnauthenticated:
		return CategoryAuth

	case CodeTransportError, CodeUnavailable:
		return CategoryNetwork

	default:
		return CategoryInternal
	}
}

// IsClientError returns true if the code describes a caller mistake.
func IsClientError(code string) bool {
	return GetCategory(code) == CategoryClient
}
