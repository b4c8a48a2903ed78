package dto

import "net/http"

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeTooManyRequests is an alias for rate limiting
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Domain error
// codes map directly; the ERR_* codes cover transport-level failures.
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,

	// Missing resources -> 404 Not Found
	"NOT_FOUND":         http.StatusNotFound,
	"USER_NOT_FOUND":    http.StatusNotFound,
	"GROUP_NOT_FOUND":   http.StatusNotFound,
	"INVITE_NOT_FOUND":  http.StatusNotFound,
	"MISSION_NOT_FOUND": http.StatusNotFound,
	"CONTENT_NOT_FOUND": http.StatusNotFound,
	"COMMENT_NOT_FOUND": http.StatusNotFound,
	"STICKER_NOT_FOUND": http.StatusNotFound,

	// Ownership and membership -> 403 Forbidden
	"FORBIDDEN":         http.StatusForbidden,
	"NOT_GROUP_OWNER":   http.StatusForbidden,
	"NOT_GROUP_MEMBER":  http.StatusForbidden,
	"NOT_MISSION_OWNER": http.StatusForbidden,
	"NOT_CONTENT_OWNER": http.StatusForbidden,

	// Credentials and tokens -> 401 Unauthorized
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,

	// Duplicates -> 409 Conflict
	"ALREADY_EXISTS":       http.StatusConflict,
	"DUPLICATE_EMAIL":      http.StatusConflict,
	"DUPLICATE_NICKNAME":   http.StatusConflict,
	"ALREADY_GROUP_MEMBER": http.StatusConflict,

	// Sequencing violations -> 422 Unprocessable Entity
	"INVALID_STATE":              http.StatusUnprocessableEntity,
	"INVALID_GROUP_MISSION":      http.StatusUnprocessableEntity,
	"INVALID_USER_MISSION":       http.StatusUnprocessableEntity,
	"NOT_CHECK_MISSION_LOCATION": http.StatusUnprocessableEntity,
	"ALREADY_COMPLETE_MISSION":   http.StatusUnprocessableEntity,
	"INVALID_INVITE_STATE":       http.StatusUnprocessableEntity,

	// Invalid request payloads -> 400 Bad Request
	"INVALID_INPUT":            http.StatusBadRequest,
	"INVALID_EMAIL":            http.StatusBadRequest,
	"INVALID_NICKNAME":         http.StatusBadRequest,
	"INVALID_PASSWORD":         http.StatusBadRequest,
	"INVALID_GROUP_NAME":       http.StatusBadRequest,
	"INVALID_GROUP_NOTE":       http.StatusBadRequest,
	"INVALID_MISSION_NAME":     http.StatusBadRequest,
	"INVALID_MISSION_PERIOD":   http.StatusBadRequest,
	"INVALID_MISSION_LOCATION": http.StatusBadRequest,
	"INVALID_CONTENT":          http.StatusBadRequest,
	"INVALID_COMMENT":          http.StatusBadRequest,
	"INVALID_STICKER_LEVEL":    http.StatusBadRequest,
	"INVALID_STICKER_NAME":     http.StatusBadRequest,

	// Infrastructure failures -> 500 Internal Server Error
	"INTERNAL_ERROR":      http.StatusInternalServerError,
	"TOKEN_ERROR":         http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
	"IMAGE_UPLOAD_FAILED": http.StatusInternalServerError,
	"IMAGE_TOO_LARGE":     http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
