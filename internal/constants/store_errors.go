package constants

// Record store error codes
// These constants classify every fault a store operation can report

// Startup / first-use faults. Never retried.
const (
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
	ErrCodeCredentials   = "CREDENTIALS_ERROR"
)

// Caller faults, detected before any remote call
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"
)

// Remote faults, surfaced after retries are exhausted
const (
	ErrCodeRemoteUnavailable = "REMOTE_UNAVAILABLE"
)

// Error Messages
// Human-readable messages corresponding to error codes

var StoreErrorMessages = map[string]string{
	ErrCodeConfiguration:     "The spreadsheet is not configured. Set GOOGLE_SHEET_ID",
	ErrCodeCredentials:       "Google credentials are missing or malformed",
	ErrCodeValidation:        "The request is invalid",
	ErrCodeNotFound:          "The bike was not found",
	ErrCodeRemoteUnavailable: "Unable to reach the spreadsheet. Please try again later",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := StoreErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}

// Messages for validation faults raised by the store
const (
	MsgInvalidBikeID      = "bike id must be a positive integer"
	MsgInvalidStatus      = "status must be Active or Inactive"
	MsgUserNameRequired   = "user name required"
	MsgUserMustBeEmpty    = "user must be empty when status is Inactive"
	MsgStaleCurrentStatus = "bike status changed since it was loaded"
)

// Messages for request bodies the HTTP layer cannot decode
const (
	MsgInvalidJSONBody = "invalid JSON body"
	MsgInvalidFormBody = "invalid form body"
	MsgBikeIDMismatch  = "bikeId does not match the path"
)
