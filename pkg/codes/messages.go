package codes

import "strings"

// DefaultLanguage is the locale served by DefaultMessage.
const DefaultLanguage = "ko"

var english = map[Kind]string{
	AuthRequired:       "Please sign in to continue",
	AuthFailed:         "Authentication failed",
	TokenExpired:       "Your session has expired. Please sign in again",
	PermissionDenied:   "You do not have permission to access this",
	ValidationError:    "Some of the values you entered are invalid",
	NotFound:           "The requested resource could not be found",
	BadRequest:         "The request was invalid",
	ServerError:        "A server error occurred",
	ServiceUnavailable: "The service is temporarily unavailable",
	NetworkError:       "Please check your network connection",
	Timeout:            "The request timed out",
	DiaryNotFound:      "The diary entry could not be found",
	EncryptionError:    "An error occurred while encrypting your data",
	AIServiceError:     "The AI service returned an error",
	EmailSendError:     "The email could not be sent",
	RateLimitExceeded:  "Too many requests. Please try again shortly",
	Unknown:            "An unknown error occurred",
}

// Localized returns the message for kind in lang ("ko" or "en").
// Unsupported languages fall back to DefaultLanguage.
func Localized(kind Kind, lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "en":
		if msg, ok := english[kind]; ok {
			return msg
		}
		return english[Unknown]
	default:
		return DefaultMessage(kind)
	}
}
