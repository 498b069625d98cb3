package chat

import "strings"

// FallbackErrorMessage is shown when a backend fails without saying why
const FallbackErrorMessage = "Something went wrong. Please try again."

// FailureReason turns a backend error into the text stored as LastError.
// The error message is used verbatim unless it is blank.
func FailureReason(err error) string {
	if err == nil {
		return FallbackErrorMessage
	}
	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		return FallbackErrorMessage
	}
	return msg
}
