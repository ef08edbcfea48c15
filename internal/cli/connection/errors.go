package connection

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes, matched with errors.Is against a *RequestError.
var (
	// ErrAuthRejected marks a 401 on a call that required a credential.
	ErrAuthRejected = errors.New("authentication rejected")
	// ErrNetwork marks failures where no usable response was obtained.
	ErrNetwork = errors.New("network error")
)

// RequestError is the normalized failure of a single backend call.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int    // 0 when the server was never reached
	Message    string // never empty
	RawBody    []byte
	Cause      error

	authRejected bool
}

func (e *RequestError) Error() string {
	return e.Message
}

// Unwrap returns the transport or decode failure, if any.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Is classifies the error for errors.Is.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrAuthRejected:
		return e.authRejected
	case ErrNetwork:
		return e.StatusCode == 0
	}
	return false
}

// Detail renders the error with its request line, for verbose output.
func (e *RequestError) Detail() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// StatusCode returns the HTTP status carried by err, or -1 when err is not
// a *RequestError.
func StatusCode(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return -1
}
