package ai

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed generation.
type ErrorKind string

const (
	KindNotConfigured  ErrorKind = "not_configured"
	KindInvalidInput   ErrorKind = "invalid_input"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindForbidden      ErrorKind = "forbidden"
	KindRateLimited    ErrorKind = "rate_limited"
	KindRequestFailed  ErrorKind = "request_failed"
	KindEmptyResponse  ErrorKind = "empty_response"
	KindUnparseable    ErrorKind = "unparseable"
)

// Sentinels for errors.Is. Any *Error with the same Kind matches.
var (
	ErrNotConfigured  = &Error{Kind: KindNotConfigured, Message: "Google Gemini API key is not configured. Please set up your API key."}
	ErrInvalidInput   = &Error{Kind: KindInvalidInput, Message: "Please fill in all required fields."}
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest, StatusCode: 400, Message: "Invalid API request. Please check your input parameters."}
	ErrForbidden      = &Error{Kind: KindForbidden, StatusCode: 403, Message: "API key is invalid or access is forbidden. Please check your Google Gemini API key."}
	ErrRateLimited    = &Error{Kind: KindRateLimited, StatusCode: 429, Message: "API rate limit exceeded. Please try again later."}
	ErrRequestFailed  = &Error{Kind: KindRequestFailed, Message: "API request failed"}
	ErrEmptyResponse  = &Error{Kind: KindEmptyResponse, Message: "Empty response from AI service"}
	ErrUnparseable    = &Error{Kind: KindUnparseable, Message: "AI response could not be interpreted"}
)

// Error is returned by the client and the feature adapters. Message is safe
// to show to end users.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func statusError(code int, status string) *Error {
	switch code {
	case 400:
		return ErrInvalidRequest
	case 403:
		return ErrForbidden
	case 429:
		return ErrRateLimited
	}
	return &Error{
		Kind:       KindRequestFailed,
		StatusCode: code,
		Message:    fmt.Sprintf("API request failed: %s", status),
	}
}

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
