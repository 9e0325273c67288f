package api

import "fmt"

// Error is a non-success HTTP response. Message is the server's error field
// when the body carried one, otherwise the transport status text.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds an Error, falling back to statusText when the body
// yielded no message.
func NewError(status int, message, statusText string) *Error {
	if message == "" {
		message = statusText
	}
	if message == "" {
		message = fmt.Sprintf("unexpected status %d", status)
	}
	return &Error{Status: status, Message: message}
}
