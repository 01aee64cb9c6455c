package core

import (
	"errors"
	"fmt"
)

// Error codes for domain errors.
const (
	ErrCodeAlreadyAttached = "already_attached"
	ErrCodeNotAttached     = "not_attached"
	ErrCodeRoomCodeInvalid = "invalid_room_code"
	ErrCodeMessageInvalid  = "invalid_message"
	ErrCodeBadRequest      = "bad_request"
)

var (
	ErrAlreadyAttached = errors.New("already attached")
	ErrNotAttached     = errors.New("not attached")
	ErrRoomCodeInvalid = errors.New("room code invalid")
	ErrMessageInvalid  = errors.New("message invalid")
	ErrBadRequest      = errors.New("bad request")

	// errRoomClosed is returned by Room.Join when the room lost the race with
	// its own removal from the registry. Registry.Join retries on it.
	errRoomClosed = errors.New("room closed")
)

// CoreError wraps a sentinel with a protocol code and a human-readable message.
type CoreError struct {
	Code    string
	Message string
	Err     error
}

func (e *CoreError) Error() string {
	return e.Message
}

func (e *CoreError) Unwrap() error {
	return e.Err
}

func coreError(code string, err error, format string, args ...any) *CoreError {
	return &CoreError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the protocol code carried by err, or ErrCodeBadRequest.
func CodeOf(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeBadRequest
}
