package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultMaxCodeLength bounds room codes when no limit is configured.
const DefaultMaxCodeLength = 32

const (
	maxParticipantIDLength = 64
	maxClientIDLength      = 64
)

var (
	roomCodePattern      = regexp.MustCompile(`^[A-Z0-9_-]+$`)
	participantIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:@-]+$`)
	validate             = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("roomcode", func(fl validator.FieldLevel) bool {
		return roomCodePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("participant", func(fl validator.FieldLevel) bool {
		return participantIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// NormalizeCode trims and upper-cases a room code and checks its format.
func NormalizeCode(raw string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxCodeLength
	}
	code := strings.ToUpper(strings.TrimSpace(raw))
	if err := validate.Var(code, fmt.Sprintf("required,max=%d,roomcode", maxLength)); err != nil {
		return "", coreError(ErrCodeRoomCodeInvalid, ErrRoomCodeInvalid, "invalid room code %q", raw)
	}
	return code, nil
}

// ValidateParticipantID checks an identifier announced by a client.
func ValidateParticipantID(id string) error {
	if err := validate.Var(id, fmt.Sprintf("required,max=%d,participant", maxParticipantIDLength)); err != nil {
		return coreError(ErrCodeBadRequest, ErrBadRequest, "invalid participant id %q", id)
	}
	return nil
}

func validateText(text string, maxLength int) error {
	if strings.TrimSpace(text) == "" {
		return coreError(ErrCodeMessageInvalid, ErrMessageInvalid, "message text is empty")
	}
	if maxLength > 0 {
		if err := validate.Var(text, fmt.Sprintf("max=%d", maxLength)); err != nil {
			return coreError(ErrCodeMessageInvalid, ErrMessageInvalid, "message text exceeds %d characters", maxLength)
		}
	}
	return nil
}

func validateClientID(id string) error {
	if err := validate.Var(id, fmt.Sprintf("omitempty,max=%d,printascii", maxClientIDLength)); err != nil {
		return coreError(ErrCodeBadRequest, ErrBadRequest, "client message id must be at most %d printable characters", maxClientIDLength)
	}
	return nil
}
