package model

import (
	"errors"
	"fmt"
)

// ErrValidation marks request payloads rejected by a Validate method so
// handlers can tell a bad request apart from an infrastructure failure.
var ErrValidation = errors.New("invalid request")

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
