package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrBidTooLow     = errors.New("bid is too low")
	ErrListingClosed = errors.New("listing has ended")
)

// UpstreamError is a non-2xx response from the BoardGameGeek API. The status
// code is passed through to the caller unchanged.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("BoardGameGeek API returned status %d", e.StatusCode)
}
