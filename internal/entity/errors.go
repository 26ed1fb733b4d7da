package entity

import (
	"errors"
	"fmt"
)

var (
	ErrCompositionFailed = errors.New("error composing image")
	ErrInvalidColor      = errors.New("invalid hex color")
)

// MissingFieldError reports an absent required request parameter.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing " + e.Field
}

// DownloadFailedError reports an upstream response outside the 2xx range.
type DownloadFailedError struct {
	Role       string
	StatusCode int
}

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("Got status code %d while downloading %s", e.StatusCode, e.Role)
}

// TransportError reports a network level failure while downloading an asset.
type TransportError struct {
	Role string
	Err  error
}

func (e *TransportError) Error() string {
	return "error downloading " + e.Role
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type QuoteFetchFailedError struct {
	Err error
}

func (e *QuoteFetchFailedError) Error() string {
	return fmt.Sprintf("quote fetch failed: %v", e.Err)
}

func (e *QuoteFetchFailedError) Unwrap() error {
	return e.Err
}
