package photoline_errors

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrNotMedia          = errors.New("not a media message")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedMedia  = errors.New("unsupported media type")
	ErrNoAttachments     = errors.New("no attachments on message")
	ErrQueueFull         = errors.New("queue full")
)

// NowPtr returns a pointer to current time
func NowPtr() *time.Time {
	now := time.Now().UTC()
	return &now
}
