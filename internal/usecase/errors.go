package usecase

import "errors"

var (
	ErrInvalidURL     = errors.New("url must be an absolute http or https url")
	ErrInvalidScanID  = errors.New("scan id is not a valid identifier")
	ErrScanQueueFull  = errors.New("scan queue is full, try again later")
	ErrScannerStopped = errors.New("scanner is shutting down")
)
