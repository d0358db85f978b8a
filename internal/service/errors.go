package service

import "errors"

var (
	ErrInvalidFix      = errors.New("invalid gps fix")
	ErrNotTracking     = errors.New("no tracking session in progress")
	ErrAlreadyTracking = errors.New("tracking session already running")
	ErrAlreadyPaused   = errors.New("tracking session already paused")
)
