package game

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("invalid host secret")
	ErrInvalidPhase     = errors.New("operation not allowed in current phase")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrBusy             = errors.New("session busy")
	ErrUpstreamTimeout  = errors.New("artifact generation timed out")
	ErrConflict         = errors.New("identifier conflict")
)
