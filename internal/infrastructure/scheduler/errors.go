package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when the sweep schedule cannot be parsed
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrSweepRunning is returned when a sweep is requested while one is in progress
	ErrSweepRunning = errors.New("payout consistency sweep already running")
)
