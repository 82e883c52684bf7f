package scheduler

import "errors"

var (
	// ErrUnknownJob is returned when running a job name that was never registered
	ErrUnknownJob = errors.New("unknown scheduler job")

	// ErrInvalidConfig is returned when a cron spec does not parse
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrAlreadyRunning is returned when Start is called twice
	ErrAlreadyRunning = errors.New("scheduler is already running")
)
