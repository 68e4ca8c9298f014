package scheduler

import "errors"

// Sentinel errors for the scheduler package.
// Check with errors.Is: errors.Is(err, scheduler.ErrInvalidResponse)
var (
	ErrInvalidResponse = errors.New("scheduler: invalid response")
	ErrInvalidState    = errors.New("scheduler: invalid card state")
	ErrInvalidPolicy   = errors.New("scheduler: invalid policy")
)
