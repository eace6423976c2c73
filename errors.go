package ringchan

import "errors"

var (
	// ErrInvalidCapacity is returned by Bounded when capacity is below 2.
	// One slot is always kept empty, so smaller rings could hold nothing.
	ErrInvalidCapacity = errors.New("ringchan: capacity must be at least 2")

	// ErrInvalidOption is returned by Bounded when an Option rejects its value.
	ErrInvalidOption = errors.New("ringchan: invalid option")
)
