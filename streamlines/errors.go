package streamlines

import "errors"

var (
	// ErrInvalidParams is returned when streamline parameters are out of range.
	ErrInvalidParams = errors.New("invalid streamline parameters")
	// ErrEmptyDomain is returned when the domain has no area.
	ErrEmptyDomain = errors.New("domain has no area")
)
