package graph

import "errors"

var (
	// ErrEmptyDomain is returned when the domain has no area.
	ErrEmptyDomain = errors.New("domain has no area")
	// ErrDegenerateLine is returned for an input polyline with fewer than two points.
	ErrDegenerateLine = errors.New("polyline needs at least two points")
	// ErrInvalidParams is returned for a non-positive step length.
	ErrInvalidParams = errors.New("invalid graph parameters")
)
