package domain

import "errors"

var (
	// ErrEmptyGeometry is returned when a segment has no coordinates.
	ErrEmptyGeometry = errors.New("segment has no coordinates")

	// ErrDegeneratePolygon is returned when a boundary ring has fewer than 3 points.
	ErrDegeneratePolygon = errors.New("boundary ring has fewer than 3 points")

	// ErrInvalidCoordinate is returned for NaN, infinite, or out-of-range coordinates.
	ErrInvalidCoordinate = errors.New("coordinate outside WGS 84 range")

	// ErrDuplicateSegment is returned when two segments share an id.
	ErrDuplicateSegment = errors.New("duplicate segment id")

	// ErrNotFound is returned when a segment or street does not exist.
	ErrNotFound = errors.New("not found")
)
