package geom

import "errors"

// Domain errors for spatial primitives.
var (
	// ErrInvalidZone indicates a non-positive radius or an inverted box.
	ErrInvalidZone = errors.New("geom: invalid exclusion zone")

	// ErrInvalidDomain indicates a sampling domain with min > max on some axis.
	ErrInvalidDomain = errors.New("geom: invalid sampling domain")
)
