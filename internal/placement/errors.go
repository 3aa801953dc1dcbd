package placement

import (
	"errors"
	"fmt"

	"github.com/san-kum/wintersim/internal/geom"
)

// ErrPlacementInfeasible indicates that rejection sampling could not find a
// point outside the exclusion zones within the attempt budget.
var ErrPlacementInfeasible = errors.New("placement: infeasible for domain/zone configuration")

// PlacementError wraps a placement failure with sampling context.
type PlacementError struct {
	Index    int
	Attempts int
	Domain   geom.Domain
	Wrapped  error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("placement %d after %d attempts in %v-%v: %v",
		e.Index, e.Attempts, e.Domain.Min, e.Domain.Max, e.Wrapped)
}

func (e *PlacementError) Unwrap() error {
	return e.Wrapped
}
