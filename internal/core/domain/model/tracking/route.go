package tracking

import (
	"errors"
	"fmt"

	"deliverytracker/internal/core/domain/model/kernel"
	"deliverytracker/internal/pkg/errs"
	"deliverytracker/internal/pkg/guard"
)

// ErrRouteIsNotConstructed is returned when a zero Route is used.
var ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute constructor")

// Route is an immutable, ordered, non-empty sequence of waypoints.
type Route struct {
	points []kernel.Location
	guard  guard.ConstructorGuard
}

// NewRoute copies points into a Route. Every point must be a constructed Location.
func NewRoute(points []kernel.Location) (Route, error) {
	if len(points) == 0 {
		return Route{}, errs.NewValueIsRequiredError("route points")
	}

	copied := make([]kernel.Location, len(points))
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return Route{}, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("route point %d", i), err)
		}
		copied[i] = p
	}

	return Route{points: copied, guard: guard.NewConstructorGuard()}, nil
}

func (r Route) Validate() error {
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

// Len returns the number of waypoints.
func (r Route) Len() int {
	return len(r.points)
}

// At returns the waypoint at index i.
func (r Route) At(i int) (kernel.Location, error) {
	if i < 0 || i >= len(r.points) {
		return kernel.Location{}, errs.NewValueIsOutOfRangeError("route index", i, 0, len(r.points)-1)
	}
	return r.points[i], nil
}

// Origin returns the first waypoint.
func (r Route) Origin() kernel.Location {
	return r.points[0]
}

// Destination returns the last waypoint.
func (r Route) Destination() kernel.Location {
	return r.points[len(r.points)-1]
}

// Points returns a copy of the waypoints.
func (r Route) Points() []kernel.Location {
	out := make([]kernel.Location, len(r.points))
	copy(out, r.points)
	return out
}
