package kernel

import (
	"errors"
	"fmt"

	"deliverytracker/internal/pkg/errs"
	"deliverytracker/internal/pkg/guard"
)

const (
	// MinLatitude is the southernmost valid latitude in degrees.
	MinLatitude = -90.0
	// MaxLatitude is the northernmost valid latitude in degrees.
	MaxLatitude = 90.0
	// MinLongitude is the westernmost valid longitude in degrees.
	MinLongitude = -180.0
	// MaxLongitude is the easternmost valid longitude in degrees.
	MaxLongitude = 180.0
)

// ErrLocationIsNotConstructed is returned when a zero Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation or MustNewLocation constructors")

// Location is an immutable geographic point (WGS84 degrees). It is the waypoint
// type of simulated delivery routes.
//
// Example:
//
//	loc, err := kernel.NewLocation(28.6139, 77.2090)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(loc) // Location(28.613900,77.209000)
type Location struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewLocation creates a Location, rejecting latitudes outside [-90, 90] and
// longitudes outside [-180, 180].
func NewLocation(lat, lng float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLat(lat), loc.setLng(lng)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// MustNewLocation is NewLocation for coordinates known to be valid, such as
// package-level constants. It panics on invalid input.
func MustNewLocation(lat, lng float64) Location {
	loc, err := NewLocation(lat, lng)
	if err != nil {
		panic(err)
	}
	return loc
}

// Validate reports whether the Location was built by a constructor.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (l Location) Lat() float64 {
	return l.lat
}

// Lng returns the longitude in degrees.
func (l Location) Lng() float64 {
	return l.lng
}

// String implements fmt.Stringer.
func (l Location) String() string {
	return fmt.Sprintf("Location(%f,%f)", l.lat, l.lng)
}

// IsEqual compares two constructed locations coordinate by coordinate.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.lat == other.lat && l.lng == other.lng, nil
}

// Lerp returns the point at fraction t of the straight segment from l to other,
// with t clamped to [0, 1].
func (l Location) Lerp(other Location, t float64) (Location, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return Location{}, err
	}

	t = min(max(t, 0), 1)
	return NewLocation(
		l.lat+(other.lat-l.lat)*t,
		l.lng+(other.lng-l.lng)*t,
	)
}

// Offset returns l shifted by the given deltas in degrees.
func (l Location) Offset(dLat, dLng float64) (Location, error) {
	if err := l.Validate(); err != nil {
		return Location{}, err
	}

	return NewLocation(l.lat+dLat, l.lng+dLng)
}

// setLat and setLng use pointer receivers so construction can validate in place
// while the public API stays value-based.
func (l *Location) setLat(lat float64) error {
	if lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("lat", lat, MinLatitude, MaxLatitude)
	}

	l.lat = lat
	return nil
}

func (l *Location) setLng(lng float64) error {
	if lng < MinLongitude || lng > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("lng", lng, MinLongitude, MaxLongitude)
	}

	l.lng = lng
	return nil
}
