package services

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"

	"deliverytracker/internal/core/domain/model/kernel"
	"deliverytracker/internal/core/domain/model/tracking"
	"deliverytracker/internal/pkg/errs"
)

const (
	// DefaultRouteSteps yields routes of DefaultRouteSteps+1 waypoints.
	DefaultRouteSteps = 20
	// DefaultDestinationSpread bounds the destination offset per axis, in degrees.
	DefaultDestinationSpread = 0.025
	// DefaultJitter bounds the per-waypoint noise per axis, in degrees.
	DefaultJitter = 0.001
)

// DefaultOrigin is the dispatch point every simulated route starts from.
var DefaultOrigin = kernel.MustNewLocation(28.6139, 77.2090)

// RouteConfig shapes generated routes.
type RouteConfig struct {
	Origin            kernel.Location
	Steps             int
	DestinationSpread float64
	Jitter            float64
}

// DefaultRouteConfig returns the 21-point route shape around DefaultOrigin.
func DefaultRouteConfig() RouteConfig {
	return RouteConfig{
		Origin:            DefaultOrigin,
		Steps:             DefaultRouteSteps,
		DestinationSpread: DefaultDestinationSpread,
		Jitter:            DefaultJitter,
	}
}

// Validate checks that every point a generator could produce is a valid location.
func (c RouteConfig) Validate() error {
	if err := c.Origin.Validate(); err != nil {
		return err
	}
	if c.Steps < 1 {
		return errs.NewValueIsOutOfRangeError("steps", c.Steps, 1, "unbounded")
	}
	if c.DestinationSpread < 0 {
		return errs.NewValueIsInvalidError("destination spread must not be negative")
	}
	if c.Jitter < 0 {
		return errs.NewValueIsInvalidError("jitter must not be negative")
	}

	reach := c.DestinationSpread + c.Jitter
	_, errLow := c.Origin.Offset(-reach, -reach)
	_, errHigh := c.Origin.Offset(reach, reach)
	return errors.Join(errLow, errHigh)
}

// RouteGenerator builds simulated delivery routes: a straight line from the origin
// to a random nearby destination, with independent jitter on each axis of every
// waypoint. Safe for concurrent use.
//
// Example:
//
//	gen, err := services.NewRouteGenerator(services.DefaultRouteConfig(), logger)
//	route := gen.Generate("order-1") // 21 waypoints
type RouteGenerator struct {
	cfg    RouteConfig
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// RouteGeneratorOption customises a RouteGenerator.
type RouteGeneratorOption func(*RouteGenerator)

// WithRandSource makes generation reproducible, e.g. rand.NewPCG(1, 2) in tests.
func WithRandSource(src rand.Source) RouteGeneratorOption {
	return func(g *RouteGenerator) {
		g.rng = rand.New(src)
	}
}

// NewRouteGenerator validates cfg and returns a generator.
func NewRouteGenerator(cfg RouteConfig, logger *slog.Logger, opts ...RouteGeneratorOption) (*RouteGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &RouteGenerator{
		cfg:    cfg,
		logger: logger.With("component", "route_generator"),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // simulation only
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Generate returns a new route for orderID. The identifier is only logged; it
// does not seed the randomness.
func (g *RouteGenerator) Generate(orderID string) tracking.Route {
	g.mu.Lock()
	defer g.mu.Unlock()

	origin := g.cfg.Origin
	destination := kernel.MustNewLocation(
		origin.Lat()+g.symmetric(g.cfg.DestinationSpread),
		origin.Lng()+g.symmetric(g.cfg.DestinationSpread),
	)

	points := make([]kernel.Location, 0, g.cfg.Steps+1)
	for i := 0; i <= g.cfg.Steps; i++ {
		progress := float64(i) / float64(g.cfg.Steps)
		lat := origin.Lat() + (destination.Lat()-origin.Lat())*progress + g.symmetric(g.cfg.Jitter)
		lng := origin.Lng() + (destination.Lng()-origin.Lng())*progress + g.symmetric(g.cfg.Jitter)
		points = append(points, kernel.MustNewLocation(lat, lng))
	}

	// Validate bounds every point, so construction cannot fail.
	route, err := tracking.NewRoute(points)
	if err != nil {
		panic(err)
	}

	g.logger.Debug("route generated",
		"order_id", orderID,
		"waypoints", route.Len(),
		"destination", destination.String(),
	)
	return route
}

// symmetric draws uniformly from [-bound, bound).
func (g *RouteGenerator) symmetric(bound float64) float64 {
	return g.rng.Float64()*2*bound - bound
}
