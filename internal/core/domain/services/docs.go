// Package services provides domain services that do not belong to a single
// aggregate.
//
// The package includes:
//   - RouteGenerator: builds the simulated route a tracking session replays
package services
