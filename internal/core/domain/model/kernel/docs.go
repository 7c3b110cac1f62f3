// Package kernel holds the value objects shared by the order store and the
// tracking engine.
//
//   - UUID identifies orders; the zero value is rejected by Validate.
//   - Location is a latitude/longitude pair, lat in [-90, 90] and lng in
//     [-180, 180]. Simulated routes are sequences of Locations.
//
// Both types are immutable and safe to share between session goroutines.
package kernel
