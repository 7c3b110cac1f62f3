// Package tracking holds the value objects of a delivery tracking session:
// the simulated Route, the Update events streamed to a watcher and the
// SessionState of the loop producing them.
package tracking
