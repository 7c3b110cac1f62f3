// Package errs provides the error types shared by the tracking service.
//
// Every error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrValueIsRequired)
//   - a struct carrying the details
//   - constructors with and without a cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Callers classify failures with errors.Is against the sentinels, for example
// the reconciliation backlog drops identifiers that fail with ErrObjectNotFound.
package errs
