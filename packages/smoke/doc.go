// Package smoke executes the fixed smoke scenario against a HomeShare API
// deployment and accumulates pass/fail statistics.
//
// It provides functionality for:
//   - Running a single named case (method + endpoint + expected status)
//   - Running the full fixed scenario in order
//   - Capturing the first listing id for the by-id case
//   - Recording per-case results and request latencies
//
// A case never aborts the run: status mismatches and transport errors are
// both recorded as failed results and execution continues with the next case.
package smoke
