// Package http provides the HTTP client used by the smoke suite.
//
// It wraps the standard library's http package with additional features:
//   - Configurable timeouts
//   - Redirect handling
//   - Optional proxy and TLS verification control
//   - Request building with query parameters
//   - Response handling and body reading
package http
