// Package api provides the HTTP client for the Vitalis analysis service.
//
// All calls run through a composable round-tripper pipeline:
//
//   - Throttle: paces dispatch with a token bucket
//   - RequestID: tags each request with a ULID
//   - Authenticate: attaches the current bearer token, read from the
//     session at dispatch time
//   - InterceptUnauthorized: detects 401 on authenticated calls and runs
//     the registered teardown hook before the error reaches the caller
//
// The pipeline stages mirror middleware chaining, applied to outbound
// requests instead of inbound ones. Feature code never handles session
// expiry itself; the interceptor does it once, centrally.
package api
