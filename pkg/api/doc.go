// Package api implements the HTTP contract of the subscription backend:
// JSON over HTTPS with a bearer credential on authenticated endpoints.
//
// The client is deliberately stateless about authentication. Every
// authenticated method takes the credential as an argument so call sites
// resolve the current token immediately before the call instead of relying
// on an interceptor holding a possibly stale copy.
//
// Backend failures surface as *Error carrying the HTTP status, the raw
// message, and a structured ErrorCode when the deployment provides one.
// Transport failures (DNS, timeouts, malformed bodies) are ordinary wrapped
// errors and never *Error.
package api
