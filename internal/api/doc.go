// Package api provides an HTTP client for the workspace platform API.
//
// # Overview
//
// The Client wraps every endpoint deckhand consumes: authentication,
// projects, agents, notifications and billing. Each wrapper returns typed
// payloads decoded from JSON.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: deckhand/0.1
//   - Attach "Authorization: Bearer <access_token>" when a TokenStore holds one
//   - Have a 15-second timeout (configurable via WithHTTPClient)
//
// Most endpoints wrap their payload as {"trace_id": "...", "data": ...}.
// The client unwraps the envelope when present and decodes bare bodies
// otherwise, so wrappers never deal with it.
//
// # Tokens
//
// Login persists the issued access and refresh tokens under AccessTokenKey
// and RefreshTokenKey in the configured TokenStore. Logout removes them once
// the server confirms. The client never refreshes tokens on its own.
//
// # Error Handling
//
// Any non-2xx response becomes an *Error carrying the status code, a
// display-ready message, the server's trace id and an optional detail
// string. Validation failures (422) use the same type; the detail list is
// flattened into one string. Use errors.As or the IsUnauthorized and
// IsNotFound helpers to branch.
//
// Transport and decoding failures are wrapped with fmt.Errorf:
//   - "execute request: dial tcp: connection refused"
//   - "decode response: unexpected end of JSON input"
//
// # Thread Safety
//
// Client is safe for concurrent use. Token reads go through the TokenStore
// on every request, so a login on one goroutine is visible to the next
// request on another.
package api
