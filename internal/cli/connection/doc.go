// Package connection is the request boundary between the pocket client and
// the CloudPocket backend.
//
//   - gateway.go: the Gateway, one JSON request/response round trip per call
//   - errors.go: RequestError and its sentinel classes
//   - events.go: auth-lost notification
//
// The Gateway attaches the bearer token from a storage.TokenStore, turns
// every failure into a *RequestError, and on a 401 for an authenticated
// call clears the token and tells its subscribers the session is gone.
// There are no retries.
package connection
