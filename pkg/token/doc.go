// Package token inspects bearer tokens on the client side.
//
// The client never verifies a token's signature; the backend does. It only
// reads the claims to show who a token belongs to and when it expires, and
// fingerprints tokens so they can be told apart in logs without leaking
// them.
//
// Fingerprint Format:
//
//   - Prefix: tfp_ (4 characters)
//   - Body: first 12 hex characters of the SHA-256 hash
//   - Total: 16 characters
package token
