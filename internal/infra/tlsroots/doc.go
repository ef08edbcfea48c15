// Package tlsroots builds the TLS configuration the client uses to reach
// the backend.
//
// A custom CA bundle is added on top of the system roots. An optional
// client certificate is presented for backends behind mutual TLS and is
// reloaded from disk when it is rotated, so a long-running shell keeps
// working.
package tlsroots
