// Package adaptive seals small secrets with a passphrase.
//
// A key is derived per record with Argon2id over a random salt and the
// payload is encrypted with an AEAD picked for the host CPU:
//
//   - AES-256-GCM on amd64 and arm64
//   - ChaCha20-Poly1305 elsewhere
//
// The sealed form is self-describing (version, algorithm, salt, nonce),
// so records written on one machine open on another.
//
// Usage:
//
//	blob, err := adaptive.Seal(passphrase, plaintext, aad)
//	plaintext, err := adaptive.Open(passphrase, blob, aad)
package adaptive
