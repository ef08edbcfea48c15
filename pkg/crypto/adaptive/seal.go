package adaptive

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Sealing errors.
var (
	ErrEmptyPassphrase = errors.New("adaptive: passphrase is empty")
	ErrMalformed       = errors.New("adaptive: sealed data is malformed")
	ErrOpenFailed      = errors.New("adaptive: wrong passphrase or corrupted data")
)

const (
	sealVersion = 1
	saltLength  = 16

	// Argon2id interactive profile.
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

var algoIDs = map[CipherType]byte{CipherAESGCM: 1, CipherChaCha20: 2}

// DeriveKey derives a cipher key from passphrase and salt with Argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, KeySize)
}

// Seal encrypts plaintext under a key derived from passphrase.
//
// Layout: version(1) | algorithm(1) | salt(16) | nonce | ciphertext+tag.
func Seal(passphrase, plaintext, aad []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("adaptive: salt: %w", err)
	}

	typ := Preferred()
	c, err := NewWithType(DeriveKey(passphrase, salt), typ)
	if err != nil {
		return nil, err
	}
	ct, err := c.Encrypt(plaintext, aad)
	if err != nil {
		return nil, fmt.Errorf("adaptive: encrypt: %w", err)
	}

	out := make([]byte, 0, 2+saltLength+len(ct))
	out = append(out, sealVersion, algoIDs[typ])
	out = append(out, salt...)
	return append(out, ct...), nil
}

// Open reverses Seal. aad must match the value used when sealing.
func Open(passphrase, sealed, aad []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	if len(sealed) < 2+saltLength || sealed[0] != sealVersion {
		return nil, ErrMalformed
	}

	var typ CipherType
	for t, id := range algoIDs {
		if id == sealed[1] {
			typ = t
		}
	}
	if typ == "" {
		return nil, ErrMalformed
	}

	salt := sealed[2 : 2+saltLength]
	c, err := NewWithType(DeriveKey(passphrase, salt), typ)
	if err != nil {
		return nil, err
	}
	pt, err := c.Decrypt(sealed[2+saltLength:], aad)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return pt, nil
}
