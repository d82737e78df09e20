package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// TokenBytes is the entropy behind a master-identifier token. 16 bytes gives
// a 32-char hex token: unguessable but still QR-friendly in a URL.
const TokenBytes = 16

// RandomString returns `length` hex characters of CSPRNG output.
func RandomString(length int) string {
	bytes := make([]byte, (length+1)/2)
	_, err := rand.Read(bytes)
	if err != nil {
		panic(err) // crypto/rand failing means the host is unusable
	}
	return hex.EncodeToString(bytes)[:length]
}

// NewIdentifierToken mints an opaque public token for a master identifier.
func NewIdentifierToken() string {
	return RandomString(TokenBytes * 2)
}
