// Package token generates and checks secret identifiers. An identifier is
// 16 bytes of crypto/rand output in unpadded URL-safe base64, so every valid
// identifier carries 128 bits of entropy and has the same 22-character
// canonical form.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

const idLength = 16

// EncodedLength is the canonical length of an identifier string.
const EncodedLength = 22 // base64url of 16 bytes, no padding

func NewID() string {
	bytes := make([]byte, idLength)
	if _, err := rand.Read(bytes); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}

// Valid reports whether id is in canonical form. The routing layer validates
// identifiers before calling in; this is the defensive re-check the storage
// core applies before touching a slot.
func Valid(id string) bool {
	if len(id) != EncodedLength {
		return false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(id)
	return err == nil && len(decoded) == idLength
}
