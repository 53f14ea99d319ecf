package paynow

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// sign computes the integrity hash over a canonical field string: SHA-512 of
// the canonical string with the raw integration key appended, rendered as
// uppercase hex. Paynow's server performs the identical computation, so the
// canonical string must match the wire fields byte for byte.
func (c *Client) sign(canonical string) string {
	sum := sha512.Sum512([]byte(canonical + c.key.expose()))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// verifyHash recomputes the hash for canonical and compares it to the hash
// received on the wire in constant time.
func (c *Client) verifyHash(got, canonical string) error {
	want := c.sign(canonical)
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return &HashMismatchError{Canonical: canonical}
	}
	return nil
}
