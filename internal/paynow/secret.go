package paynow

import (
	"fmt"

	"github.com/google/uuid"
)

const redactedKey = "IntegrationKey(REDACTED)"

// IntegrationKey holds the secret integration key issued by Paynow. The raw
// value never leaves this package: every textual representation prints a
// redacted placeholder so the key cannot leak through logs or debug output.
type IntegrationKey struct {
	value uuid.UUID
}

// ParseIntegrationKey builds a key from its UUID string form.
func ParseIntegrationKey(s string) (*IntegrationKey, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parse integration key: %w", err)
	}
	return &IntegrationKey{value: id}, nil
}

// IntegrationKeyFromUUID wraps an already-parsed UUID.
func IntegrationKeyFromUUID(id uuid.UUID) *IntegrationKey {
	return &IntegrationKey{value: id}
}

// expose returns the raw key material. Only the signature engine calls this.
func (k *IntegrationKey) expose() string {
	return k.value.String()
}

// Zero overwrites the backing storage with the nil UUID. The key signs
// nothing useful afterwards.
func (k *IntegrationKey) Zero() {
	k.value = uuid.Nil
}

func (k *IntegrationKey) String() string { return redactedKey }

func (k *IntegrationKey) GoString() string { return redactedKey }

func (k *IntegrationKey) MarshalText() ([]byte, error) {
	return []byte(redactedKey), nil
}
