package paynow

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIntegrationKeyRejectsGarbage(t *testing.T) {
	_, err := ParseIntegrationKey("not-a-uuid")
	require.Error(t, err)
}

func TestIntegrationKeyNeverPrintsItself(t *testing.T) {
	key, err := ParseIntegrationKey(testKeyString)
	require.NoError(t, err)

	require.Equal(t, redactedKey, key.String())
	require.Equal(t, redactedKey, fmt.Sprintf("%v", key))
	require.Equal(t, redactedKey, fmt.Sprintf("%s", key))
	require.Equal(t, redactedKey, fmt.Sprintf("%#v", key))
	require.NotContains(t, fmt.Sprintf("%+v", key), testKeyString)

	data, err := json.Marshal(key)
	require.NoError(t, err)
	require.NotContains(t, string(data), testKeyString)
}

func TestIntegrationKeyZero(t *testing.T) {
	key, err := ParseIntegrationKey(testKeyString)
	require.NoError(t, err)
	require.Equal(t, testKeyString, key.expose())

	key.Zero()
	require.Equal(t, "00000000-0000-0000-0000-000000000000", key.expose())
}
