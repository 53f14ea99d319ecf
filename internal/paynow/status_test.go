package paynow

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{
		"Created", "Sent", "Cancelled", "Awaiting Delivery",
		"Delivered", "Paid", "Disputed", "Refunded",
	} {
		s, err := ParseStatus(raw)
		require.NoError(t, err)
		require.Equal(t, Status(raw), s)
	}

	for _, raw := range []string{"", "paid", "Ok", "Completed", "AwaitingDelivery"} {
		_, err := ParseStatus(raw)
		require.Error(t, err, raw)
	}
}

func updateValues() url.Values {
	v := url.Values{}
	v.Set("reference", "REF-1")
	v.Set("paynowreference", "987654")
	v.Set("amount", "314.1874")
	v.Set("status", "Paid")
	v.Set("pollurl", "https://poll/")
	v.Set("hash", "ABCD")
	return v
}

func TestDecodeUpdate(t *testing.T) {
	u, err := decodeUpdate(updateValues())
	require.NoError(t, err)
	require.Equal(t, "REF-1", u.Reference)
	require.Equal(t, uint64(987654), u.PaynowReference)
	require.Equal(t, "314.1874", u.Amount.String())
	require.Equal(t, StatusPaid, u.Status)
	require.Equal(t, "https://poll/", u.PollURL.String())
	require.Nil(t, u.Token)
	require.Equal(t, "ABCD", u.hash)
}

func TestDecodeUpdateWithToken(t *testing.T) {
	v := updateValues()
	v.Set("token", "tok-1")
	v.Set("tokenexpiry", "05Jan2024")

	u, err := decodeUpdate(v)
	require.NoError(t, err)
	require.NotNil(t, u.Token)
	require.Equal(t, "tok-1", u.Token.Value)
	require.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), u.Token.Expiry)

	require.Equal(t,
		"REF-1"+"987654"+"314.1874"+"Paid"+"https://poll/"+"tok-1"+"05Jan2024",
		u.canonical())
}

func TestDecodeUpdateRejectsHalfToken(t *testing.T) {
	v := updateValues()
	v.Set("token", "tok-1")
	_, err := decodeUpdate(v)
	require.Error(t, err)

	v = updateValues()
	v.Set("tokenexpiry", "05Jan2024")
	_, err = decodeUpdate(v)
	require.Error(t, err)
}

func TestDecodeUpdateRejectsUnknownStatus(t *testing.T) {
	v := updateValues()
	v.Set("status", "Completed")
	_, err := decodeUpdate(v)
	require.Error(t, err)
}

func TestDecodeUpdateCanonicalKeepsWireAmountText(t *testing.T) {
	// the gateway hashed the exact text it sent; trailing zeros must survive
	v := updateValues()
	v.Set("amount", "10.00")
	u, err := decodeUpdate(v)
	require.NoError(t, err)
	require.Contains(t, u.canonical(), "10.00")
}

func TestDecodeUpdateMissingFields(t *testing.T) {
	for _, field := range []string{"reference", "paynowreference", "amount", "status", "pollurl", "hash"} {
		v := updateValues()
		v.Del(field)
		_, err := decodeUpdate(v)
		require.Error(t, err, field)
	}
}
