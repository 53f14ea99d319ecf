package paynow

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func mustDecimal(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	return d
}

func TestPaymentCanonicalFieldOrder(t *testing.T) {
	c := testClient(t)
	p := c.Payment("REF-1", mustDecimal(t, "314.1874"),
		mustURL(t, "https://example.net/return"), mustURL(t, "https://example.net/result")).
		AdditionalInfo("two tickets").
		AuthEmail("billing@example.net").
		MerchantTrace("trace-42").
		Tokenize(true)

	want := "12345" + "REF-1" + "314.1874" + "two tickets" +
		"https://example.net/return" + "https://example.net/result" +
		"billing@example.net" + "true" + "trace-42" + "Message"
	require.Equal(t, want, p.canonical())
}

func TestPaymentCanonicalOmitsUnsetOptionals(t *testing.T) {
	c := testClient(t)
	p := c.Payment("REF-1", mustDecimal(t, "10.5"),
		mustURL(t, "https://x/back"), mustURL(t, "https://x/"))

	want := "12345" + "REF-1" + "10.5" + "https://x/back" + "https://x/" + "Message"
	require.Equal(t, want, p.canonical())
}

func TestPaymentCanonicalIsDeterministic(t *testing.T) {
	c := testClient(t)
	build := func() *Payment {
		return c.Payment("REF-9", mustDecimal(t, "1.23"),
			mustURL(t, "https://x/back"), mustURL(t, "https://x/")).
			AuthEmail("a@b.c").Tokenize(false)
	}
	require.Equal(t, build().canonical(), build().canonical())
}

func TestPaymentBuilderChains(t *testing.T) {
	c := testClient(t)
	p := c.Payment("REF-1", mustDecimal(t, "5"),
		mustURL(t, "https://x/back"), mustURL(t, "https://x/"))
	require.Same(t, p, p.AdditionalInfo("x").AuthEmail("y").MerchantTrace("z").Tokenize(true))
}

func TestPaymentFormValues(t *testing.T) {
	c := testClient(t)
	p := c.Payment("REF-1", mustDecimal(t, "314.1874"),
		mustURL(t, "https://x/back"), mustURL(t, "https://x/")).
		Tokenize(false)

	form := p.formValues()
	require.Equal(t, "12345", form.Get("id"))
	require.Equal(t, "REF-1", form.Get("reference"))
	require.Equal(t, "314.1874", form.Get("amount"))
	require.Equal(t, "https://x/back", form.Get("returnurl"))
	require.Equal(t, "https://x/", form.Get("resulturl"))
	require.Equal(t, "false", form.Get("tokenize"))
	require.Equal(t, "Message", form.Get("status"))
	require.False(t, form.Has("additionalinfo"))
	require.False(t, form.Has("authemail"))
	require.False(t, form.Has("merchanttrace"))
	require.False(t, form.Has("hash"))
}
