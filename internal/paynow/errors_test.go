package paynow

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func vendorErrorBody(msg string) string {
	v := url.Values{}
	v.Set("status", "Error")
	v.Set("error", msg)
	return v.Encode()
}

func TestReinterpretClassifiesVendorErrors(t *testing.T) {
	c := testClient(t)
	amount := decimal.RequireFromString("42.50")

	err := c.reinterpret(&UnexpectedResponseError{Body: vendorErrorBody("Invalid Id.")}, &amount)
	var invalidID *InvalidIDError
	require.ErrorAs(t, err, &invalidID)
	require.Equal(t, uint64(12345), invalidID.ID)

	err = c.reinterpret(&UnexpectedResponseError{Body: vendorErrorBody("Invalid amount field.")}, &amount)
	var invalidAmount *InvalidAmountError
	require.ErrorAs(t, err, &invalidAmount)
	require.True(t, invalidAmount.Amount.Equal(amount))

	err = c.reinterpret(&UnexpectedResponseError{Body: vendorErrorBody("Conversion overflows.")}, &amount)
	var overflow *AmountOverflowError
	require.ErrorAs(t, err, &overflow)

	err = c.reinterpret(&UnexpectedResponseError{Body: vendorErrorBody("Insufficient balance")}, &amount)
	require.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestReinterpretOpaqueVendorError(t *testing.T) {
	c := testClient(t)
	err := c.reinterpret(&UnexpectedResponseError{Body: vendorErrorBody("Foo bar")}, nil)
	var res *ResponseError
	require.ErrorAs(t, err, &res)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Foo bar", res.Body)
}

func TestReinterpretAmountErrorsNeedAnAmount(t *testing.T) {
	// poll and trace calls carry no amount, so amount-shaped vendor errors
	// keep the original decode failure
	c := testClient(t)
	uerr := &UnexpectedResponseError{Body: vendorErrorBody("Invalid amount field.")}
	require.Equal(t, error(uerr), c.reinterpret(uerr, nil))

	uerr = &UnexpectedResponseError{Body: vendorErrorBody("Conversion overflows.")}
	require.Equal(t, error(uerr), c.reinterpret(uerr, nil))
}

func TestReinterpretKeepsUnrecognizedShapes(t *testing.T) {
	c := testClient(t)
	uerr := &UnexpectedResponseError{Body: "status=Ok&weird=1"}
	require.Equal(t, error(uerr), c.reinterpret(uerr, nil))
}

func TestUnexpectedResponseErrorUnwrap(t *testing.T) {
	inner := &ResponseError{StatusCode: 502, Body: "bad gateway"}
	err := &UnexpectedResponseError{Err: inner, Body: "raw"}
	var res *ResponseError
	require.ErrorAs(t, err, &res)
	require.Contains(t, err.Error(), "raw")
}
