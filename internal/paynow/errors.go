package paynow

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ErrInsufficientBalance is returned when the funding source cannot cover
// the requested amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

// InvalidIDError means Paynow rejected the integration id.
type InvalidIDError struct {
	ID uint64
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid integration id %d", e.ID)
}

// InvalidAmountError means Paynow rejected the amount field.
type InvalidAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %s", e.Amount)
}

// AmountOverflowError means the amount is larger than Paynow can handle.
type AmountOverflowError struct {
	Amount decimal.Decimal
}

func (e *AmountOverflowError) Error() string {
	return fmt.Sprintf("amount %s overflows on the Paynow side", e.Amount)
}

// HashMismatchError reports an inbound payload whose hash does not match its
// signed fields. Payloads failing this check must never be trusted.
type HashMismatchError struct {
	Canonical string
}

func (e *HashMismatchError) Error() string { return "received invalid hash" }

// NotFoundError reports a trace lookup for an unknown merchant trace id. It
// is only returned after the NotFound payload's own hash has been verified.
type NotFoundError struct {
	MerchantTrace string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("merchant trace %q not found", e.MerchantTrace)
}

// ResponseError surfaces a gateway response that is neither a success payload
// nor a recognized vendor error: a non-2xx HTTP response, or a vendor error
// message outside the classified set.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("paynow error: status=%d body=%s", e.StatusCode, e.Body)
}

// UnexpectedResponseError carries a body that matched no known response shape
// together with the decode failure. The raw body is kept so callers can
// diagnose what the gateway actually sent.
type UnexpectedResponseError struct {
	Err  error
	Body string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected paynow response: %v body=%s", e.Err, e.Body)
}

func (e *UnexpectedResponseError) Unwrap() error { return e.Err }

// reinterpret retries an undecodable success body as the vendor error shape
// and maps the known error messages onto typed errors. Amount-related
// messages only classify when the failed call carried an amount; otherwise
// the original decode failure stands.
func (c *Client) reinterpret(uerr *UnexpectedResponseError, amount *decimal.Decimal) error {
	msg, err := decodeErrorResponse(uerr.Body)
	if err != nil {
		return uerr
	}
	switch msg {
	case "Invalid Id.":
		return &InvalidIDError{ID: c.id}
	case "Insufficient balance":
		return ErrInsufficientBalance
	case "Invalid amount field.":
		if amount != nil {
			return &InvalidAmountError{Amount: *amount}
		}
		return uerr
	case "Conversion overflows.":
		if amount != nil {
			return &AmountOverflowError{Amount: *amount}
		}
		return uerr
	default:
		return &ResponseError{StatusCode: http.StatusOK, Body: msg}
	}
}
