package paynow

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status of a transaction as reported by Paynow.
type Status string

const (
	// StatusCreated: created in Paynow but not yet paid by the customer.
	StatusCreated Status = "Created"
	// StatusSent: the customer has been referred to an upstream system but
	// has not yet made payment.
	StatusSent Status = "Sent"
	// StatusCancelled: cancelled in Paynow; the transaction may not be
	// resumed and needs to be recreated.
	StatusCancelled Status = "Cancelled"
	// StatusAwaitingDelivery: paid, sitting in suspense waiting on the
	// merchant to confirm delivery of the goods.
	StatusAwaitingDelivery Status = "Awaiting Delivery"
	// StatusDelivered: delivery acknowledged, funds still in suspense until
	// the confirmation window closes.
	StatusDelivered Status = "Delivered"
	// StatusPaid: paid successfully; funds arrive at next settlement.
	StatusPaid Status = "Paid"
	// StatusDisputed: disputed by the customer, funds held in suspense.
	StatusDisputed Status = "Disputed"
	// StatusRefunded: funds were refunded back to the customer.
	StatusRefunded Status = "Refunded"
)

// ParseStatus maps a wire literal onto a Status, rejecting anything outside
// the fixed set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusCreated, StatusSent, StatusCancelled, StatusAwaitingDelivery,
		StatusDelivered, StatusPaid, StatusDisputed, StatusRefunded:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown transaction status %q", s)
}

// tokenExpiryLayout renders dates as DDMonYYYY, e.g. 05Jan2024.
const tokenExpiryLayout = "02Jan2006"

// Token is a reusable payment-instrument token, returned only when tokenize
// was requested and the integration is permitted to tokenize. Tokens are
// valid for up to six months, bounded by the instrument's own expiry.
type Token struct {
	Value  string
	Expiry time.Time
}

// Update is a transaction status message, either pushed by Paynow to the
// merchant's result URL or fetched from a poll URL. Updates are handed to
// callers only after their hash has been verified.
type Update struct {
	Reference       string
	PaynowReference uint64
	Amount          decimal.Decimal
	Status          Status
	PollURL         *url.URL
	Token           *Token

	// amountText keeps the exact wire rendering of the amount; the hash was
	// computed over that text, not over any local re-rendering.
	amountText string
	hash       string
}

func (u *Update) canonical() string {
	var b strings.Builder
	b.WriteString(u.Reference)
	b.WriteString(strconv.FormatUint(u.PaynowReference, 10))
	b.WriteString(u.amountText)
	b.WriteString(string(u.Status))
	b.WriteString(u.PollURL.String())
	if u.Token != nil {
		b.WriteString(u.Token.Value)
		b.WriteString(u.Token.Expiry.Format(tokenExpiryLayout))
	}
	return b.String()
}

func decodeUpdateBody(body string) (*Update, error) {
	vals, err := url.ParseQuery(body)
	if err != nil {
		return nil, err
	}
	return decodeUpdate(vals)
}

func decodeUpdate(vals url.Values) (*Update, error) {
	reference, err := requireField(vals, "reference")
	if err != nil {
		return nil, err
	}
	rawRef, err := requireField(vals, "paynowreference")
	if err != nil {
		return nil, err
	}
	paynowRef, err := strconv.ParseUint(rawRef, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("field \"paynowreference\": %w", err)
	}
	rawAmount, err := requireField(vals, "amount")
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("field \"amount\": %w", err)
	}
	rawStatus, err := requireField(vals, "status")
	if err != nil {
		return nil, err
	}
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	poll, err := requireURL(vals, "pollurl")
	if err != nil {
		return nil, err
	}
	hash, err := requireField(vals, "hash")
	if err != nil {
		return nil, err
	}

	// token and tokenexpiry travel together or not at all
	var token *Token
	switch {
	case vals.Has("token") && vals.Has("tokenexpiry"):
		expiry, err := time.Parse(tokenExpiryLayout, vals.Get("tokenexpiry"))
		if err != nil {
			return nil, fmt.Errorf("field \"tokenexpiry\": %w", err)
		}
		token = &Token{Value: vals.Get("token"), Expiry: expiry}
	case vals.Has("token") || vals.Has("tokenexpiry"):
		return nil, fmt.Errorf("token and tokenexpiry must both be present")
	}

	return &Update{
		Reference:       reference,
		PaynowReference: paynowRef,
		Amount:          amount,
		Status:          status,
		PollURL:         poll,
		Token:           token,
		amountText:      rawAmount,
		hash:            hash,
	}, nil
}
