package paynow

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Payment is a standard payment initiation. The customer is redirected to
// Paynow in a browser to complete it. Optional fields are set through the
// fluent setters; none of the fields are validated locally — the gateway
// rejects bad input through the error channel.
type Payment struct {
	id             uint64
	reference      string
	amount         decimal.Decimal
	additionalInfo string
	returnURL      *url.URL
	resultURL      *url.URL
	authEmail      string
	tokenize       *bool
	merchantTrace  string
}

// Payment starts building a standard payment. reference is the merchant's
// own transaction reference; Paynow redirects the customer back to returnURL
// and posts status updates to resultURL.
func (c *Client) Payment(reference string, amount decimal.Decimal, returnURL, resultURL *url.URL) *Payment {
	return &Payment{
		id:        c.id,
		reference: reference,
		amount:    amount,
		returnURL: returnURL,
		resultURL: resultURL,
	}
}

// AdditionalInfo attaches free-text information shown on the Paynow side.
func (p *Payment) AdditionalInfo(info string) *Payment {
	p.additionalInfo = info
	return p
}

// AuthEmail sets the email address of the paying customer.
func (p *Payment) AuthEmail(email string) *Payment {
	p.authEmail = email
	return p
}

// MerchantTrace sets a merchant-side id that can later be used to trace the
// transaction without a poll URL.
func (p *Payment) MerchantTrace(id string) *Payment {
	p.merchantTrace = id
	return p
}

// Tokenize requests a reusable payment-instrument token in the status
// update. Requires tokenization to be enabled on the integration.
func (p *Payment) Tokenize(tokenize bool) *Payment {
	p.tokenize = &tokenize
	return p
}

// canonical concatenates the signed fields in the gateway's fixed order,
// with no separators and the empty string for absent optionals. The server
// recomputes the same concatenation to verify the hash, so any deviation
// here breaks every signature.
func (p *Payment) canonical() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(p.id, 10))
	b.WriteString(p.reference)
	b.WriteString(p.amount.String())
	b.WriteString(p.additionalInfo)
	if p.returnURL != nil {
		b.WriteString(p.returnURL.String())
	}
	b.WriteString(p.resultURL.String())
	b.WriteString(p.authEmail)
	if p.tokenize != nil {
		b.WriteString(strconv.FormatBool(*p.tokenize))
	}
	b.WriteString(p.merchantTrace)
	b.WriteString(statusMessage)
	return b.String()
}

// formValues renders the wire fields, omitting unset optionals.
func (p *Payment) formValues() url.Values {
	v := url.Values{}
	v.Set("id", strconv.FormatUint(p.id, 10))
	v.Set("reference", p.reference)
	v.Set("amount", p.amount.String())
	if p.additionalInfo != "" {
		v.Set("additionalinfo", p.additionalInfo)
	}
	if p.returnURL != nil {
		v.Set("returnurl", p.returnURL.String())
	}
	v.Set("resulturl", p.resultURL.String())
	if p.authEmail != "" {
		v.Set("authemail", p.authEmail)
	}
	if p.tokenize != nil {
		v.Set("tokenize", strconv.FormatBool(*p.tokenize))
	}
	if p.merchantTrace != "" {
		v.Set("merchanttrace", p.merchantTrace)
	}
	v.Set("status", statusMessage)
	return v
}
