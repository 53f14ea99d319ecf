package paynow

import (
	"net/url"

	"github.com/shopspring/decimal"
)

// Method selects the funding instrument for an express payment. Name doubles
// as the wire method field and the canonical prefix, so the two can never
// drift apart.
type Method interface {
	Name() string
	args() methodArgs
	formValues(v url.Values)
}

// Ecocash pays from an EcoCash mobile-money wallet.
type Ecocash struct {
	Phone string
}

func (Ecocash) Name() string { return "ecocash" }

func (m Ecocash) args() methodArgs { return methodArgs{phone: m.Phone} }

func (m Ecocash) formValues(v url.Values) { v.Set("phone", m.Phone) }

// OneMoney pays from a OneMoney mobile-money wallet.
type OneMoney struct {
	Phone string
}

func (OneMoney) Name() string { return "onemoney" }

func (m OneMoney) args() methodArgs { return methodArgs{phone: m.Phone} }

func (m OneMoney) formValues(v url.Values) { v.Set("phone", m.Phone) }

// CardPayment pays with a Visa or Mastercard instrument. Card fields are
// opaque to this layer; the gateway validates them. Token may be empty for a
// first-time card, or carry a token from an earlier tokenized payment.
type CardPayment struct {
	Card    Card
	Address Address
	Token   string
}

func (CardPayment) Name() string { return "vmc" }

func (m CardPayment) args() methodArgs {
	return methodArgs{
		number:   m.Card.Number,
		name:     m.Card.Name,
		cvv:      m.Card.CVV,
		expiry:   m.Card.Expiry,
		line1:    m.Address.Line1,
		line2:    m.Address.Line2,
		city:     m.Address.City,
		province: m.Address.Province,
		country:  m.Address.Country,
		token:    m.Token,
	}
}

func (m CardPayment) formValues(v url.Values) {
	v.Set("cardnumber", m.Card.Number)
	v.Set("cardname", m.Card.Name)
	v.Set("cardcvv", m.Card.CVV)
	v.Set("cardexpiry", m.Card.Expiry)
	v.Set("billingline1", m.Address.Line1)
	if m.Address.Line2 != "" {
		v.Set("billingline2", m.Address.Line2)
	}
	v.Set("billingcity", m.Address.City)
	if m.Address.Province != "" {
		v.Set("billingprovince", m.Address.Province)
	}
	v.Set("billingcountry", m.Address.Country)
	v.Set("token", m.Token)
}

// Card holds the card details as opaque strings.
type Card struct {
	Number string
	Name   string
	CVV    string
	Expiry string
}

// Address is the billing address for card payments. Country is an opaque
// validated country name; this layer never checks it.
type Address struct {
	Line1    string
	Line2    string
	City     string
	Province string
	Country  string
}

// methodArgs is the fixed 11-slot canonical layout shared by every method.
// Slots a method does not use stay empty but still occupy their position.
type methodArgs struct {
	phone    string
	number   string
	name     string
	cvv      string
	expiry   string
	line1    string
	line2    string
	city     string
	province string
	country  string
	token    string
}

func (a methodArgs) canonical() string {
	return a.phone + a.number + a.name + a.cvv + a.expiry +
		a.line1 + a.line2 + a.city + a.province + a.country + a.token
}

// ExpressPayment is a server-to-server payment with no browser redirect: the
// customer approves it on their handset (or the card is charged directly).
// Auth email and merchant trace are required for express payments.
type ExpressPayment struct {
	payment Payment
	method  Method
}

// ExpressPayment starts building an express payment.
func (c *Client) ExpressPayment(method Method, reference string, amount decimal.Decimal, resultURL *url.URL, authEmail, merchantTrace string) *ExpressPayment {
	return &ExpressPayment{
		payment: Payment{
			id:            c.id,
			reference:     reference,
			amount:        amount,
			resultURL:     resultURL,
			authEmail:     authEmail,
			merchantTrace: merchantTrace,
		},
		method: method,
	}
}

// AdditionalInfo attaches free-text information shown on the Paynow side.
func (p *ExpressPayment) AdditionalInfo(info string) *ExpressPayment {
	p.payment.additionalInfo = info
	return p
}

// Tokenize requests a reusable payment-instrument token in the status
// update.
func (p *ExpressPayment) Tokenize(tokenize bool) *ExpressPayment {
	p.payment.tokenize = &tokenize
	return p
}

func (p *ExpressPayment) canonical() string {
	return p.method.Name() + p.payment.canonical() + p.method.args().canonical()
}

func (p *ExpressPayment) formValues() url.Values {
	v := p.payment.formValues()
	v.Set("method", p.method.Name())
	p.method.formValues(v)
	return v
}
