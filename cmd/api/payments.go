package main

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"paynow/internal/ledger"
	"paynow/internal/paynow"
)

// resultURL is where Paynow pushes status updates for every transaction we
// initiate.
func (app *application) resultURL() (*url.URL, error) {
	return url.Parse(app.config.apiURL + "/v1/paynow/result")
}

type createPaymentPayload struct {
	Reference      string `json:"reference" validate:"required"`
	Amount         string `json:"amount" validate:"required"`
	ReturnURL      string `json:"return_url" validate:"required,url"`
	AdditionalInfo string `json:"additional_info"`
	AuthEmail      string `json:"auth_email" validate:"omitempty,email"`
	MerchantTrace  string `json:"merchant_trace"`
	Tokenize       *bool  `json:"tokenize"`
}

// POST /v1/payments
func (app *application) createPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload createPaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	returnURL, err := url.Parse(payload.ReturnURL)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	resultURL, err := app.resultURL()
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	payment := app.paynow.Payment(payload.Reference, amount, returnURL, resultURL)
	if payload.AdditionalInfo != "" {
		payment.AdditionalInfo(payload.AdditionalInfo)
	}
	if payload.AuthEmail != "" {
		payment.AuthEmail(payload.AuthEmail)
	}
	if payload.MerchantTrace != "" {
		payment.MerchantTrace(payload.MerchantTrace)
	}
	if payload.Tokenize != nil {
		payment.Tokenize(*payload.Tokenize)
	}

	res, err := app.paynow.Submit(r.Context(), payment)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	if err := app.ledger.Create(r.Context(), &ledger.Transaction{
		Reference: payload.Reference,
		Amount:    amount.String(),
		Status:    string(paynow.StatusCreated),
		PollURL:   res.PollURL.String(),
	}); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("payment initiated", "reference", payload.Reference)

	data := map[string]string{
		"reference":   payload.Reference,
		"browser_url": res.BrowserURL.String(),
		"poll_url":    res.PollURL.String(),
	}
	if err := app.jsonResponse(w, http.StatusCreated, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

type createExpressPaymentPayload struct {
	Reference      string `json:"reference" validate:"required"`
	Amount         string `json:"amount" validate:"required"`
	AuthEmail      string `json:"auth_email" validate:"required,email"`
	MerchantTrace  string `json:"merchant_trace" validate:"required"`
	AdditionalInfo string `json:"additional_info"`
	Tokenize       *bool  `json:"tokenize"`

	Method string `json:"method" validate:"required,oneof=ecocash onemoney vmc"`
	Phone  string `json:"phone" validate:"required_unless=Method vmc"`

	CardNumber      string `json:"card_number" validate:"required_if=Method vmc"`
	CardName        string `json:"card_name" validate:"required_if=Method vmc"`
	CardCVV         string `json:"card_cvv" validate:"required_if=Method vmc"`
	CardExpiry      string `json:"card_expiry" validate:"required_if=Method vmc"`
	BillingLine1    string `json:"billing_line1" validate:"required_if=Method vmc"`
	BillingLine2    string `json:"billing_line2"`
	BillingCity     string `json:"billing_city" validate:"required_if=Method vmc"`
	BillingProvince string `json:"billing_province"`
	BillingCountry  string `json:"billing_country" validate:"required_if=Method vmc"`
	CardToken       string `json:"card_token"`
}

func (p *createExpressPaymentPayload) method() paynow.Method {
	switch p.Method {
	case "ecocash":
		return paynow.Ecocash{Phone: p.Phone}
	case "onemoney":
		return paynow.OneMoney{Phone: p.Phone}
	default:
		return paynow.CardPayment{
			Card: paynow.Card{
				Number: p.CardNumber,
				Name:   p.CardName,
				CVV:    p.CardCVV,
				Expiry: p.CardExpiry,
			},
			Address: paynow.Address{
				Line1:    p.BillingLine1,
				Line2:    p.BillingLine2,
				City:     p.BillingCity,
				Province: p.BillingProvince,
				Country:  p.BillingCountry,
			},
			Token: p.CardToken,
		}
	}
}

// POST /v1/payments/express
func (app *application) createExpressPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload createExpressPaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	resultURL, err := app.resultURL()
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	payment := app.paynow.ExpressPayment(payload.method(), payload.Reference, amount,
		resultURL, payload.AuthEmail, payload.MerchantTrace)
	if payload.AdditionalInfo != "" {
		payment.AdditionalInfo(payload.AdditionalInfo)
	}
	if payload.Tokenize != nil {
		payment.Tokenize(*payload.Tokenize)
	}

	res, err := app.paynow.SubmitExpress(r.Context(), payment)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	if err := app.ledger.Create(r.Context(), &ledger.Transaction{
		Reference: payload.Reference,
		Amount:    amount.String(),
		Status:    string(paynow.StatusSent),
		PollURL:   res.PollURL.String(),
	}); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("express payment initiated",
		"reference", payload.Reference, "method", payload.Method)

	data := map[string]any{
		"reference":        payload.Reference,
		"instructions":     res.Instructions,
		"paynow_reference": res.PaynowReference,
		"poll_url":         res.PollURL.String(),
	}
	if err := app.jsonResponse(w, http.StatusCreated, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

type updateResponse struct {
	Reference       string         `json:"reference"`
	PaynowReference uint64         `json:"paynow_reference"`
	Amount          string         `json:"amount"`
	Status          string         `json:"status"`
	PollURL         string         `json:"poll_url"`
	Token           *tokenResponse `json:"token,omitempty"`
}

type tokenResponse struct {
	Value  string `json:"value"`
	Expiry string `json:"expiry"`
}

func newUpdateResponse(u *paynow.Update) updateResponse {
	out := updateResponse{
		Reference:       u.Reference,
		PaynowReference: u.PaynowReference,
		Amount:          u.Amount.String(),
		Status:          string(u.Status),
		PollURL:         u.PollURL.String(),
	}
	if u.Token != nil {
		out.Token = &tokenResponse{
			Value:  u.Token.Value,
			Expiry: u.Token.Expiry.Format("2006-01-02"),
		}
	}
	return out
}

// POST /v1/payments/poll
func (app *application) pollPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PollURL string `json:"poll_url" validate:"required,url"`
	}
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	pollURL, err := url.Parse(payload.PollURL)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	update, err := app.paynow.PollStatus(r.Context(), pollURL)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}
	if err := app.ledger.RecordUpdate(r.Context(), update); err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, newUpdateResponse(update)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// POST /v1/payments/trace
func (app *application) tracePaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		MerchantTrace string `json:"merchant_trace" validate:"required"`
	}
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	update, err := app.paynow.TracePayment(r.Context(), payload.MerchantTrace)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}
	if err := app.ledger.RecordUpdate(r.Context(), update); err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, newUpdateResponse(update)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GET /v1/payments/{reference}
func (app *application) getPaymentHandler(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	txn, err := app.ledger.GetByReference(r.Context(), reference)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if txn == nil {
		app.notFoundResponse(w, r)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, txn); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GET /v1/payments?limit=20
func (app *application) listPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			app.badRequestResponse(w, r, errInvalidLimit)
			return
		}
		limit = parsed
	}

	txns, err := app.ledger.List(r.Context(), limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, txns); err != nil {
		app.internalServerError(w, r, err)
	}
}
