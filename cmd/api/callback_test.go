package main

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paynow/internal/ledger"
	"paynow/internal/paynow"
)

const testKey = "3e9fed89-60e1-4ce5-ab6e-6b1eb2d4f977"

type fakeLedger struct {
	created []*ledger.Transaction
	updates []*paynow.Update
	err     error
}

func (f *fakeLedger) Create(ctx context.Context, t *ledger.Transaction) error {
	f.created = append(f.created, t)
	return f.err
}

func (f *fakeLedger) RecordUpdate(ctx context.Context, u *paynow.Update) error {
	f.updates = append(f.updates, u)
	return f.err
}

func (f *fakeLedger) GetByReference(ctx context.Context, reference string) (*ledger.Transaction, error) {
	for _, t := range f.created {
		if t.Reference == reference {
			return t, f.err
		}
	}
	return nil, f.err
}

func (f *fakeLedger) List(ctx context.Context, limit int) ([]*ledger.Transaction, error) {
	return f.created, f.err
}

func newTestApp(t *testing.T) (*application, *fakeLedger) {
	t.Helper()
	key, err := paynow.ParseIntegrationKey(testKey)
	require.NoError(t, err)

	store := &fakeLedger{}
	app := &application{
		config: config{env: "test", apiURL: "https://merchant.example.net"},
		logger: zap.NewNop().Sugar(),
		paynow: paynow.New(12345, key),
		ledger: store,
	}
	return app, store
}

// signedCallbackForm builds the form Paynow would push to the result URL.
func signedCallbackForm(key string) url.Values {
	v := url.Values{}
	v.Set("reference", "REF-1")
	v.Set("paynowreference", "987654")
	v.Set("amount", "314.1874")
	v.Set("status", "Paid")
	v.Set("pollurl", "https://poll/")

	canonical := "REF-1" + "987654" + "314.1874" + "Paid" + "https://poll/"
	sum := sha512.Sum512([]byte(canonical + key))
	v.Set("hash", strings.ToUpper(hex.EncodeToString(sum[:])))
	return v
}

func postCallback(app *application, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/paynow/result",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.paynowResultHandler(rec, req)
	return rec
}

func TestPaynowResultHandlerStoresVerifiedUpdate(t *testing.T) {
	app, store := newTestApp(t)

	rec := postCallback(app, signedCallbackForm(testKey))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.updates, 1)
	require.Equal(t, "REF-1", store.updates[0].Reference)
	require.Equal(t, paynow.StatusPaid, store.updates[0].Status)
}

func TestPaynowResultHandlerRejectsForgedUpdate(t *testing.T) {
	app, store := newTestApp(t)

	form := signedCallbackForm(testKey)
	form.Set("amount", "0.01") // tampered after signing
	rec := postCallback(app, form)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, store.updates)
}

func TestPaynowResultHandlerRejectsWrongKeySignature(t *testing.T) {
	app, store := newTestApp(t)

	rec := postCallback(app, signedCallbackForm("00000000-0000-0000-0000-00000000beef"))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, store.updates)
}

func TestPaynowResultHandlerRejectsMalformedPayload(t *testing.T) {
	app, store := newTestApp(t)

	form := url.Values{}
	form.Set("reference", "REF-1")
	rec := postCallback(app, form)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, store.updates)
}

func TestGetPaymentHandler(t *testing.T) {
	app, store := newTestApp(t)
	store.created = append(store.created, &ledger.Transaction{
		Reference: "REF-1", Amount: "314.1874", Status: "Paid",
	})

	mux := app.mount()

	req := httptest.NewRequest(http.MethodGet, "/v1/payments/REF-1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "314.1874")

	req = httptest.NewRequest(http.MethodGet, "/v1/payments/REF-2", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPaymentsHandlerValidatesLimit(t *testing.T) {
	app, _ := newTestApp(t)
	mux := app.mount()

	req := httptest.NewRequest(http.MethodGet, "/v1/payments?limit=0", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
