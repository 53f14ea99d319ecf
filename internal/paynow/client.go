// Package paynow integrates with Paynow Zimbabwe's HTTP API.
//
// Requests are form-encoded and signed with the merchant's integration key;
// responses and status updates carry a hash over their fields that is
// verified before any payload reaches the caller. An integration id and key
// are issued by Paynow when an integration is created.
package paynow

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://www.paynow.co.zw/interface/"

// Client talks to the Paynow gateway. All fields are read-only after
// construction, so a single client is safe to share across any number of
// concurrent submissions. The client never retries; transient failures
// surface immediately and retry policy belongs to the caller.
type Client struct {
	id     uint64
	key    *IntegrationKey
	http   *http.Client
	base   *url.URL
	logger *zap.SugaredLogger
}

type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL points the client at a different gateway base, e.g. a test
// server. The URL should end with a trailing slash.
func WithBaseURL(base *url.URL) Option {
	return func(c *Client) { c.base = base }
}

// WithLogger attaches a logger. The client logs at debug level only and
// never logs key material or hashes.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the given integration id and key.
func New(id uint64, key *IntegrationKey, opts ...Option) *Client {
	base, err := url.Parse(defaultBaseURL)
	if err != nil {
		// the base URL is a fixed constant; failing to parse it is a bug
		panic(err)
	}
	c := &Client{
		id:     id,
		key:    key,
		http:   http.DefaultClient,
		base:   base,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the integration id the client was built with.
func (c *Client) ID() uint64 { return c.id }

// Submit signs and sends a standard payment, verifying the hash on the
// gateway's response before returning it.
func (c *Client) Submit(ctx context.Context, p *Payment) (*Response, error) {
	form := p.formValues()
	form.Set("hash", c.sign(p.canonical()))
	c.logger.Debugw("submitting payment", "reference", p.reference)
	body, err := c.post(ctx, c.base.JoinPath("initiatetransaction"), form)
	if err != nil {
		return nil, err
	}
	res, err := decodeResponse(body)
	if err != nil {
		return nil, c.reinterpret(&UnexpectedResponseError{Err: err, Body: body}, &p.amount)
	}
	if err := c.verifyHash(res.hash, res.canonical()); err != nil {
		return nil, err
	}
	return res, nil
}

// SubmitExpress signs and sends an express payment, verifying the hash on
// the gateway's response before returning it.
func (c *Client) SubmitExpress(ctx context.Context, p *ExpressPayment) (*ExpressResponse, error) {
	form := p.formValues()
	form.Set("hash", c.sign(p.canonical()))
	c.logger.Debugw("submitting express payment",
		"reference", p.payment.reference, "method", p.method.Name())
	body, err := c.post(ctx, c.base.JoinPath("remotetransaction"), form)
	if err != nil {
		return nil, err
	}
	res, err := decodeExpressResponse(body)
	if err != nil {
		return nil, c.reinterpret(&UnexpectedResponseError{Err: err, Body: body}, &p.payment.amount)
	}
	if err := c.verifyHash(res.hash, res.canonical()); err != nil {
		return nil, err
	}
	return res, nil
}

// PollStatus fetches the current transaction status from a poll URL returned
// by a previous call. The update's hash is verified before it is returned.
func (c *Client) PollStatus(ctx context.Context, pollURL *url.URL) (*Update, error) {
	c.logger.Debugw("polling status", "url", pollURL.String())
	body, err := c.post(ctx, pollURL, nil)
	if err != nil {
		return nil, err
	}
	u, err := decodeUpdateBody(body)
	if err != nil {
		return nil, c.reinterpret(&UnexpectedResponseError{Err: err, Body: body}, nil)
	}
	if err := c.verifyHash(u.hash, u.canonical()); err != nil {
		return nil, err
	}
	return u, nil
}

// TracePayment looks up a transaction by the merchant trace id supplied at
// initiation. The outbound lookup is itself signed; a miss comes back as a
// NotFound payload whose own hash must verify before the miss is trusted.
func (c *Client) TracePayment(ctx context.Context, merchantTrace string) (*Update, error) {
	id := strconv.FormatUint(c.id, 10)
	form := url.Values{}
	form.Set("id", id)
	form.Set("merchanttrace", merchantTrace)
	form.Set("status", statusMessage)
	form.Set("hash", c.sign(id+merchantTrace+statusMessage))
	c.logger.Debugw("tracing payment", "merchanttrace", merchantTrace)
	body, err := c.post(ctx, c.base.JoinPath("trace"), form)
	if err != nil {
		return nil, err
	}
	u, err := decodeUpdateBody(body)
	if err != nil {
		if hash, nfErr := decodeNotFound(body); nfErr == nil {
			if err := c.verifyHash(hash, statusNotFound); err != nil {
				return nil, err
			}
			return nil, &NotFoundError{MerchantTrace: merchantTrace}
		}
		return nil, c.reinterpret(&UnexpectedResponseError{Err: err, Body: body}, nil)
	}
	if err := c.verifyHash(u.hash, u.canonical()); err != nil {
		return nil, err
	}
	return u, nil
}

// VerifyCallback decodes and authenticates a status update pushed to the
// merchant's result URL. No network call is made; a payload with a bad hash
// is never exposed.
func (c *Client) VerifyCallback(vals url.Values) (*Update, error) {
	u, err := decodeUpdate(vals)
	if err != nil {
		return nil, &UnexpectedResponseError{Err: err, Body: vals.Encode()}
	}
	if err := c.verifyHash(u.hash, u.canonical()); err != nil {
		return nil, err
	}
	return u, nil
}

// post sends a form-encoded POST, or an empty POST with a zero
// Content-Length when form is nil (poll URLs expect an empty body). Non-2xx
// responses surface as a ResponseError carrying the raw status and body.
func (c *Client) post(ctx context.Context, endpoint *url.URL, form url.Values) (string, error) {
	var body io.Reader = http.NoBody
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return "", fmt.Errorf("build paynow request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req.ContentLength = 0
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request to paynow: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read paynow response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ResponseError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return string(raw), nil
}
