package paynow

import (
	"fmt"
	"net/url"
	"strconv"
)

// The gateway tags every payload with one of four literal sentinels. They
// are exact strings, not free text; anything else fails the shape.
const (
	statusMessage  = "Message"
	statusOk       = "Ok"
	statusError    = "Error"
	statusNotFound = "NotFound"
)

func requireField(v url.Values, name string) (string, error) {
	if !v.Has(name) {
		return "", fmt.Errorf("missing field %q", name)
	}
	return v.Get(name), nil
}

func requireLiteral(v url.Values, name, want string) error {
	got, err := requireField(v, name)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("field %q: got %q, want %q", name, got, want)
	}
	return nil
}

func requireURL(v url.Values, name string) (*url.URL, error) {
	raw, err := requireField(v, name)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("field %q: %q is not an absolute URL", name, raw)
	}
	return u, nil
}

// Response is a successful standard payment initiation. The customer
// completes payment at BrowserURL; PollURL reports the transaction status.
type Response struct {
	BrowserURL *url.URL
	PollURL    *url.URL

	hash string
}

func (r *Response) canonical() string {
	return statusOk + r.BrowserURL.String() + r.PollURL.String()
}

func decodeResponse(body string) (*Response, error) {
	vals, err := url.ParseQuery(body)
	if err != nil {
		return nil, err
	}
	if err := requireLiteral(vals, "status", statusOk); err != nil {
		return nil, err
	}
	browser, err := requireURL(vals, "browserurl")
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
	return &Response{BrowserURL: browser, PollURL: poll, hash: hash}, nil
}

// ExpressResponse is a successful express payment initiation. There is no
// browser redirect; Instructions tell the customer how to approve the
// payment on their handset.
type ExpressResponse struct {
	Instructions    string
	PaynowReference uint64
	PollURL         *url.URL

	hash string
}

func (r *ExpressResponse) canonical() string {
	return statusOk + r.Instructions + strconv.FormatUint(r.PaynowReference, 10) + r.PollURL.String()
}

func decodeExpressResponse(body string) (*ExpressResponse, error) {
	vals, err := url.ParseQuery(body)
	if err != nil {
		return nil, err
	}
	if err := requireLiteral(vals, "status", statusOk); err != nil {
		return nil, err
	}
	instructions, err := requireField(vals, "instructions")
	if err != nil {
		return nil, err
	}
	rawRef, err := requireField(vals, "paynowreference")
	if err != nil {
		return nil, err
	}
	ref, err := strconv.ParseUint(rawRef, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("field \"paynowreference\": %w", err)
	}
	poll, err := requireURL(vals, "pollurl")
	if err != nil {
		return nil, err
	}
	hash, err := requireField(vals, "hash")
	if err != nil {
		return nil, err
	}
	return &ExpressResponse{
		Instructions:    instructions,
		PaynowReference: ref,
		PollURL:         poll,
		hash:            hash,
	}, nil
}

// decodeErrorResponse extracts the message from the vendor error shape
// (status=Error&error=...).
func decodeErrorResponse(body string) (string, error) {
	vals, err := url.ParseQuery(body)
	if err != nil {
		return "", err
	}
	if err := requireLiteral(vals, "status", statusError); err != nil {
		return "", err
	}
	return requireField(vals, "error")
}

// decodeNotFound extracts the hash from the trace-miss shape
// (status=NotFound&hash=...). The hash must be verified over the NotFound
// sentinel before the miss is trusted.
func decodeNotFound(body string) (string, error) {
	vals, err := url.ParseQuery(body)
	if err != nil {
		return "", err
	}
	if err := requireLiteral(vals, "status", statusNotFound); err != nil {
		return "", err
	}
	return requireField(vals, "hash")
}
