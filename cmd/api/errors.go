package main

import (
	"errors"
	"net/http"

	"paynow/internal/paynow"
)

var errInvalidLimit = errors.New("limit must be an integer between 1 and 100")

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path)
	writeJSONError(w, http.StatusNotFound, "not found")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "remote", r.RemoteAddr, "path", r.URL.Path)
	w.Header().Set("Retry-After", retryAfter)
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter)
}

// gatewayErrorResponse maps the client's error taxonomy onto HTTP statuses:
// vendor-rejected business errors are the caller's fault, integrity and
// shape failures mean the upstream response cannot be trusted.
func (app *application) gatewayErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidID  *paynow.InvalidIDError
		invalidAmt *paynow.InvalidAmountError
		overflow   *paynow.AmountOverflowError
		notFound   *paynow.NotFoundError
		mismatch   *paynow.HashMismatchError
	)
	switch {
	case errors.Is(err, paynow.ErrInsufficientBalance),
		errors.As(err, &invalidAmt),
		errors.As(err, &overflow):
		app.logger.Warnw("payment rejected", "error", err)
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &invalidID):
		// misconfigured integration id is our problem, not the caller's
		app.internalServerError(w, r, err)
	case errors.As(err, &notFound):
		app.notFoundResponse(w, r)
	case errors.As(err, &mismatch):
		app.logger.Errorw("gateway response failed signature verification", "error", err)
		writeJSONError(w, http.StatusBadGateway, "gateway response failed verification")
	default:
		app.logger.Errorw("gateway call failed", "error", err)
		writeJSONError(w, http.StatusBadGateway, "payment gateway unavailable")
	}
}
