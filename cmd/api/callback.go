package main

import (
	"errors"
	"net/http"

	"paynow/internal/paynow"
)

// POST /v1/paynow/result
//
// Paynow pushes a form-encoded status update here whenever a transaction
// changes state. The payload is untrusted until its hash verifies; forged or
// malformed payloads are rejected and never reach the ledger.
func (app *application) paynowResultHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	update, err := app.paynow.VerifyCallback(r.PostForm)
	if err != nil {
		var mismatch *paynow.HashMismatchError
		if errors.As(err, &mismatch) {
			app.logger.Warnw("status callback failed signature verification",
				"remote", r.RemoteAddr)
			writeJSONError(w, http.StatusForbidden, "invalid signature")
			return
		}
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.ledger.RecordUpdate(r.Context(), update); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("payment status update",
		"reference", update.Reference,
		"paynow_reference", update.PaynowReference,
		"status", update.Status)

	w.WriteHeader(http.StatusOK)
}
