package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"paybridge/internal/domain/paymentsrepo"
	"paybridge/internal/params"

	"github.com/go-chi/chi/v5"
)

// adminListPaymentsHandler godoc
//
//	@Summary		List payments (admin)
//	@Description	Returns a paginated list of payment records, newest first. Optional filter: status.
//	@Tags			admin
//	@Produce		json
//	@Param			status	query		string			false	"pending|completed"
//	@Param			page	query		int				false	"Page number (default: 1)"
//	@Param			limit	query		int				false	"Items per page (default 20, max 100)"
//	@Success		200		{object}	map[string]any	"Envelope: { data: { payments, pagination, status } }"
//	@Failure		400		{object}	error			"Bad Request"
//	@Failure		401		{object}	error			"Unauthorized"
//	@Failure		500		{object}	error			"Internal Server Error"
//	@Security		BasicAuth
//	@Router			/v1/admin/payments [get]
func (app *application) adminListPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	status := strings.TrimSpace(q.Get("status")) // "" => no filter
	switch status {
	case "", paymentsrepo.StatusPending, paymentsrepo.StatusCompleted:
	default:
		app.badRequestResponse(w, r, fmt.Errorf("unknown status %q", status), "status must be pending or completed")
		return
	}

	pg := params.ParsePagination(q)

	list, total, err := app.payments.List(ctx, status, pg.Limit, pg.Offset)
	if err != nil {
		app.internalServerError(w, r, err, "Failed to list payments")
		return
	}

	pg.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"payments":   list,
		"pagination": pg,
		"status":     status,
	}); err != nil {
		app.logger.Errorw("write response", "path", r.URL.Path, "error", err.Error())
	}
}

// adminPaymentLogsHandler godoc
//
//	@Summary		Payment audit trail (admin)
//	@Description	Returns the gateway request, response and verification snapshots recorded for a payment.
//	@Tags			admin
//	@Produce		json
//	@Param			paymentID	path		string			true	"Payment ID"
//	@Success		200			{object}	map[string]any	"Envelope: { data: [logs] }"
//	@Failure		401			{object}	error			"Unauthorized"
//	@Failure		500			{object}	error			"Internal Server Error"
//	@Security		BasicAuth
//	@Router			/v1/admin/payments/{paymentID}/logs [get]
func (app *application) adminPaymentLogsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	paymentID := chi.URLParam(r, "paymentID")

	logs, err := app.paymentLogs.ListByPayment(ctx, paymentID)
	if err != nil {
		app.internalServerError(w, r, err, "Failed to load payment logs")
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, logs); err != nil {
		app.logger.Errorw("write response", "path", r.URL.Path, "error", err.Error())
	}
}
