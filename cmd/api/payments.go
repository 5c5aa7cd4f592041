package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"paybridge/internal/billing"

	"github.com/go-playground/validator/v10"
)

const paymentRequestTimeout = 30 * time.Second

type initPaymentPayload struct {
	PlanID      string `json:"planId" validate:"required"`
	FirstName   string `json:"firstName" validate:"omitempty,max=100"`
	LastName    string `json:"lastName" validate:"omitempty,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=32"`
}

type initPaymentResponse struct {
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// initPaymentHandler godoc
//
//	@Summary		Initiate a payment
//	@Description	Creates a Konnect payment for the plan and records it as pending.
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		initPaymentPayload	true	"Plan and buyer details"
//	@Success		200		{object}	initPaymentResponse
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		500		{object}	error
//	@Router			/init-payment [post]
func (app *application) initPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload initPaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err, "Invalid request body")
		return
	}
	payload.PlanID = strings.TrimSpace(payload.PlanID)
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err, validationMessage(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), paymentRequestTimeout)
	defer cancel()

	res, err := app.billing.Initiate(ctx, billing.InitiateRequest{
		PlanID:      payload.PlanID,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Email:       payload.Email,
		PhoneNumber: payload.PhoneNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrInvalidInput):
			app.badRequestResponse(w, r, err, "planId is required")
		case errors.Is(err, billing.ErrNotFound):
			app.notFoundResponse(w, r, err, "Plan not found")
		default:
			app.internalServerError(w, r, err, "Failed to initiate payment")
		}
		return
	}

	details := res.GatewayResponse
	if len(details) == 0 {
		details = json.RawMessage("null")
	}

	writeJSON(w, http.StatusOK, initPaymentResponse{
		Message: "Payment initiated",
		Details: details,
	})
}

type verifyPaymentPayload struct {
	PaymentRef string `json:"paymentRef" validate:"required"`
}

type verifyPaymentResponse struct {
	Message           string `json:"message"`
	PaymentStatus     string `json:"paymentStatus,omitempty"`
	TransactionStatus string `json:"transactionStatus,omitempty"`
}

// verifyPaymentHandler godoc
//
//	@Summary		Verify a payment
//	@Description	Re-queries Konnect for the payment and credits the buyer once it is completed.
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		verifyPaymentPayload	true	"Gateway payment reference"
//	@Success		200		{object}	verifyPaymentResponse
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		500		{object}	error
//	@Router			/verify-payment [post]
func (app *application) verifyPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload verifyPaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err, "Invalid request body")
		return
	}
	payload.PaymentRef = strings.TrimSpace(payload.PaymentRef)
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err, validationMessage(err))
		return
	}

	app.verify(w, r, payload.PaymentRef)
}

// verifyPaymentWebhookHandler godoc
//
//	@Summary		Payment webhook
//	@Description	Gateway callback. The reference only triggers a re-query; the callback itself is not trusted.
//	@Tags			payments
//	@Produce		json
//	@Param			payment_ref	query		string	true	"Gateway payment reference"
//	@Success		200			{object}	verifyPaymentResponse
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Failure		500			{object}	error
//	@Router			/verify-payment [get]
func (app *application) verifyPaymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.URL.Query().Get("payment_ref"))
	if ref == "" {
		app.badRequestResponse(w, r, errors.New("missing payment_ref query parameter"), "paymentRef is required")
		return
	}

	app.verify(w, r, ref)
}

func (app *application) verify(w http.ResponseWriter, r *http.Request, ref string) {
	ctx, cancel := context.WithTimeout(r.Context(), paymentRequestTimeout)
	defer cancel()

	out, err := app.billing.Verify(ctx, ref)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrMissingBuyerEmail):
			app.badRequestResponse(w, r, err, "No email found in payment details")
		case errors.Is(err, billing.ErrInvalidInput):
			app.badRequestResponse(w, r, err, "paymentRef is required")
		case errors.Is(err, billing.ErrPlanNotFound):
			app.notFoundResponse(w, r, err, "Associated plan not found")
		case errors.Is(err, billing.ErrUserNotFound):
			app.notFoundResponse(w, r, err, "User not found")
		case errors.Is(err, billing.ErrNotFound):
			app.notFoundResponse(w, r, err, "Payment not found")
		default:
			app.internalServerError(w, r, err, "Failed to verify payment")
		}
		return
	}

	var resp verifyPaymentResponse
	switch out.Kind {
	case billing.OutcomeAlreadyCompleted:
		resp = verifyPaymentResponse{Message: "Payment already processed"}
	case billing.OutcomeCompleted:
		resp = verifyPaymentResponse{
			Message:       "Payment verified, user updated, and status marked completed",
			PaymentStatus: out.PaymentStatus,
		}
	default:
		resp = verifyPaymentResponse{
			Message:           "Payment not completed or failed",
			PaymentStatus:     out.PaymentStatus,
			TransactionStatus: out.TransactionStatus,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// validationMessage names the first field that failed validation.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := jsonFieldNames[fe.Field()]
	if field == "" {
		field = fe.Field()
	}
	if fe.Tag() == "required" {
		return field + " is required"
	}
	return field + " is invalid"
}

var jsonFieldNames = map[string]string{
	"PlanID":      "planId",
	"FirstName":   "firstName",
	"LastName":    "lastName",
	"Email":       "email",
	"PhoneNumber": "phoneNumber",
	"PaymentRef":  "paymentRef",
}
