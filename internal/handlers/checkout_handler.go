package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quickbite/storefront/internal/cart"
	"github.com/quickbite/storefront/internal/checkout"
	"github.com/quickbite/storefront/internal/order"
	"github.com/quickbite/storefront/internal/session"
)

// OrderSubmitter places the session cart as per-restaurant orders.
type OrderSubmitter interface {
	Submit(ctx context.Context, sess *session.Session, paymentMethod, instructions string) (*order.Result, error)
}

// CheckoutHandler drives the checkout form and hands confirmed
// submissions to the order submitter.
type CheckoutHandler struct {
	submitter OrderSubmitter
	log       *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(submitter OrderSubmitter, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		submitter: submitter,
		log:       log,
	}
}

// checkoutRequest is the body of POST /api/checkout.
type checkoutRequest struct {
	Payment             checkout.PaymentDetails `json:"payment"`
	SpecialInstructions string                  `json:"special_instructions"`
}

// Checkout handles POST /api/checkout:
// - validation failures are 400 with the form's message and reach no network;
// - an empty cart is a 400 before any order is built;
// - upstream failures are one aggregated 502 and the cart stays intact.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	var result *order.Result
	form := checkout.NewForm(func(p checkout.PaymentDetails) error {
		res, err := h.submitter.Submit(r.Context(), sess, p.Method, req.SpecialInstructions)
		result = res
		return err
	})

	if err := form.Submit(req.Payment); err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result, h.log)
}

func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrInvalidMethod),
		errors.Is(err, checkout.ErrMissingDetails),
		errors.Is(err, checkout.ErrInvalidCardNumber),
		errors.Is(err, checkout.ErrInvalidExpiry),
		errors.Is(err, checkout.ErrInvalidCVV),
		errors.Is(err, order.ErrEmptyCart):
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
	case errors.Is(err, cart.ErrNotAuthenticated):
		WriteError(w, http.StatusUnauthorized, err.Error(), h.log)
	case errors.Is(err, order.ErrSubmissionFailed):
		WriteError(w, http.StatusBadGateway, err.Error(), h.log)
	default:
		h.log.Error("checkout failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}
