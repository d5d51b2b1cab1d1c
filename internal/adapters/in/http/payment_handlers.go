package http

import (
	"encoding/json"
	"io"
	"net/http"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/payment"
	"cargo/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const maxCallbackBodyBytes = 64 << 10

// InitiatePayment handles POST /api/v1/shipments/{id}/payments.
func (s *Server) InitiatePayment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := uuidPathParam(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var body newPaymentRequest
	if err = bindBody(c, &body); err != nil {
		return s.fail(c, err)
	}
	provider, err := payment.ParseProvider(body.Provider)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewInitiatePaymentCommand(actor, id, provider, body.PayerPhone)
	if err != nil {
		return s.fail(c, err)
	}

	p, err := s.handlers.InitiatePayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, newPaymentResponse(p))
}

// PaymentWebhook handles POST /api/v1/payments/webhook. The gateway is authenticated by
// the HMAC of the raw body, so the body is read before it is decoded.
func (s *Server) PaymentWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxCallbackBodyBytes))
	if err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("body", err))
	}
	if !s.verifier.Verify(raw, c.Request().Header.Get(HeaderSignature)) {
		s.logger.WarnContext(ctx, "payment callback rejected: bad signature",
			"remote_ip", c.RealIP())
		return s.fail(c, errInvalidSignature)
	}

	var body paymentCallbackRequest
	if err = json.Unmarshal(raw, &body); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("body", err))
	}
	if err = c.Validate(&body); err != nil {
		return s.fail(c, err)
	}
	outcome, err := payment.ParseStatus(body.Status)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewHandlePaymentCallbackCommand(body.GatewayRef, outcome, body.Reason)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.handlers.PaymentCallback.Handle(ctx, cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newPaymentCallbackResponse(result))
}

// ConfirmPayment handles POST /api/v1/shipments/{id}/payment-confirmation, the admin path
// for cash and offline reconciliation.
func (s *Server) ConfirmPayment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := uuidPathParam(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewConfirmPaymentCommand(actor, id)
	if err != nil {
		return s.fail(c, err)
	}

	confirmed, err := s.handlers.ConfirmPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newShipmentResponse(confirmed))
}
