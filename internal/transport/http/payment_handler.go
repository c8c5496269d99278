package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/service"
	"github.com/atlastravel/backend/internal/util"
)

const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	payments *service.PaymentService
}

func RegisterPayments(e *echo.Echo, auth *service.AuthService, payments *service.PaymentService) {
	handler := &PaymentHandler{payments: payments}

	protected := e.Group("/api/v1/payments", RequireAuth(auth))
	protected.POST("/initiate", handler.initiate)
	protected.POST("/verify", handler.verify)
	protected.POST("/verify/:transaction_id", handler.verify)
	protected.GET("/:id/status", handler.status)

	// The gateway calls back without a user token.
	e.POST("/api/v1/payments/webhook", handler.webhook)
	e.GET("/api/v1/payments/success", handler.successPage)
	e.GET("/api/v1/payments/failed", handler.failedPage)
}

func (h *PaymentHandler) initiate(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req struct {
		BookingID     string `json:"booking_id"`
		PaymentMethod string `json:"payment_method"`
		Currency      string `json:"currency"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("booking_id must be a valid UUID"))
	}

	payment, err := h.payments.Initiate(c.Request().Context(), user.ID, bookingID, domain.PaymentMethod(req.PaymentMethod), req.Currency)
	if err != nil {
		return h.writeError(c, err)
	}

	resp := util.Envelope{
		"payment_id": payment.ID,
		"status":     payment.Status,
	}
	if payment.CheckoutURL != nil {
		resp["payment_url"] = *payment.CheckoutURL
	}
	if payment.TransactionID != nil {
		resp["transaction_id"] = *payment.TransactionID
	}
	if payment.Reference != nil {
		resp["reference"] = *payment.Reference
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *PaymentHandler) verify(c echo.Context) error {
	transactionID := strings.TrimSpace(c.Param("transaction_id"))
	if transactionID == "" {
		var req struct {
			TransactionID string `json:"transaction_id"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
		}
		transactionID = strings.TrimSpace(req.TransactionID)
	}
	if transactionID == "" {
		return c.JSON(http.StatusBadRequest, util.Error("transaction_id required"))
	}

	payment, err := h.payments.Verify(c.Request().Context(), transactionID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"payment_id": payment.ID,
		"status":     payment.Status,
	})
}

func (h *PaymentHandler) status(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid payment id"))
	}

	payment, err := h.payments.Status(c.Request().Context(), id, user.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("payment", buildPaymentResponse(payment)))
}

func (h *PaymentHandler) webhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read payload"))
	}

	var event struct {
		ID            string `json:"id"`
		TransactionID string `json:"transaction_id"`
		TrxRef        string `json:"trx_ref"`
		TxRef         string `json:"tx_ref"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid webhook payload"))
	}

	transactionID := event.ID
	if transactionID == "" {
		transactionID = event.TransactionID
	}
	if transactionID == "" {
		transactionID = event.TrxRef
	}
	if transactionID == "" {
		transactionID = event.TxRef
	}

	payment, err := h.payments.HandleWebhook(c.Request().Context(), transactionID, event.Status, body)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("status", payment.Status))
}

func (h *PaymentHandler) successPage(c echo.Context) error {
	return c.HTML(http.StatusOK, paymentSuccessHTML)
}

func (h *PaymentHandler) failedPage(c echo.Context) error {
	return c.HTML(http.StatusOK, paymentFailedHTML)
}

func (h *PaymentHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrPaymentNotFound):
		return c.JSON(http.StatusNotFound, util.Error("payment not found"))
	case errors.Is(err, service.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, util.Error("booking not found"))
	case errors.Is(err, service.ErrPaymentExists):
		return c.JSON(http.StatusConflict, util.Error(err.Error()))
	case errors.Is(err, service.ErrPaymentValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrPaymentGateway):
		return c.JSON(http.StatusBadGateway, util.Error("payment gateway unavailable"))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}
}

func buildPaymentResponse(payment *domain.Payment) util.Envelope {
	if payment == nil {
		return util.Envelope{}
	}
	resp := util.Envelope{
		"id":             payment.ID,
		"booking_id":     payment.BookingID,
		"amount":         payment.Amount,
		"currency":       payment.Currency,
		"payment_method": payment.Method,
		"status":         payment.Status,
		"created_at":     payment.CreatedAt,
		"updated_at":     payment.UpdatedAt,
	}
	if payment.TransactionID != nil {
		resp["transaction_id"] = *payment.TransactionID
	}
	if payment.Reference != nil {
		resp["reference"] = *payment.Reference
	}
	if payment.CheckoutURL != nil {
		resp["payment_url"] = *payment.CheckoutURL
	}
	if payment.PaymentDate != nil {
		resp["payment_date"] = *payment.PaymentDate
	}
	return resp
}
