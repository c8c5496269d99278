package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/queue"
	"github.com/atlastravel/backend/internal/repository/ports"
)

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrPaymentExists     = errors.New("payment already exists for this booking")
	ErrPaymentValidation = errors.New("payment validation failed")
	ErrPaymentGateway    = errors.New("payment gateway request failed")
)

type PaymentServiceConfig struct {
	PublicBaseURL   string
	DefaultCurrency string
}

type PaymentService struct {
	payments ports.PaymentRepository
	bookings ports.BookingRepository
	users    ports.UserRepository
	gateway  ports.PaymentGateway
	tasks    ports.TaskPublisher

	publicBase      string
	defaultCurrency string
}

func NewPaymentService(
	paymentRepo ports.PaymentRepository,
	bookingRepo ports.BookingRepository,
	userRepo ports.UserRepository,
	gateway ports.PaymentGateway,
	tasks ports.TaskPublisher,
	cfg PaymentServiceConfig,
) *PaymentService {
	currency := strings.TrimSpace(cfg.DefaultCurrency)
	if currency == "" {
		currency = "NGN"
	}
	return &PaymentService{
		payments:        paymentRepo,
		bookings:        bookingRepo,
		users:           userRepo,
		gateway:         gateway,
		tasks:           tasks,
		publicBase:      strings.TrimRight(cfg.PublicBaseURL, "/"),
		defaultCurrency: currency,
	}
}

// Initiate creates a gateway transaction for the caller's booking and persists
// the resulting payment record. Nothing is persisted when the gateway call
// fails.
func (s *PaymentService) Initiate(ctx context.Context, userID, bookingID uuid.UUID, method domain.PaymentMethod, currency string) (*domain.Payment, error) {
	if method == "" {
		method = domain.PaymentMethodCard
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: invalid payment_method %q", ErrPaymentValidation, method)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}

	if _, err := s.payments.FindByBookingID(ctx, bookingID); err == nil {
		return nil, ErrPaymentExists
	} else if !isNotFound(err) {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	destName := "your destination"
	if booking.DestinationName != nil && *booking.DestinationName != "" {
		destName = *booking.DestinationName
	}
	firstName, lastName := splitName(user)

	result, err := s.gateway.Initiate(ctx, ports.GatewayInitiateRequest{
		Amount:      booking.TotalAmount,
		Currency:    currency,
		Email:       user.Email,
		FirstName:   firstName,
		LastName:    lastName,
		TxRef:       "TRAVEL_" + booking.Reference,
		CallbackURL: s.publicBase + "/api/v1/payments/webhook",
		ReturnURL:   s.publicBase + "/api/v1/payments/success",
		Title:       "Travel Booking - " + destName,
		Description: "Payment for " + destName + " booking",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	payment := &domain.Payment{
		BookingID:     bookingID,
		Amount:        booking.TotalAmount,
		Currency:      currency,
		Method:        method,
		Status:        domain.PaymentStatusPending,
		TransactionID: nonEmpty(result.TransactionID),
		Reference:     nonEmpty(result.Reference),
		CheckoutURL:   nonEmpty(result.CheckoutURL),
	}

	stored, err := s.payments.Create(ctx, payment)
	if err != nil {
		// Two racing initiations resolve through the booking_id unique
		// constraint; the loser sees the same error as a pre-existing payment.
		if isUniqueViolation(err) {
			return nil, ErrPaymentExists
		}
		return nil, err
	}
	return stored, nil
}

// Verify pulls the transaction state from the gateway and reconciles the local
// payment and booking records with it.
func (s *PaymentService) Verify(ctx context.Context, transactionID string) (*domain.Payment, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction_id required", ErrPaymentValidation)
	}

	payment, err := s.payments.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	result, err := s.gateway.Verify(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	status := mapGatewayStatus(result.Status)
	return s.applyTransition(ctx, payment, status, result.Raw)
}

// HandleWebhook applies a gateway push notification. Unlike Verify it ignores
// non-terminal gateway states, and replays for a payment already in the
// reported terminal state are acknowledged without reapplying the update.
func (s *PaymentService) HandleWebhook(ctx context.Context, transactionID, gatewayStatus string, raw json.RawMessage) (*domain.Payment, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" || strings.TrimSpace(gatewayStatus) == "" {
		return nil, fmt.Errorf("%w: id and status required", ErrPaymentValidation)
	}

	payment, err := s.payments.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	status := mapGatewayStatus(gatewayStatus)
	if status == domain.PaymentStatusProcessing {
		// Webhooks only carry outcomes; intermediate states are not forwarded.
		return payment, nil
	}
	if payment.Status == status {
		return payment, nil
	}

	return s.applyTransition(ctx, payment, status, raw)
}

// Status returns the payment snapshot, restricted to the owner of the parent
// booking.
func (s *PaymentService) Status(ctx context.Context, paymentID, userID uuid.UUID) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	booking, err := s.bookings.FindByID(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

func (s *PaymentService) applyTransition(ctx context.Context, payment *domain.Payment, status domain.PaymentStatus, raw json.RawMessage) (*domain.Payment, error) {
	updated, err := s.payments.UpdateStatus(ctx, payment.ID, status, raw)
	if err != nil {
		return nil, err
	}

	switch status {
	case domain.PaymentStatusCompleted:
		if err := s.bookings.UpdateStatus(ctx, payment.BookingID, domain.BookingStatusConfirmed); err != nil {
			return nil, err
		}
		s.enqueueEmail(ctx, queue.TaskPaymentConfirmationEmail, updated.ID)
	case domain.PaymentStatusFailed:
		s.enqueueEmail(ctx, queue.TaskPaymentFailedEmail, updated.ID)
	}
	return updated, nil
}

func (s *PaymentService) enqueueEmail(ctx context.Context, taskType string, paymentID uuid.UUID) {
	if s.tasks == nil {
		return
	}
	payload := map[string]string{"payment_id": paymentID.String()}
	if err := s.tasks.Publish(ctx, taskType, payload); err != nil {
		// The payment transition already committed; a lost notification must
		// not fail the request.
		log.Printf("payment: enqueue %s for payment %s failed: %v", taskType, paymentID, err)
	}
}

func mapGatewayStatus(gatewayStatus string) domain.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(gatewayStatus)) {
	case "success":
		return domain.PaymentStatusCompleted
	case "failed":
		return domain.PaymentStatusFailed
	default:
		return domain.PaymentStatusProcessing
	}
}

func splitName(user *domain.User) (string, string) {
	if user.FullName == nil {
		return user.Email, ""
	}
	parts := strings.Fields(*user.FullName)
	switch len(parts) {
	case 0:
		return user.Email, ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func nonEmpty(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
