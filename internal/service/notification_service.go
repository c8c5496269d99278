package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/queue"
	"github.com/atlastravel/backend/internal/repository/ports"
)

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type emailTaskPayload struct {
	PaymentID string `json:"payment_id"`
}

// NotificationService renders and sends the transactional emails that the
// payment flow enqueues. Its handlers are registered on the task queue worker;
// a returned error puts the task back on the queue's retry path.
type NotificationService struct {
	payments ports.PaymentRepository
	bookings ports.BookingRepository
	users    ports.UserRepository
	mailer   Mailer
}

func NewNotificationService(paymentRepo ports.PaymentRepository, bookingRepo ports.BookingRepository, userRepo ports.UserRepository, mailer Mailer) *NotificationService {
	return &NotificationService{
		payments: paymentRepo,
		bookings: bookingRepo,
		users:    userRepo,
		mailer:   mailer,
	}
}

// RegisterHandlers binds the email tasks to the queue worker.
func (s *NotificationService) RegisterHandlers(q *queue.RedisQueue) {
	q.Register(queue.TaskPaymentConfirmationEmail, s.HandleConfirmationEmail)
	q.Register(queue.TaskPaymentFailedEmail, s.HandleFailedEmail)
}

func (s *NotificationService) HandleConfirmationEmail(ctx context.Context, task *queue.Task) error {
	payment, booking, user, err := s.loadEmailContext(ctx, task)
	if err != nil {
		return err
	}

	destName := destinationName(booking)
	subject := fmt.Sprintf("Payment Confirmed - %s Booking", destName)
	transactionID := ""
	if payment.TransactionID != nil {
		transactionID = *payment.TransactionID
	}

	body := fmt.Sprintf(`Dear %s,

Your payment for the %s booking has been confirmed!

Booking Details:
- Booking Reference: %s
- Destination: %s
- Check-in: %s
- Check-out: %s
- Amount Paid: %s %.2f
- Transaction ID: %s

Thank you for choosing our travel service!

Best regards,
Atlas Travel Team
`,
		user.DisplayName(),
		destName,
		booking.Reference,
		destName,
		booking.CheckInDate.Format("2006-01-02"),
		booking.CheckOutDate.Format("2006-01-02"),
		payment.Currency,
		payment.Amount,
		transactionID,
	)

	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	log.Printf("notification: payment confirmation email sent to %s", user.Email)
	return nil
}

func (s *NotificationService) HandleFailedEmail(ctx context.Context, task *queue.Task) error {
	payment, booking, user, err := s.loadEmailContext(ctx, task)
	if err != nil {
		return err
	}

	destName := destinationName(booking)
	subject := fmt.Sprintf("Payment Failed - %s Booking", destName)

	body := fmt.Sprintf(`Dear %s,

Unfortunately, your payment for the %s booking has failed.

Booking Details:
- Booking Reference: %s
- Destination: %s
- Amount: %s %.2f

Please try again or contact our support team for assistance.

Best regards,
Atlas Travel Team
`,
		user.DisplayName(),
		destName,
		booking.Reference,
		destName,
		payment.Currency,
		payment.Amount,
	)

	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("send failure email: %w", err)
	}
	log.Printf("notification: payment failed email sent to %s", user.Email)
	return nil
}

func (s *NotificationService) loadEmailContext(ctx context.Context, task *queue.Task) (*domain.Payment, *domain.Booking, *domain.User, error) {
	var payload emailTaskPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return nil, nil, nil, fmt.Errorf("decode task payload: %w", err)
	}
	paymentID, err := uuid.Parse(payload.PaymentID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid payment_id in task payload: %w", err)
	}

	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load payment %s: %w", paymentID, err)
	}
	booking, err := s.bookings.FindByID(ctx, payment.BookingID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load booking %s: %w", payment.BookingID, err)
	}
	user, err := s.users.FindByID(ctx, booking.UserID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load user %s: %w", booking.UserID, err)
	}
	return payment, booking, user, nil
}

func destinationName(booking *domain.Booking) string {
	if booking.DestinationName != nil && *booking.DestinationName != "" {
		return *booking.DestinationName
	}
	return "your destination"
}
