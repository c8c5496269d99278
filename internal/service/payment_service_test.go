package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/queue"
	"github.com/atlastravel/backend/internal/repository/ports"
)

type paymentFixture struct {
	payments  *memoryPaymentRepo
	bookings  *memoryBookingRepo
	users     *memoryUserRepo
	gateway   *fakeGateway
	publisher *fakePublisher
	svc       *PaymentService

	userID  uuid.UUID
	booking *domain.Booking
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	ctx := context.Background()

	users := newMemoryUserRepo()
	fullName := "Abebe Bikila"
	user, err := users.CreateEmailUser(ctx, "abebe@example.com", &fullName, []byte("h"), []byte("s"))
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	bookings := newMemoryBookingRepo()
	destName := "Lakeside Lodge"
	checkIn := time.Now().AddDate(0, 0, 30)
	booking := &domain.Booking{
		UserID:          user.ID,
		DestinationID:   uuid.New(),
		CheckInDate:     checkIn,
		CheckOutDate:    checkIn.AddDate(0, 0, 5),
		NumberOfGuests:  2,
		TotalAmount:     500.00,
		Status:          domain.BookingStatusPending,
		Reference:       uuid.NewString(),
		DestinationName: &destName,
	}
	bookings.put(booking)

	gateway := &fakeGateway{
		initiateResult: &ports.GatewayInitiateResult{
			TransactionID: "chapa-tx-1",
			Reference:     "chapa-ref-1",
			CheckoutURL:   "https://checkout.chapa.co/pay/1",
			Raw:           json.RawMessage(`{"status":"success"}`),
		},
	}
	publisher := &fakePublisher{}

	svc := NewPaymentService(newMemoryPaymentRepo(), bookings, users, gateway, publisher, PaymentServiceConfig{
		PublicBaseURL:   "https://travel.example.com",
		DefaultCurrency: "NGN",
	})

	return &paymentFixture{
		payments:  svc.payments.(*memoryPaymentRepo),
		bookings:  bookings,
		users:     users,
		gateway:   gateway,
		publisher: publisher,
		svc:       svc,
		userID:    user.ID,
		booking:   booking,
	}
}

func TestPaymentService_Initiate(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)

	payment, err := f.svc.Initiate(ctx, f.userID, f.booking.ID, domain.PaymentMethodCard, "")
	if err != nil {
		t.Fatalf("Initiate returned error: %v", err)
	}

	if payment.Status != domain.PaymentStatusPending {
		t.Fatalf("expected pending payment, got %q", payment.Status)
	}
	if payment.Currency != "NGN" {
		t.Fatalf("expected default currency NGN, got %q", payment.Currency)
	}
	if payment.CheckoutURL == nil || *payment.CheckoutURL != "https://checkout.chapa.co/pay/1" {
		t.Fatalf("expected checkout URL from the gateway, got %v", payment.CheckoutURL)
	}
	if payment.TransactionID == nil || *payment.TransactionID != "chapa-tx-1" {
		t.Fatalf("expected transaction id from the gateway, got %v", payment.TransactionID)
	}

	req := f.gateway.initiateReq
	if req.Amount != f.booking.TotalAmount {
		t.Fatalf("expected gateway amount %v, got %v", f.booking.TotalAmount, req.Amount)
	}
	if !strings.HasPrefix(req.TxRef, "TRAVEL_") {
		t.Fatalf("expected tx_ref with TRAVEL_ prefix, got %q", req.TxRef)
	}
	if req.Email != "abebe@example.com" {
		t.Fatalf("expected customer email, got %q", req.Email)
	}
	if req.FirstName != "Abebe" || req.LastName != "Bikila" {
		t.Fatalf("expected split name, got %q %q", req.FirstName, req.LastName)
	}
	if !strings.HasSuffix(req.CallbackURL, "/api/v1/payments/webhook") {
		t.Fatalf("unexpected callback URL %q", req.CallbackURL)
	}
}

func TestPaymentService_InitiateRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)

	if _, err := f.svc.Initiate(ctx, f.userID, f.booking.ID, domain.PaymentMethodCard, ""); err != nil {
		t.Fatalf("first Initiate returned error: %v", err)
	}
	if _, err := f.svc.Initiate(ctx, f.userID, f.booking.ID, domain.PaymentMethodCard, ""); !errors.Is(err, ErrPaymentExists) {
		t.Fatalf("expected ErrPaymentExists, got %v", err)
	}
}

func TestPaymentService_InitiateForeignBooking(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)

	if _, err := f.svc.Initiate(ctx, uuid.New(), f.booking.ID, domain.PaymentMethodCard, ""); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound for another user, got %v", err)
	}
}

func TestPaymentService_InitiateGatewayFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)
	f.gateway.initiateResult = nil
	f.gateway.initiateErr = errors.New("connection refused")

	_, err := f.svc.Initiate(ctx, f.userID, f.booking.ID, domain.PaymentMethodCard, "")
	if !errors.Is(err, ErrPaymentGateway) {
		t.Fatalf("expected ErrPaymentGateway, got %v", err)
	}
	if _, err := f.payments.FindByBookingID(ctx, f.booking.ID); err == nil {
		t.Fatalf("expected no payment row after gateway failure")
	}
}

func TestPaymentService_VerifySuccessConfirmsBooking(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)

	if _, err := f.svc.Initiate(ctx, f.userID, f.booking.ID, domain.PaymentMethodCard, ""); err != nil {
		t.Fatalf("Initiate returned error: %v", err)
	}

	f.gateway.verifyResult = &ports.GatewayVerifyResult{
		Status: "success",
		Raw:    json.RawMessage(`{"data":{"status":"success"}}`),
	}

	payment, err := f.svc.Verify(ctx, "chapa-tx-1")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if payment.Status != domain.PaymentStatusCompleted {
		t.Fatalf("expected completed payment, got %q", payment.Status)
	}
	if payment.PaymentDate == nil {
		t.Fatalf("expected payment date to be stamped")
	}

	booking, err := f.bookings.FindByID(ctx, f.booking.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if booking.Status != domain.BookingStatusConfirmed {
		t.Fatalf("expected booking confirmed, got %q", booking.Status)
	}

	types := f.publisher.types()
	if len(types) != 1 || types[0] != queue.TaskPaymentConfirmationEmail {
		t.Fatalf("expected one confirmation email task, got %v", types)
	}
}

func TestPaymentService_VerifyFailedEnqueuesFailureEmail(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)

	if _, err := f.svc.Initiate(ctx, f.userID, f.booking.ID, domain.PaymentMethodCard, ""); err != nil {
		t.Fatalf("Initiate returned error: %v", err)
	}

	f.gateway.verifyResult = &ports.GatewayVerifyResult{Status: "failed"}

	payment, err := f.svc.Verify(ctx, "chapa-tx-1")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if payment.Status != domain.PaymentStatusFailed {
		t.Fatalf("expected failed payment, got %q", payment.Status)
	}

	booking, _ := f.bookings.FindByID(ctx, f.booking.ID)
	if booking.Status != domain.BookingStatusPending {
		t.Fatalf("expected booking untouched on failure, got %q", booking.Status)
	}

	types := f.publisher.types()
	if len(types) != 1 || types[0] != queue.TaskPaymentFailedEmail {
		t.Fatalf("expected one failure email task, got %v", types)
	}
}

func TestPaymentService_VerifyPendingMapsToProcessing(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)

	if _, err := f.svc.Initiate(ctx, f.userID, f.booking.ID, domain.PaymentMethodCard, ""); err != nil {
		t.Fatalf("Initiate returned error: %v", err)
	}

	f.gateway.verifyResult = &ports.GatewayVerifyResult{Status: "pending"}

	payment, err := f.svc.Verify(ctx, "chapa-tx-1")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if payment.Status != domain.PaymentStatusProcessing {
		t.Fatalf("expected processing, got %q", payment.Status)
	}
	if got := f.publisher.types(); len(got) != 0 {
		t.Fatalf("expected no email tasks for intermediate state, got %v", got)
	}
}

func TestPaymentService_WebhookIgnoresIntermediateStates(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)

	if _, err := f.svc.Initiate(ctx, f.userID, f.booking.ID, domain.PaymentMethodCard, ""); err != nil {
		t.Fatalf("Initiate returned error: %v", err)
	}

	payment, err := f.svc.HandleWebhook(ctx, "chapa-tx-1", "pending", json.RawMessage(`{"status":"pending"}`))
	if err != nil {
		t.Fatalf("HandleWebhook returned error: %v", err)
	}
	if payment.Status != domain.PaymentStatusPending {
		t.Fatalf("expected payment untouched, got %q", payment.Status)
	}
}

func TestPaymentService_WebhookReplayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)

	if _, err := f.svc.Initiate(ctx, f.userID, f.booking.ID, domain.PaymentMethodCard, ""); err != nil {
		t.Fatalf("Initiate returned error: %v", err)
	}

	raw := json.RawMessage(`{"trx_ref":"chapa-tx-1","status":"success"}`)
	first, err := f.svc.HandleWebhook(ctx, "chapa-tx-1", "success", raw)
	if err != nil {
		t.Fatalf("first webhook returned error: %v", err)
	}
	if first.Status != domain.PaymentStatusCompleted {
		t.Fatalf("expected completed payment, got %q", first.Status)
	}

	second, err := f.svc.HandleWebhook(ctx, "chapa-tx-1", "success", raw)
	if err != nil {
		t.Fatalf("replayed webhook returned error: %v", err)
	}
	if second.Status != domain.PaymentStatusCompleted {
		t.Fatalf("expected completed payment on replay, got %q", second.Status)
	}

	// Only the first delivery does work: one booking confirmation, one email.
	if got := len(f.bookings.statusUpdates); got != 1 {
		t.Fatalf("expected a single booking status update, got %d", got)
	}
	if got := f.publisher.types(); len(got) != 1 {
		t.Fatalf("expected a single email task, got %v", got)
	}
}

func TestPaymentService_WebhookUnknownTransaction(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)

	_, err := f.svc.HandleWebhook(ctx, "never-seen", "success", nil)
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestPaymentService_StatusScopedToBookingOwner(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)

	payment, err := f.svc.Initiate(ctx, f.userID, f.booking.ID, domain.PaymentMethodCard, "")
	if err != nil {
		t.Fatalf("Initiate returned error: %v", err)
	}

	if _, err := f.svc.Status(ctx, payment.ID, f.userID); err != nil {
		t.Fatalf("owner Status returned error: %v", err)
	}
	if _, err := f.svc.Status(ctx, payment.ID, uuid.New()); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound for another user, got %v", err)
	}
}

func TestMapGatewayStatus(t *testing.T) {
	cases := map[string]domain.PaymentStatus{
		"success":  domain.PaymentStatusCompleted,
		" Success": domain.PaymentStatusCompleted,
		"failed":   domain.PaymentStatusFailed,
		"pending":  domain.PaymentStatusProcessing,
		"queued":   domain.PaymentStatusProcessing,
		"":         domain.PaymentStatusProcessing,
	}
	for input, expected := range cases {
		if got := mapGatewayStatus(input); got != expected {
			t.Fatalf("mapGatewayStatus(%q) = %q, expected %q", input, got, expected)
		}
	}
}
