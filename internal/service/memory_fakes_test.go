package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/repository/ports"
)

// In-memory repository fakes backing the service tests. They mirror the
// Postgres adapters' error behavior: sql.ErrNoRows for misses and a
// pgconn.PgError with code 23505 for unique constraint violations.

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *memoryUserRepo) CreateEmailUser(ctx context.Context, email string, fullName *string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return nil, uniqueViolation("user_account_email_key")
		}
	}
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: append([]byte(nil), passwordHash...),
		PasswordSalt: append([]byte(nil), passwordSalt...),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.users[user.ID] = user
	return cloneUser(user), nil
}

func (r *memoryUserRepo) UpsertGoogleUser(ctx context.Context, email string, fullName *string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			if fullName != nil {
				u.FullName = fullName
			}
			return cloneUser(u), nil
		}
	}
	user := &domain.User{
		ID:        uuid.New(),
		Email:     email,
		FullName:  fullName,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.users[user.ID] = user
	return cloneUser(user), nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, sql.ErrNoRows
}

func cloneUser(u *domain.User) *domain.User {
	copied := *u
	return &copied
}

type memoryDestinationRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.Destination
}

func newMemoryDestinationRepo() *memoryDestinationRepo {
	return &memoryDestinationRepo{items: make(map[uuid.UUID]*domain.Destination)}
}

func (r *memoryDestinationRepo) Create(ctx context.Context, dest *domain.Destination) (*domain.Destination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *dest
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.items[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *memoryDestinationRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Destination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.items[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (r *memoryDestinationRepo) List(ctx context.Context, limit, offset int) ([]domain.Destination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Destination, 0, len(r.items))
	for _, d := range r.items {
		all = append(all, *d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryDestinationRepo) Update(ctx context.Context, id uuid.UUID, update domain.DestinationUpdate) (*domain.Destination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if update.Name != nil {
		d.Name = *update.Name
	}
	if update.Description != nil {
		d.Description = *update.Description
	}
	if update.Location != nil {
		d.Location = *update.Location
	}
	if update.PricePerNight != nil {
		d.PricePerNight = *update.PricePerNight
	}
	if update.ImageURL != nil {
		d.ImageURL = update.ImageURL
	}
	d.UpdatedAt = time.Now()
	copied := *d
	return &copied, nil
}

func (r *memoryDestinationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

type memoryBookingRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.Booking

	statusUpdates []domain.BookingStatus
}

func newMemoryBookingRepo() *memoryBookingRepo {
	return &memoryBookingRepo{items: make(map[uuid.UUID]*domain.Booking)}
}

func (r *memoryBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.items {
		if b.Reference == booking.Reference {
			return nil, uniqueViolation("booking_booking_reference_key")
		}
	}
	stored := *booking
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.items[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *memoryBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.items[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (r *memoryBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Booking, 0)
	for _, b := range r.items {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryBookingRepo) Update(ctx context.Context, id uuid.UUID, update domain.BookingUpdate) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if update.CheckInDate != nil {
		b.CheckInDate = *update.CheckInDate
	}
	if update.CheckOutDate != nil {
		b.CheckOutDate = *update.CheckOutDate
	}
	if update.NumberOfGuests != nil {
		b.NumberOfGuests = *update.NumberOfGuests
	}
	if update.TotalAmount != nil {
		b.TotalAmount = *update.TotalAmount
	}
	if update.Status != nil {
		b.Status = *update.Status
	}
	if update.SpecialRequests != nil {
		b.SpecialRequests = update.SpecialRequests
	}
	b.UpdatedAt = time.Now()
	copied := *b
	return &copied, nil
}

func (r *memoryBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	r.statusUpdates = append(r.statusUpdates, status)
	return nil
}

func (r *memoryBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func (r *memoryBookingRepo) put(b *domain.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	copied := *b
	r.items[copied.ID] = &copied
}

type memoryPaymentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.Payment
}

func newMemoryPaymentRepo() *memoryPaymentRepo {
	return &memoryPaymentRepo{items: make(map[uuid.UUID]*domain.Payment)}
}

func (r *memoryPaymentRepo) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.BookingID == payment.BookingID {
			return nil, uniqueViolation("payment_booking_id_key")
		}
	}
	stored := *payment
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.items[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *memoryPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.items[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (r *memoryPaymentRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.BookingID == bookingID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryPaymentRepo) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.TransactionID != nil && *p.TransactionID == transactionID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryPaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, gatewayResponse json.RawMessage) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	p.Status = status
	if gatewayResponse != nil {
		p.VerificationResponse = append(json.RawMessage(nil), gatewayResponse...)
	}
	if status == domain.PaymentStatusCompleted && p.PaymentDate == nil {
		now := time.Now()
		p.PaymentDate = &now
	}
	p.UpdatedAt = time.Now()
	copied := *p
	return &copied, nil
}

type memoryReviewRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.Review
}

func newMemoryReviewRepo() *memoryReviewRepo {
	return &memoryReviewRepo{items: make(map[uuid.UUID]*domain.Review)}
}

func (r *memoryReviewRepo) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.UserID == review.UserID && existing.DestinationID == review.DestinationID {
			return nil, uniqueViolation("review_user_id_destination_id_key")
		}
	}
	stored := *review
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.items[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *memoryReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rev, ok := r.items[id]; ok {
		copied := *rev
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (r *memoryReviewRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Review, 0)
	for _, rev := range r.items {
		if rev.UserID == userID {
			out = append(out, *rev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryReviewRepo) Update(ctx context.Context, id uuid.UUID, update domain.ReviewUpdate) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if update.Rating != nil {
		rev.Rating = *update.Rating
	}
	if update.Comment != nil {
		rev.Comment = *update.Comment
	}
	rev.UpdatedAt = time.Now()
	copied := *rev
	return &copied, nil
}

func (r *memoryReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

type fakeGateway struct {
	initiateReq    ports.GatewayInitiateRequest
	initiateResult *ports.GatewayInitiateResult
	initiateErr    error

	verifyInput  string
	verifyResult *ports.GatewayVerifyResult
	verifyErr    error
}

func (g *fakeGateway) Initiate(ctx context.Context, req ports.GatewayInitiateRequest) (*ports.GatewayInitiateResult, error) {
	g.initiateReq = req
	return g.initiateResult, g.initiateErr
}

func (g *fakeGateway) Verify(ctx context.Context, transactionID string) (*ports.GatewayVerifyResult, error) {
	g.verifyInput = transactionID
	return g.verifyResult, g.verifyErr
}

type publishedTask struct {
	taskType string
	payload  any
}

type fakePublisher struct {
	mu        sync.Mutex
	published []publishedTask
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, taskType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, publishedTask{taskType: taskType, payload: payload})
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.published))
	for _, task := range p.published {
		out = append(out, task.taskType)
	}
	return out
}

type fakeStorage struct {
	bucket      string
	objectName  string
	contentType string
	uploaded    []byte
	err         error
}

func (s *fakeStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.bucket = bucket
	s.objectName = objectName
	s.contentType = contentType
	s.uploaded = data
	return "http://storage.local/" + bucket + "/" + objectName, nil
}
