// Package memstore is an in-memory implementation of the repository
// interfaces. It keeps the same ordering, join and error contracts as the
// PostgreSQL repositories and is used by tests and local demos.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/repositories"

	"github.com/google/uuid"
)

// Entity names accepted by Fail.
const (
	EntityClients  = "clients"
	EntityServices = "services"
	EntityBookings = "bookings"
	EntityInvoices = "invoices"
	EntityProfiles = "profiles"
)

type row[T any] struct {
	seq int
	val T
}

// Store holds every table behind a single mutex.
type Store struct {
	mu       sync.Mutex
	seq      int
	invoiceN int
	now      func() time.Time
	failures map[string]error

	clients  map[string]row[models.Client]
	services map[string]row[models.Service]
	bookings map[string]row[models.Booking]
	invoices map[string]row[models.Invoice]
	profiles map[string]models.UserProfile
}

// New returns an empty store whose timestamps come from time.Now.
func New() *Store {
	return &Store{
		now:      time.Now,
		failures: map[string]error{},
		clients:  map[string]row[models.Client]{},
		services: map[string]row[models.Service]{},
		bookings: map[string]row[models.Booking]{},
		invoices: map[string]row[models.Invoice]{},
		profiles: map[string]models.UserProfile{},
	}
}

// SetClock replaces the timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Fail makes every call touching entity return err. A nil err clears it.
func (s *Store) Fail(entity string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, entity)
		return
	}
	s.failures[entity] = err
}

func (s *Store) next() int {
	s.seq++
	return s.seq
}

// SeedService inserts a service as-is, generating an ID when missing.
func (s *Store) SeedService(svc models.Service) models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	if svc.CreatedAt.IsZero() {
		svc.CreatedAt = s.now().UTC()
	}
	s.services[svc.ID] = row[models.Service]{seq: s.next(), val: svc}
	return svc
}

// SeedClient inserts a client keeping its timestamps, for fixtures that need
// specific created_at values.
func (s *Store) SeedClient(c models.Client) models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
		c.UpdatedAt = c.CreatedAt
	}
	s.clients[c.ID] = row[models.Client]{seq: s.next(), val: c}
	return c
}

// SeedBooking inserts a booking as-is.
func (s *Store) SeedBooking(b models.Booking) models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now().UTC()
		b.UpdatedAt = b.CreatedAt
	}
	b.Client = nil
	s.bookings[b.ID] = row[models.Booking]{seq: s.next(), val: b}
	return s.joinBooking(b)
}

// SeedInvoice inserts an invoice as-is, assigning a number when missing.
func (s *Store) SeedInvoice(inv models.Invoice) models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = s.nextInvoiceNumber()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = s.now().UTC()
		inv.UpdatedAt = inv.CreatedAt
	}
	inv.Client, inv.Booking = nil, nil
	s.invoices[inv.ID] = row[models.Invoice]{seq: s.next(), val: inv}
	return s.joinInvoice(inv)
}

// SeedProfile inserts a user profile.
func (s *Store) SeedProfile(p models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

func (s *Store) nextInvoiceNumber() string {
	s.invoiceN++
	return fmt.Sprintf("INV-%s-%05d", s.now().Format("200601"), s.invoiceN)
}

func (s *Store) joinBooking(b models.Booking) models.Booking {
	if c, ok := s.clients[b.ClientID]; ok {
		client := c.val
		b.Client = &client
	}
	return b
}

func (s *Store) joinInvoice(inv models.Invoice) models.Invoice {
	if c, ok := s.clients[inv.ClientID]; ok {
		client := c.val
		inv.Client = &client
	}
	if inv.BookingID != nil {
		if b, ok := s.bookings[*inv.BookingID]; ok {
			booking := b.val
			inv.Booking = &booking
		}
	}
	return inv
}

// newestFirst orders rows by timestamp descending, later inserts first on ties.
func newestFirst[T any](rows []row[T], at func(T) time.Time) {
	sort.SliceStable(rows, func(i, j int) bool {
		ti, tj := at(rows[i].val), at(rows[j].val)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return rows[i].seq > rows[j].seq
	})
}

// Clients returns the client repository view of the store.
func (s *Store) Clients() repositories.ClientRepository { return clientRepo{s} }

// Services returns the service repository view of the store.
func (s *Store) Services() repositories.ServiceRepository { return serviceRepo{s} }

// Bookings returns the booking repository view of the store.
func (s *Store) Bookings() repositories.BookingRepository { return bookingRepo{s} }

// Invoices returns the invoice repository view of the store.
func (s *Store) Invoices() repositories.InvoiceRepository { return invoiceRepo{s} }

// Profiles returns the profile repository view of the store.
func (s *Store) Profiles() repositories.ProfileRepository { return profileRepo{s} }

// begin locks the store and reports an injected failure or a done context.
func (s *Store) begin(ctx context.Context, entity string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if err := s.failures[entity]; err != nil {
		s.mu.Unlock()
		return err
	}
	return nil
}

type clientRepo struct{ s *Store }

func (r clientRepo) emailTaken(email, exceptID string) bool {
	for id, c := range r.s.clients {
		if id != exceptID && strings.EqualFold(c.val.Email, email) {
			return true
		}
	}
	return false
}

func (r clientRepo) CreateClient(ctx context.Context, _ repositories.SQLExecutor, client *models.Client) (*models.Client, error) {
	if err := r.s.begin(ctx, EntityClients); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	if r.emailTaken(client.Email, "") {
		return nil, fmt.Errorf("%w: clients_email_key", repositories.ErrDuplicateKey)
	}
	c := *client
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = r.s.now().UTC()
	c.UpdatedAt = c.CreatedAt
	r.s.clients[c.ID] = row[models.Client]{seq: r.s.next(), val: c}
	return &c, nil
}

func (r clientRepo) GetClientByID(ctx context.Context, id string) (*models.Client, error) {
	if err := r.s.begin(ctx, EntityClients); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c.val, nil
}

func (r clientRepo) GetClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	if err := r.s.begin(ctx, EntityClients); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, c := range r.s.clients {
		if strings.EqualFold(c.val.Email, email) {
			found := c.val
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r clientRepo) GetClients(ctx context.Context) ([]models.Client, error) {
	if err := r.s.begin(ctx, EntityClients); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	rows := make([]row[models.Client], 0, len(r.s.clients))
	for _, c := range r.s.clients {
		rows = append(rows, c)
	}
	newestFirst(rows, func(c models.Client) time.Time { return c.CreatedAt })
	clients := make([]models.Client, 0, len(rows))
	for _, c := range rows {
		clients = append(clients, c.val)
	}
	return clients, nil
}

func (r clientRepo) UpdateClient(ctx context.Context, _ repositories.SQLExecutor, client *models.Client) (*models.Client, error) {
	if err := r.s.begin(ctx, EntityClients); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	existing, ok := r.s.clients[client.ID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if r.emailTaken(client.Email, client.ID) {
		return nil, fmt.Errorf("%w: clients_email_key", repositories.ErrDuplicateKey)
	}
	c := *client
	c.CreatedAt = existing.val.CreatedAt
	c.UpdatedAt = r.s.now().UTC()
	r.s.clients[c.ID] = row[models.Client]{seq: existing.seq, val: c}
	return &c, nil
}

type serviceRepo struct{ s *Store }

func (r serviceRepo) GetActiveServices(ctx context.Context) ([]models.Service, error) {
	if err := r.s.begin(ctx, EntityServices); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	services := []models.Service{}
	for _, svc := range r.s.services {
		if svc.val.IsActive {
			services = append(services, svc.val)
		}
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services, nil
}

func (r serviceRepo) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	if err := r.s.begin(ctx, EntityServices); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &svc.val, nil
}

type bookingRepo struct{ s *Store }

func (r bookingRepo) CreateBooking(ctx context.Context, _ repositories.SQLExecutor, booking *models.Booking) (*models.Booking, error) {
	if err := r.s.begin(ctx, EntityBookings); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[booking.ClientID]; !ok {
		return nil, fmt.Errorf("%w: bookings_client_id_fkey", repositories.ErrForeignKey)
	}
	b := *booking
	b.Client = nil
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = r.s.now().UTC()
	b.UpdatedAt = b.CreatedAt
	r.s.bookings[b.ID] = row[models.Booking]{seq: r.s.next(), val: b}
	joined := r.s.joinBooking(b)
	return &joined, nil
}

func (r bookingRepo) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	if err := r.s.begin(ctx, EntityBookings); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	joined := r.s.joinBooking(b.val)
	return &joined, nil
}

func (r bookingRepo) GetBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, error) {
	if err := r.s.begin(ctx, EntityBookings); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	rows := []row[models.Booking]{}
	for _, b := range r.s.bookings {
		switch {
		case filters.ClientID != nil && b.val.ClientID != *filters.ClientID,
			filters.Status != nil && b.val.Status != *filters.Status,
			filters.DateFrom != nil && b.val.StartTime.Before(*filters.DateFrom),
			filters.DateTo != nil && b.val.StartTime.After(*filters.DateTo):
			continue
		}
		rows = append(rows, b)
	}
	newestFirst(rows, func(b models.Booking) time.Time { return b.StartTime })
	bookings := make([]models.Booking, 0, len(rows))
	for _, b := range rows {
		bookings = append(bookings, r.s.joinBooking(b.val))
	}
	if filters.Ascending {
		for i, j := 0, len(bookings)-1; i < j; i, j = i+1, j-1 {
			bookings[i], bookings[j] = bookings[j], bookings[i]
		}
	}
	return bookings, nil
}

func (r bookingRepo) UpdateBooking(ctx context.Context, _ repositories.SQLExecutor, booking *models.Booking) (*models.Booking, error) {
	if err := r.s.begin(ctx, EntityBookings); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	existing, ok := r.s.bookings[booking.ID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	b := *booking
	b.Client = nil
	b.CreatedAt = existing.val.CreatedAt
	b.UpdatedAt = r.s.now().UTC()
	r.s.bookings[b.ID] = row[models.Booking]{seq: existing.seq, val: b}
	joined := r.s.joinBooking(b)
	return &joined, nil
}

type invoiceRepo struct{ s *Store }

func (r invoiceRepo) CreateInvoice(ctx context.Context, _ repositories.SQLExecutor, invoice *models.Invoice) (*models.Invoice, error) {
	if err := r.s.begin(ctx, EntityInvoices); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[invoice.ClientID]; !ok {
		return nil, fmt.Errorf("%w: invoices_client_id_fkey", repositories.ErrForeignKey)
	}
	inv := *invoice
	inv.Client, inv.Booking = nil, nil
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	inv.InvoiceNumber = r.s.nextInvoiceNumber()
	inv.CreatedAt = r.s.now().UTC()
	inv.UpdatedAt = inv.CreatedAt
	r.s.invoices[inv.ID] = row[models.Invoice]{seq: r.s.next(), val: inv}
	joined := r.s.joinInvoice(inv)
	return &joined, nil
}

func (r invoiceRepo) GetInvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	if err := r.s.begin(ctx, EntityInvoices); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	joined := r.s.joinInvoice(inv.val)
	return &joined, nil
}

func (r invoiceRepo) GetInvoices(ctx context.Context, filters models.InvoiceFilters) ([]models.Invoice, error) {
	if err := r.s.begin(ctx, EntityInvoices); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	rows := []row[models.Invoice]{}
	for _, inv := range r.s.invoices {
		if filters.ClientID != nil && inv.val.ClientID != *filters.ClientID {
			continue
		}
		if filters.Status != nil && inv.val.Status != *filters.Status {
			continue
		}
		rows = append(rows, inv)
	}
	newestFirst(rows, func(inv models.Invoice) time.Time { return inv.CreatedAt })
	invoices := make([]models.Invoice, 0, len(rows))
	for _, inv := range rows {
		invoices = append(invoices, r.s.joinInvoice(inv.val))
	}
	return invoices, nil
}

func (r invoiceRepo) UpdateInvoice(ctx context.Context, _ repositories.SQLExecutor, invoice *models.Invoice) (*models.Invoice, error) {
	if err := r.s.begin(ctx, EntityInvoices); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	existing, ok := r.s.invoices[invoice.ID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	inv := *invoice
	inv.Client, inv.Booking = nil, nil
	inv.InvoiceNumber = existing.val.InvoiceNumber
	inv.CreatedAt = existing.val.CreatedAt
	inv.UpdatedAt = r.s.now().UTC()
	r.s.invoices[inv.ID] = row[models.Invoice]{seq: existing.seq, val: inv}
	joined := r.s.joinInvoice(inv)
	return &joined, nil
}

type profileRepo struct{ s *Store }

func (r profileRepo) GetProfileByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	if err := r.s.begin(ctx, EntityProfiles); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}
