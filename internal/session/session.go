package session

import (
	"sync"
	"time"

	"github.com/cryptobooking/booking-client/pkg/enums"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/models"
	"github.com/cryptobooking/booking-client/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
)

// Connection is everything that exists only while a wallet is connected.
// It is swapped as a whole.
type Connection struct {
	Account  common.Address
	Contract Contract
	provider wallet.Provider
}

// Session is the state of one client shell. All fields are guarded by mu.
type Session struct {
	id string

	mu         sync.RWMutex
	conn       *Connection
	generation uint64
	apartments []models.Apartment
	bookings   []models.Booking
	tab        enums.Tab
	modal      enums.Modal
	selected   uint64
	loading    int
	lastErr    error
	lastSeen   time.Time
}

// New returns a disconnected session on the browse tab.
func New(id string, now time.Time) *Session {
	return &Session{
		id:       id,
		tab:      enums.TabBrowse,
		modal:    enums.ModalNone,
		lastSeen: now,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Connection returns the current connection and its generation. ok is false
// when disconnected.
func (s *Session) Connection() (conn Connection, generation uint64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conn == nil {
		return Connection{}, s.generation, false
	}
	return *s.conn, s.generation, true
}

// Connected reports whether a wallet is connected.
func (s *Session) Connected() bool {
	_, _, ok := s.Connection()
	return ok
}

// Generation identifies the current connection; it changes on every
// connect, disconnect and reset.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// swapConnection installs conn (nil to disconnect), clears the views and
// returns the previous connection for the caller to release.
func (s *Session) swapConnection(conn *Connection) *Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.conn
	s.conn = conn
	s.generation++
	s.apartments = nil
	s.bookings = nil
	if conn == nil && s.modal != enums.ModalNone {
		s.modal = enums.ModalNone
		s.selected = 0
	}
	return prev
}

func (s *Session) Apartments() []models.Apartment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Apartment(nil), s.apartments...)
}

func (s *Session) Bookings() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Booking(nil), s.bookings...)
}

// Apartment looks a unit up in the apartments view.
func (s *Session) Apartment(id uint64) (models.Apartment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, apt := range s.apartments {
		if apt.ID == id {
			return apt, true
		}
	}
	return models.Apartment{}, false
}

// Booking looks a reservation up in the bookings view.
func (s *Session) Booking(id uint64) (models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

// ReplaceApartments installs a freshly fetched collection. It is a no-op
// returning false when generation is no longer current.
func (s *Session) ReplaceApartments(generation uint64, apartments []models.Apartment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation || s.conn == nil {
		return false
	}
	s.apartments = apartments
	return true
}

// ReplaceBookings installs a freshly fetched collection. It is a no-op
// returning false when generation is no longer current.
func (s *Session) ReplaceBookings(generation uint64, bookings []models.Booking) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation || s.conn == nil {
		return false
	}
	s.bookings = bookings
	return true
}

func (s *Session) SetError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Session) ClearError() {
	s.SetError(nil)
}

func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// BeginLoading marks an operation in progress; the returned func ends it.
func (s *Session) BeginLoading() func() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.loading--
			s.mu.Unlock()
		})
	}
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

func (s *Session) Tab() enums.Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tab
}

func (s *Session) SetTab(tab enums.Tab) {
	s.mu.Lock()
	s.tab = tab
	s.mu.Unlock()
}

// Modal returns the open modal and, for the booking modal, the selected unit.
func (s *Session) Modal() (enums.Modal, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modal, s.selected
}

func (s *Session) OpenModal(modal enums.Modal, apartmentID uint64) {
	s.mu.Lock()
	s.modal = modal
	s.selected = apartmentID
	s.mu.Unlock()
}

func (s *Session) CloseModal() {
	s.OpenModal(enums.ModalNone, 0)
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// Snapshot is a consistent copy of session state for rendering.
type Snapshot struct {
	ID                  string
	Connected           bool
	Account             string
	Apartments          []models.Apartment
	Bookings            []models.Booking
	Tab                 enums.Tab
	Modal               enums.Modal
	SelectedApartmentID uint64
	Loading             bool
	Error               string
	ErrorCode           string
}

// Snapshot copies the session under one lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		ID:                  s.id,
		Connected:           s.conn != nil,
		Apartments:          append([]models.Apartment(nil), s.apartments...),
		Bookings:            append([]models.Booking(nil), s.bookings...),
		Tab:                 s.tab,
		Modal:               s.modal,
		SelectedApartmentID: s.selected,
		Loading:             s.loading > 0,
	}
	if s.conn != nil {
		snap.Account = s.conn.Account.Hex()
	}
	if s.lastErr != nil {
		snap.Error = pkgerrors.UserMessage(s.lastErr)
		snap.ErrorCode = string(pkgerrors.CodeOf(s.lastErr))
	}
	return snap
}
