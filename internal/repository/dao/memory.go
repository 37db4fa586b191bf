package dao

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is the in-memory implementation of the DAO layer, selected
// with database.driver = "memory". Every operation runs under one mutex, so
// the multi-step register and check-in sequences are serializable exactly
// like their Postgres transaction counterparts. The service test suites run
// against this store.
type MemoryStore struct {
	mu sync.Mutex

	users         map[uint]User
	events        map[uint]Event
	registrations map[uint]Registration
	credits       []ActivityCredit

	nextUserID         uint
	nextEventID        uint
	nextRegistrationID uint
	nextCreditID       uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[uint]User),
		events:        make(map[uint]Event),
		registrations: make(map[uint]Registration),
	}
}

func (s *MemoryStore) Users() *MemoryUserDAO                 { return &MemoryUserDAO{store: s} }
func (s *MemoryStore) Events() *MemoryEventDAO               { return &MemoryEventDAO{store: s} }
func (s *MemoryStore) Registrations() *MemoryRegistrationDAO { return &MemoryRegistrationDAO{store: s} }
func (s *MemoryStore) Credits() *MemoryCreditDAO             { return &MemoryCreditDAO{store: s} }

func (s *MemoryStore) activeCount(eventID uint) int {
	count := 0
	for _, reg := range s.registrations {
		if reg.EventID == eventID && reg.CanceledAt == nil {
			count++
		}
	}
	return count
}

func (s *MemoryStore) appendCredit(credit ActivityCredit) ActivityCredit {
	s.nextCreditID++
	credit.ID = s.nextCreditID
	if credit.CreatedAt.IsZero() {
		credit.CreatedAt = time.Now()
	}
	s.credits = append(s.credits, credit)
	return credit
}

type MemoryUserDAO struct {
	store *MemoryStore
}

func (d *MemoryUserDAO) Insert(_ context.Context, user User) (User, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return User{}, ErrUserEmailExists
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user

	return user, nil
}

func (d *MemoryUserDAO) FindByID(_ context.Context, id uint) (User, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}

	return user, nil
}

func (d *MemoryUserDAO) FindByEmail(_ context.Context, email string) (User, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}

	return User{}, ErrUserNotFound
}

func (d *MemoryUserDAO) Approve(_ context.Context, id uint) (User, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}

	user.IsApproved = true
	user.UpdatedAt = time.Now()
	s.users[id] = user

	return user, nil
}

func (d *MemoryUserDAO) CountByRole(_ context.Context, role string) (int64, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, user := range s.users {
		if user.Role == role {
			count++
		}
	}

	return count, nil
}

type MemoryEventDAO struct {
	store *MemoryStore
}

func (d *MemoryEventDAO) InsertWithCredit(_ context.Context, event Event, credit ActivityCredit) (Event, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	event.ID = s.nextEventID
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	s.events[event.ID] = event

	s.appendCredit(credit)

	return event, nil
}

func (d *MemoryEventDAO) FindByID(_ context.Context, id uint) (EventWithCount, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return EventWithCount{}, ErrEventNotFound
	}

	return EventWithCount{Event: event, Registered: s.activeCount(id)}, nil
}

func (d *MemoryEventDAO) Find(_ context.Context, category, query string) ([]EventWithCount, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []EventWithCount
	for _, event := range s.events {
		if category != "" && event.Category != category {
			continue
		}
		if query != "" {
			q := strings.ToLower(query)
			if !strings.Contains(strings.ToLower(event.Title), q) &&
				!strings.Contains(strings.ToLower(event.Description), q) {
				continue
			}
		}
		events = append(events, EventWithCount{Event: event, Registered: s.activeCount(event.ID)})
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})

	return events, nil
}

func (d *MemoryEventDAO) FindByOrganizer(_ context.Context, organizerID uint) ([]EventWithCount, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []EventWithCount
	for _, event := range s.events {
		if event.OrganizerID == organizerID {
			events = append(events, EventWithCount{Event: event, Registered: s.activeCount(event.ID)})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.After(events[j].StartTime)
	})

	return events, nil
}

func (d *MemoryEventDAO) Count(_ context.Context) (int64, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.events)), nil
}

type MemoryRegistrationDAO struct {
	store *MemoryStore
}

func (d *MemoryRegistrationDAO) Insert(_ context.Context, reg Registration) (Registration, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[reg.EventID]
	if !ok {
		return Registration{}, ErrEventNotFound
	}

	if s.activeCount(reg.EventID) >= event.Capacity {
		return Registration{}, ErrEventFull
	}

	for _, existing := range s.registrations {
		if existing.EventID == reg.EventID && existing.UserID == reg.UserID && existing.CanceledAt == nil {
			return Registration{}, ErrAlreadyRegistered
		}
		if existing.TicketToken == reg.TicketToken {
			return Registration{}, ErrTicketTokenTaken
		}
	}

	s.nextRegistrationID++
	reg.ID = s.nextRegistrationID
	reg.CreatedAt = time.Now()
	s.registrations[reg.ID] = reg

	return reg, nil
}

func (d *MemoryRegistrationDAO) FindByID(_ context.Context, id uint) (Registration, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[id]
	if !ok {
		return Registration{}, ErrRegistrationNotFound
	}
	reg.Event = s.events[reg.EventID]

	return reg, nil
}

func (d *MemoryRegistrationDAO) FindByToken(_ context.Context, token string) (Registration, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, reg := range s.registrations {
		if reg.TicketToken == token {
			reg.User = s.users[reg.UserID]
			reg.Event = s.events[reg.EventID]
			return reg, nil
		}
	}

	return Registration{}, ErrRegistrationNotFound
}

func (d *MemoryRegistrationDAO) FindByUser(_ context.Context, userID uint) ([]Registration, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var regs []Registration
	for _, reg := range s.registrations {
		if reg.UserID == userID {
			reg.Event = s.events[reg.EventID]
			regs = append(regs, reg)
		}
	}

	sort.Slice(regs, func(i, j int) bool {
		return regs[i].CreatedAt.After(regs[j].CreatedAt)
	})

	return regs, nil
}

func (d *MemoryRegistrationDAO) FindByEvent(_ context.Context, eventID uint) ([]Registration, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var regs []Registration
	for _, reg := range s.registrations {
		if reg.EventID == eventID {
			reg.User = s.users[reg.UserID]
			regs = append(regs, reg)
		}
	}

	sort.Slice(regs, func(i, j int) bool {
		return regs[i].CreatedAt.Before(regs[j].CreatedAt)
	})

	return regs, nil
}

func (d *MemoryRegistrationDAO) SetCanceled(_ context.Context, id uint, at time.Time) error {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[id]
	if !ok || reg.Attended || reg.CanceledAt != nil {
		return ErrTicketNotPending
	}

	reg.CanceledAt = &at
	s.registrations[id] = reg

	return nil
}

func (d *MemoryRegistrationDAO) MarkAttendedWithCredit(_ context.Context, id uint, credit ActivityCredit) error {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[id]
	if !ok || reg.Attended || reg.CanceledAt != nil {
		return ErrTicketNotPending
	}

	reg.Attended = true
	s.registrations[id] = reg
	s.appendCredit(credit)

	return nil
}

func (d *MemoryRegistrationDAO) CountActiveByEvent(_ context.Context, eventID uint) (int64, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(s.activeCount(eventID)), nil
}

func (d *MemoryRegistrationDAO) CountActive(_ context.Context) (int64, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, reg := range s.registrations {
		if reg.CanceledAt == nil {
			count++
		}
	}

	return count, nil
}

func (d *MemoryRegistrationDAO) CountAttended(_ context.Context) (int64, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, reg := range s.registrations {
		if reg.Attended {
			count++
		}
	}

	return count, nil
}

type MemoryCreditDAO struct {
	store *MemoryStore
}

func (d *MemoryCreditDAO) FindByUser(_ context.Context, userID uint) ([]ActivityCredit, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var credits []ActivityCredit
	for _, credit := range s.credits {
		if credit.UserID == userID {
			credits = append(credits, credit)
		}
	}

	sort.Slice(credits, func(i, j int) bool {
		return credits[i].CreatedAt.After(credits[j].CreatedAt)
	})

	return credits, nil
}

func (d *MemoryCreditDAO) SumPointsByUser(_ context.Context, userID uint) (int, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, credit := range s.credits {
		if credit.UserID == userID {
			total += credit.Points
		}
	}

	return total, nil
}

func (d *MemoryCreditDAO) FindByUserAndCategory(_ context.Context, userID uint, category string) ([]ActivityCredit, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var credits []ActivityCredit
	for _, credit := range s.credits {
		if credit.UserID == userID && credit.Category == category {
			credits = append(credits, credit)
		}
	}

	sort.Slice(credits, func(i, j int) bool {
		return credits[i].CreatedAt.After(credits[j].CreatedAt)
	})

	return credits, nil
}
