package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/notify"
	"github.com/campushub/campus-events-api/internal/repository"
)

// The service suites run against the in-memory store, so every test
// exercises the real repository wiring instead of hand-rolled mocks.

type mailerStub struct {
	mu   sync.Mutex
	msgs []notify.RegistrationConfirmation
}

func (m *mailerStub) RegistrationConfirmed(msg notify.RegistrationConfirmation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.msgs = append(m.msgs, msg)
}

func (m *mailerStub) sent() []notify.RegistrationConfirmation {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]notify.RegistrationConfirmation(nil), m.msgs...)
}

type publisherStub struct {
	mu        sync.Mutex
	published []CheckInResult
}

func (p *publisherStub) Publish(_ uint, result CheckInResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.published = append(p.published, result)
}

func (p *publisherStub) results() []CheckInResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]CheckInResult(nil), p.published...)
}

func seedUser(t *testing.T, store *repository.Store, email string, role domain.Role, approved bool) domain.User {
	t.Helper()

	user, err := store.Users.Create(context.Background(), domain.User{
		Email:      email,
		Password:   "not-a-real-hash",
		Name:       "User " + email,
		Role:       role,
		IsApproved: approved,
	})
	require.NoError(t, err)

	return user
}

func seedStudent(t *testing.T, store *repository.Store, email string) domain.User {
	t.Helper()

	return seedUser(t, store, email, domain.RoleStudent, true)
}

func seedOrganizer(t *testing.T, store *repository.Store, email string) domain.User {
	t.Helper()

	return seedUser(t, store, email, domain.RoleOrganizer, true)
}

func seedEvent(t *testing.T, store *repository.Store, organizerID uint, capacity int, start time.Time) domain.Event {
	t.Helper()

	title := fmt.Sprintf("Event by organizer %d", organizerID)
	event, err := store.Events.CreateWithCredit(context.Background(), domain.Event{
		Title:       title,
		Description: "Seeded for tests",
		Venue:       "Main Auditorium",
		Category:    domain.CategoryTechnical,
		StartTime:   start,
		Capacity:    capacity,
		OrganizerID: organizerID,
	}, domain.OrganizeCredit(organizerID, title))
	require.NoError(t, err)

	return event
}
