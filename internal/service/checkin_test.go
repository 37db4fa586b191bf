package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/repository"
)

func TestCheckInService_CheckIn(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(time.Hour)

	setup := func(t *testing.T) (*repository.Store, *CheckInService, *publisherStub, domain.User, domain.Event, domain.User, domain.Registration) {
		t.Helper()

		store := repository.NewMemoryStore()
		publisher := &publisherStub{}
		svc := NewCheckInService(store.Registrations, store.Events, publisher)

		organizer := seedOrganizer(t, store, "org@campus.edu")
		event := seedEvent(t, store, organizer.ID, 10, future)

		student := seedStudent(t, store, "alice@campus.edu")
		regSvc := newRegistrationService(store, &mailerStub{})
		reg, err := regSvc.Register(ctx, student, event.ID)
		require.NoError(t, err)

		return store, svc, publisher, organizer, event, student, reg
	}

	t.Run("marks attendance and issues the credit atomically", func(t *testing.T) {
		store, svc, publisher, organizer, event, student, reg := setup(t)

		result, err := svc.CheckIn(ctx, organizer, event.ID, reg.TicketToken)
		require.NoError(t, err)

		assert.Equal(t, reg.ID, result.RegistrationID)
		assert.Equal(t, event.ID, result.EventID)
		assert.Equal(t, student.Name, result.StudentName)
		assert.False(t, result.CheckedInAt.IsZero())

		current, err := store.Registrations.FindByID(ctx, reg.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAttended, current.Status())

		credits, err := store.Credits.FindByUser(ctx, student.ID)
		require.NoError(t, err)
		require.Len(t, credits, 1)
		assert.Equal(t, domain.CreditAttendance, credits[0].Category)
		assert.Equal(t, domain.AttendancePoints, credits[0].Points)
		assert.Equal(t, "Attended: "+event.Title, credits[0].Reason)

		published := publisher.results()
		require.Len(t, published, 1)
		assert.Equal(t, reg.ID, published[0].RegistrationID)
	})

	t.Run("a second scan reports who already checked in, without a second credit", func(t *testing.T) {
		store, svc, _, organizer, event, student, reg := setup(t)

		_, err := svc.CheckIn(ctx, organizer, event.ID, reg.TicketToken)
		require.NoError(t, err)

		result, err := svc.CheckIn(ctx, organizer, event.ID, reg.TicketToken)
		assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
		assert.Equal(t, student.Name, result.StudentName)

		credits, err := store.Credits.FindByUser(ctx, student.ID)
		require.NoError(t, err)
		assert.Len(t, credits, 1)
	})

	t.Run("a ticket for another event never counts toward this one", func(t *testing.T) {
		store, svc, _, organizer, _, student, reg := setup(t)

		other := seedEvent(t, store, organizer.ID, 10, future)

		_, err := svc.CheckIn(ctx, organizer, other.ID, reg.TicketToken)
		assert.ErrorIs(t, err, ErrWrongEvent)

		current, err := store.Registrations.FindByID(ctx, reg.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, current.Status())

		credits, err := store.Credits.FindByUser(ctx, student.ID)
		require.NoError(t, err)
		assert.Empty(t, credits)
	})

	t.Run("canceled tickets are rejected", func(t *testing.T) {
		store, svc, _, organizer, event, student, reg := setup(t)

		regSvc := newRegistrationService(store, &mailerStub{})
		_, err := regSvc.Cancel(ctx, student, reg.ID)
		require.NoError(t, err)

		_, err = svc.CheckIn(ctx, organizer, event.ID, reg.TicketToken)
		assert.ErrorIs(t, err, ErrTicketCanceled)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, svc, _, organizer, event, _, _ := setup(t)

		_, err := svc.CheckIn(ctx, organizer, event.ID, "not-a-ticket")
		assert.ErrorIs(t, err, ErrInvalidTicket)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, svc, _, organizer, _, _, reg := setup(t)

		_, err := svc.CheckIn(ctx, organizer, 404, reg.TicketToken)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("only the owning organizer may scan", func(t *testing.T) {
		store, svc, _, _, event, _, reg := setup(t)

		rival := seedOrganizer(t, store, "rival@campus.edu")
		_, err := svc.CheckIn(ctx, rival, event.ID, reg.TicketToken)
		assert.ErrorIs(t, err, ErrNotEventOrganizer)
	})

	t.Run("unapproved organizers cannot scan", func(t *testing.T) {
		store, svc, _, _, event, _, reg := setup(t)

		pending := seedUser(t, store, "pending@campus.edu", domain.RoleOrganizer, false)
		_, err := svc.CheckIn(ctx, pending, event.ID, reg.TicketToken)
		assert.ErrorIs(t, err, ErrNotEventOrganizer)
	})

	t.Run("students cannot scan", func(t *testing.T) {
		store, svc, _, _, event, _, reg := setup(t)

		student := seedStudent(t, store, "bob@campus.edu")
		_, err := svc.CheckIn(ctx, student, event.ID, reg.TicketToken)
		assert.ErrorIs(t, err, ErrNotEventOrganizer)
	})
}

// Concurrent scans of the same ticket admit exactly one check-in and exactly
// one credit.
func TestCheckInService_CheckIn_ConcurrentScans(t *testing.T) {
	ctx := context.Background()

	store := repository.NewMemoryStore()
	svc := NewCheckInService(store.Registrations, store.Events, nil)

	organizer := seedOrganizer(t, store, "org@campus.edu")
	event := seedEvent(t, store, organizer.ID, 10, time.Now().Add(time.Hour))
	student := seedStudent(t, store, "alice@campus.edu")

	regSvc := newRegistrationService(store, &mailerStub{})
	reg, err := regSvc.Register(ctx, student, event.ID)
	require.NoError(t, err)

	const scans = 10

	var wg sync.WaitGroup
	errs := make([]error, scans)
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CheckIn(ctx, organizer, event.ID, reg.TicketToken)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
		}
	}
	assert.Equal(t, 1, succeeded)

	credits, err := store.Credits.FindByUser(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, credits, 1, "exactly one credit regardless of scan races")
}
