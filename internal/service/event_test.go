package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/repository"
)

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	valid := func() domain.Event {
		return domain.Event{
			Title:       "Intro to Distributed Systems",
			Description: "Guest lecture",
			Venue:       "Hall B",
			Category:    domain.CategoryTechnical,
			StartTime:   time.Now().Add(48 * time.Hour),
			Capacity:    150,
		}
	}

	t.Run("creates the event and the organize credit together", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewEventService(store.Events)

		organizer := seedOrganizer(t, store, "org@campus.edu")

		created, err := svc.CreateEvent(ctx, valid(), organizer)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, organizer.ID, created.OrganizerID)

		credits, err := store.Credits.FindByUser(ctx, organizer.ID)
		require.NoError(t, err)
		require.Len(t, credits, 1)
		assert.Equal(t, domain.CreditOrganize, credits[0].Category)
		assert.Equal(t, domain.OrganizePoints, credits[0].Points)
		assert.Equal(t, "Organized: "+created.Title, credits[0].Reason)
	})

	t.Run("students cannot create events", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewEventService(store.Events)

		student := seedStudent(t, store, "alice@campus.edu")
		_, err := svc.CreateEvent(ctx, valid(), student)
		assert.ErrorIs(t, err, ErrNotOrganizer)
	})

	t.Run("unapproved organizers cannot create events", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewEventService(store.Events)

		pending := seedUser(t, store, "pending@campus.edu", domain.RoleOrganizer, false)
		_, err := svc.CreateEvent(ctx, valid(), pending)
		assert.ErrorIs(t, err, ErrOrganizerNotApproved)
	})

	t.Run("validation", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewEventService(store.Events)
		organizer := seedOrganizer(t, store, "org@campus.edu")

		noTitle := valid()
		noTitle.Title = "   "
		_, err := svc.CreateEvent(ctx, noTitle, organizer)
		assert.ErrorIs(t, err, ErrMissingTitle)

		zeroCapacity := valid()
		zeroCapacity.Capacity = 0
		_, err = svc.CreateEvent(ctx, zeroCapacity, organizer)
		assert.ErrorIs(t, err, ErrInvalidCapacity)

		past := valid()
		past.StartTime = time.Now().Add(-time.Hour)
		_, err = svc.CreateEvent(ctx, past, organizer)
		assert.ErrorIs(t, err, ErrStartTimeInPast)
	})
}

func TestEventService_ListEvents(t *testing.T) {
	ctx := context.Background()

	store := repository.NewMemoryStore()
	svc := NewEventService(store.Events)
	organizer := seedOrganizer(t, store, "org@campus.edu")

	tech, err := svc.CreateEvent(ctx, domain.Event{
		Title:     "Robotics Workshop",
		Category:  domain.CategoryWorkshop,
		StartTime: time.Now().Add(24 * time.Hour),
		Capacity:  30,
	}, organizer)
	require.NoError(t, err)

	_, err = svc.CreateEvent(ctx, domain.Event{
		Title:     "Spring Concert",
		Category:  domain.CategoryCultural,
		StartTime: time.Now().Add(48 * time.Hour),
		Capacity:  500,
	}, organizer)
	require.NoError(t, err)

	t.Run("unfiltered", func(t *testing.T) {
		events, err := svc.ListEvents(ctx, domain.EventFilter{})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("by category", func(t *testing.T) {
		events, err := svc.ListEvents(ctx, domain.EventFilter{Category: domain.CategoryWorkshop})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, tech.ID, events[0].ID)
	})

	t.Run("by query", func(t *testing.T) {
		events, err := svc.ListEvents(ctx, domain.EventFilter{Query: "concert"})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Spring Concert", events[0].Title)
	})

	t.Run("no matches", func(t *testing.T) {
		events, err := svc.ListEvents(ctx, domain.EventFilter{Query: "hackathon"})
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestEventService_GetEvent(t *testing.T) {
	ctx := context.Background()

	store := repository.NewMemoryStore()
	svc := NewEventService(store.Events)

	organizer := seedOrganizer(t, store, "org@campus.edu")
	event := seedEvent(t, store, organizer.ID, 5, time.Now().Add(24*time.Hour))

	t.Run("includes the live registration count", func(t *testing.T) {
		regSvc := newRegistrationService(store, &mailerStub{})
		alice := seedStudent(t, store, "alice@campus.edu")
		_, err := regSvc.Register(ctx, alice, event.ID)
		require.NoError(t, err)

		found, err := svc.GetEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.Registered)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := svc.GetEvent(ctx, 404)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventService_ListOrganizerEvents(t *testing.T) {
	ctx := context.Background()

	store := repository.NewMemoryStore()
	svc := NewEventService(store.Events)

	organizer := seedOrganizer(t, store, "org@campus.edu")
	rival := seedOrganizer(t, store, "rival@campus.edu")
	seedEvent(t, store, organizer.ID, 10, time.Now().Add(24*time.Hour))
	seedEvent(t, store, rival.ID, 10, time.Now().Add(24*time.Hour))

	events, err := svc.ListOrganizerEvents(ctx, organizer)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, organizer.ID, events[0].OrganizerID)

	student := seedStudent(t, store, "alice@campus.edu")
	_, err = svc.ListOrganizerEvents(ctx, student)
	assert.ErrorIs(t, err, ErrNotOrganizer)
}
