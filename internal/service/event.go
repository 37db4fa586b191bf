package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/repository"
)

var (
	ErrEventNotFound        = repository.ErrEventNotFound
	ErrNotOrganizer         = errors.New("user is not an organizer")
	ErrOrganizerNotApproved = errors.New("organizer account is not approved yet")
	ErrInvalidCapacity      = errors.New("capacity must be a positive integer")
	ErrStartTimeInPast      = errors.New("event start time must be in the future")
	ErrMissingTitle         = errors.New("event title is required")
)

type EventRepository interface {
	CreateWithCredit(ctx context.Context, event domain.Event, credit domain.ActivityCredit) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	Find(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	FindByOrganizer(ctx context.Context, organizerID uint) ([]domain.Event, error)
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

// CreateEvent validates the event and creates it together with the
// organizer's ORGANIZE reward credit in one atomic unit.
func (s *EventService) CreateEvent(ctx context.Context, event domain.Event, organizer domain.User) (domain.Event, error) {
	if !organizer.Role.Allows(domain.ActionManageEvents) {
		return domain.Event{}, ErrNotOrganizer
	}
	if !organizer.CanAct() {
		return domain.Event{}, ErrOrganizerNotApproved
	}

	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return domain.Event{}, ErrMissingTitle
	}
	if event.Capacity < 1 {
		return domain.Event{}, ErrInvalidCapacity
	}
	if event.HasStarted(time.Now()) {
		return domain.Event{}, ErrStartTimeInPast
	}

	event.OrganizerID = organizer.ID
	credit := domain.OrganizeCredit(organizer.ID, event.Title)

	created, err := s.repo.CreateWithCredit(ctx, event, credit)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.CreateWithCredit -> %w", err)
	}

	return created, nil
}

func (s *EventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	events, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return events, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

// ListOrganizerEvents returns the organizer's own events with registration
// counts, newest first.
func (s *EventService) ListOrganizerEvents(ctx context.Context, organizer domain.User) ([]domain.Event, error) {
	if !organizer.Role.Allows(domain.ActionManageEvents) {
		return nil, ErrNotOrganizer
	}

	events, err := s.repo.FindByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByOrganizer -> %w", err)
	}

	return events, nil
}
