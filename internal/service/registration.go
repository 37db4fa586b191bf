package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/notify"
	"github.com/campushub/campus-events-api/internal/repository"
)

var (
	ErrEventFull            = repository.ErrEventFull
	ErrAlreadyRegistered    = repository.ErrAlreadyRegistered
	ErrRegistrationNotFound = repository.ErrRegistrationNotFound
	ErrNotParticipant       = errors.New("user role cannot register for events")
	ErrNotRegistrationOwner = errors.New("registration belongs to another user")
	ErrAlreadyAttended      = errors.New("registration is already marked attended")
	ErrAlreadyCanceled      = errors.New("registration is already canceled")
	ErrEventStarted         = errors.New("event has already started")
)

// tokenAttempts bounds ticket token regeneration. A v4 UUID carries 122 bits
// of entropy, so a second collision in a row means something is broken.
const tokenAttempts = 3

type RegistrationRepository interface {
	Create(ctx context.Context, reg domain.Registration) (domain.Registration, error)
	FindByID(ctx context.Context, id uint) (domain.Registration, error)
	FindByToken(ctx context.Context, token string) (domain.Registration, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.Registration, error)
	FindByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error)
	Cancel(ctx context.Context, id uint, at time.Time) error
	MarkAttended(ctx context.Context, id uint, credit domain.ActivityCredit) error
}

type RegistrationEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type RegistrationService struct {
	repo   RegistrationRepository
	events RegistrationEventRepository
	mailer notify.Mailer
}

func NewRegistrationService(repo RegistrationRepository, events RegistrationEventRepository, mailer notify.Mailer) *RegistrationService {
	return &RegistrationService{
		repo:   repo,
		events: events,
		mailer: mailer,
	}
}

// Register books a slot for the actor and issues a fresh ticket token. The
// capacity check, the duplicate check, and the insert are serialized by the
// repository; this layer only applies role policy, generates the token, and
// dispatches the confirmation after the booking has committed.
func (s *RegistrationService) Register(ctx context.Context, actor domain.User, eventID uint) (domain.Registration, error) {
	if !actor.Role.Allows(domain.ActionRegister) {
		return domain.Registration{}, ErrNotParticipant
	}

	var created domain.Registration
	var err error
	for attempt := 0; attempt < tokenAttempts; attempt++ {
		created, err = s.repo.Create(ctx, domain.Registration{
			UserID:      actor.ID,
			EventID:     eventID,
			TicketToken: uuid.NewString(),
		})
		if !errors.Is(err, repository.ErrTicketTokenTaken) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) ||
			errors.Is(err, repository.ErrEventFull) ||
			errors.Is(err, repository.ErrAlreadyRegistered) {
			return domain.Registration{}, err
		}

		return domain.Registration{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	// Confirmation is best-effort and runs outside the booking transaction.
	if event, eventErr := s.events.FindByID(ctx, eventID); eventErr == nil {
		s.mailer.RegistrationConfirmed(notify.RegistrationConfirmation{
			Email:       actor.Email,
			Name:        actor.Name,
			EventTitle:  event.Title,
			Venue:       event.Venue,
			StartTime:   event.StartTime,
			TicketToken: created.TicketToken,
		})
	}

	return created, nil
}

// Cancel withdraws a pending registration. The preconditions are checked in
// order, each with a distinct failure: ownership, not attended, not already
// canceled, event not started. A second cancel attempt is an error, not a
// no-op, so the caller can tell "just canceled" from "was already canceled".
func (s *RegistrationService) Cancel(ctx context.Context, actor domain.User, registrationID uint) (domain.Registration, error) {
	reg, err := s.repo.FindByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return domain.Registration{}, ErrRegistrationNotFound
		}

		return domain.Registration{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if reg.UserID != actor.ID {
		return domain.Registration{}, ErrNotRegistrationOwner
	}
	if reg.Attended {
		return domain.Registration{}, ErrAlreadyAttended
	}
	if reg.CanceledAt != nil {
		return domain.Registration{}, ErrAlreadyCanceled
	}

	now := time.Now()
	if reg.Event == nil {
		return domain.Registration{}, fmt.Errorf("registration %d has no event loaded", reg.ID)
	}
	if reg.Event.HasStarted(now) {
		return domain.Registration{}, ErrEventStarted
	}

	if err = s.repo.Cancel(ctx, reg.ID, now); err != nil {
		if errors.Is(err, repository.ErrTicketNotPending) {
			// Lost a race against a concurrent check-in or cancel; re-read
			// to report the precise terminal state.
			return s.cancelConflict(ctx, reg.ID)
		}

		return domain.Registration{}, fmt.Errorf("s.repo.Cancel -> %w", err)
	}

	reg.CanceledAt = &now

	return reg, nil
}

func (s *RegistrationService) cancelConflict(ctx context.Context, registrationID uint) (domain.Registration, error) {
	current, err := s.repo.FindByID(ctx, registrationID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if current.Attended {
		return domain.Registration{}, ErrAlreadyAttended
	}

	return domain.Registration{}, ErrAlreadyCanceled
}

// ListMyRegistrations returns the actor's registrations, newest first, with
// event details attached.
func (s *RegistrationService) ListMyRegistrations(ctx context.Context, actor domain.User) ([]domain.Registration, error) {
	regs, err := s.repo.FindByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUser -> %w", err)
	}

	return regs, nil
}

// ListEventRegistrations returns all registrations for one of the
// organizer's events, including canceled ones for the attendance sheet.
func (s *RegistrationService) ListEventRegistrations(ctx context.Context, organizer domain.User, eventID uint) ([]domain.Registration, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	if event.OrganizerID != organizer.ID {
		return nil, ErrNotEventOrganizer
	}

	regs, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEvent -> %w", err)
	}

	return regs, nil
}
