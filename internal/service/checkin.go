package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/repository"
)

var (
	ErrNotEventOrganizer = errors.New("event belongs to another organizer")
	ErrInvalidTicket     = errors.New("no registration matches the scanned ticket")
	ErrWrongEvent        = errors.New("ticket was issued for a different event")
	ErrAlreadyCheckedIn  = errors.New("ticket is already checked in")
	ErrTicketCanceled    = errors.New("ticket was canceled")
)

// CheckInResult is what the scanning organizer sees after a scan. On
// ErrAlreadyCheckedIn the student name is still populated so the operator
// gets "Already checked in: <name>" rather than a bare failure.
type CheckInResult struct {
	RegistrationID uint      `json:"registration_id"`
	EventID        uint      `json:"event_id"`
	StudentName    string    `json:"student_name"`
	CheckedInAt    time.Time `json:"checked_in_at"`
}

// CheckInPublisher receives successful check-ins, e.g. the websocket feed
// that live-updates the organizer's attendance view.
type CheckInPublisher interface {
	Publish(eventID uint, result CheckInResult)
}

type CheckInService struct {
	repo      RegistrationRepository
	events    RegistrationEventRepository
	publisher CheckInPublisher
}

func NewCheckInService(repo RegistrationRepository, events RegistrationEventRepository, publisher CheckInPublisher) *CheckInService {
	return &CheckInService{
		repo:      repo,
		events:    events,
		publisher: publisher,
	}
}

// CheckIn resolves a scanned ticket token and marks attendance. The flag
// flip and the ATTENDANCE credit commit as one atomic unit in the
// repository; attendance bookkeeping and reward accounting never diverge.
// Scanning the same ticket twice reports ErrAlreadyCheckedIn without a
// second credit.
func (s *CheckInService) CheckIn(ctx context.Context, organizer domain.User, eventID uint, token string) (CheckInResult, error) {
	if !organizer.Role.Allows(domain.ActionCheckIn) || !organizer.CanAct() {
		return CheckInResult{}, ErrNotEventOrganizer
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return CheckInResult{}, ErrEventNotFound
		}

		return CheckInResult{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}
	if event.OrganizerID != organizer.ID {
		return CheckInResult{}, ErrNotEventOrganizer
	}

	reg, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return CheckInResult{}, ErrInvalidTicket
		}

		return CheckInResult{}, fmt.Errorf("s.repo.FindByToken -> %w", err)
	}

	// A valid ticket for another event must fail loudly, never silently
	// count toward this one.
	if reg.EventID != eventID {
		return CheckInResult{}, ErrWrongEvent
	}

	studentName := ""
	if reg.User != nil {
		studentName = reg.User.Name
	}

	if reg.Attended {
		return CheckInResult{StudentName: studentName}, ErrAlreadyCheckedIn
	}
	if reg.CanceledAt != nil {
		return CheckInResult{}, ErrTicketCanceled
	}

	credit := domain.AttendanceCredit(reg.UserID, event.Title)
	if err = s.repo.MarkAttended(ctx, reg.ID, credit); err != nil {
		if errors.Is(err, repository.ErrTicketNotPending) {
			return s.checkInConflict(ctx, token, studentName)
		}

		return CheckInResult{}, fmt.Errorf("s.repo.MarkAttended -> %w", err)
	}

	result := CheckInResult{
		RegistrationID: reg.ID,
		EventID:        eventID,
		StudentName:    studentName,
		CheckedInAt:    time.Now(),
	}

	if s.publisher != nil {
		s.publisher.Publish(eventID, result)
	}

	return result, nil
}

// checkInConflict re-reads the registration after a lost race to report the
// precise terminal state.
func (s *CheckInService) checkInConflict(ctx context.Context, token, studentName string) (CheckInResult, error) {
	current, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return CheckInResult{}, fmt.Errorf("s.repo.FindByToken -> %w", err)
	}

	if current.Attended {
		return CheckInResult{StudentName: studentName}, ErrAlreadyCheckedIn
	}

	return CheckInResult{}, ErrTicketCanceled
}
