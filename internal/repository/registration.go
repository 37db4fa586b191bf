package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/repository/dao"
)

var (
	ErrEventFull            = dao.ErrEventFull
	ErrAlreadyRegistered    = dao.ErrAlreadyRegistered
	ErrTicketTokenTaken     = dao.ErrTicketTokenTaken
	ErrRegistrationNotFound = dao.ErrRegistrationNotFound
	ErrTicketNotPending     = dao.ErrTicketNotPending
)

type RegistrationDAO interface {
	Insert(ctx context.Context, reg dao.Registration) (dao.Registration, error)
	FindByID(ctx context.Context, id uint) (dao.Registration, error)
	FindByToken(ctx context.Context, token string) (dao.Registration, error)
	FindByUser(ctx context.Context, userID uint) ([]dao.Registration, error)
	FindByEvent(ctx context.Context, eventID uint) ([]dao.Registration, error)
	SetCanceled(ctx context.Context, id uint, at time.Time) error
	MarkAttendedWithCredit(ctx context.Context, id uint, credit dao.ActivityCredit) error
	CountActiveByEvent(ctx context.Context, eventID uint) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountAttended(ctx context.Context) (int64, error)
}

type RegistrationRepository struct {
	dao RegistrationDAO
}

func NewRegistrationRepository(dao RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
	}
}

// Create books the registration; the DAO serializes the capacity check, the
// duplicate check, and the insert against concurrent bookings.
func (r *RegistrationRepository) Create(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	created, err := r.dao.Insert(ctx, dao.Registration{
		UserID:      reg.UserID,
		EventID:     reg.EventID,
		TicketToken: reg.TicketToken,
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id uint) (domain.Registration, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RegistrationRepository) FindByToken(ctx context.Context, token string) (domain.Registration, error) {
	found, err := r.dao.FindByToken(ctx, token)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByToken -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RegistrationRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Registration, error) {
	found, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *RegistrationRepository) FindByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error) {
	found, err := r.dao.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *RegistrationRepository) Cancel(ctx context.Context, id uint, at time.Time) error {
	if err := r.dao.SetCanceled(ctx, id, at); err != nil {
		return fmt.Errorf("r.dao.SetCanceled -> %w", err)
	}

	return nil
}

// MarkAttended flips the attendance flag and appends the reward credit in
// one atomic unit.
func (r *RegistrationRepository) MarkAttended(ctx context.Context, id uint, credit domain.ActivityCredit) error {
	if err := r.dao.MarkAttendedWithCredit(ctx, id, creditDomainToDao(credit)); err != nil {
		return fmt.Errorf("r.dao.MarkAttendedWithCredit -> %w", err)
	}

	return nil
}

func (r *RegistrationRepository) CountActiveByEvent(ctx context.Context, eventID uint) (int64, error) {
	count, err := r.dao.CountActiveByEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountActiveByEvent -> %w", err)
	}

	return count, nil
}

func (r *RegistrationRepository) CountActive(ctx context.Context) (int64, error) {
	count, err := r.dao.CountActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountActive -> %w", err)
	}

	return count, nil
}

func (r *RegistrationRepository) CountAttended(ctx context.Context) (int64, error) {
	count, err := r.dao.CountAttended(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountAttended -> %w", err)
	}

	return count, nil
}

func (r *RegistrationRepository) daoToDomain(reg dao.Registration) domain.Registration {
	result := domain.Registration{
		ID:          reg.ID,
		UserID:      reg.UserID,
		EventID:     reg.EventID,
		TicketToken: reg.TicketToken,
		Attended:    reg.Attended,
		CanceledAt:  reg.CanceledAt,
		CreatedAt:   reg.CreatedAt,
	}

	if reg.Event.ID != 0 {
		event := domain.Event{
			ID:          reg.Event.ID,
			Title:       reg.Event.Title,
			Description: reg.Event.Description,
			Venue:       reg.Event.Venue,
			Category:    domain.EventCategory(reg.Event.Category),
			StartTime:   reg.Event.StartTime,
			Capacity:    reg.Event.Capacity,
			OrganizerID: reg.Event.OrganizerID,
		}
		result.Event = &event
	}

	if reg.User.ID != 0 {
		user := domain.User{
			ID:    reg.User.ID,
			Email: reg.User.Email,
			Name:  reg.User.Name,
			Role:  domain.Role(reg.User.Role),
		}
		result.User = &user
	}

	return result
}

func (r *RegistrationRepository) daosToDomain(regs []dao.Registration) []domain.Registration {
	result := make([]domain.Registration, len(regs))
	for i, reg := range regs {
		result[i] = r.daoToDomain(reg)
	}
	return result
}
