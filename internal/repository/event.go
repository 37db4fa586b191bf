package repository

import (
	"context"
	"fmt"

	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/repository/dao"
)

var ErrEventNotFound = dao.ErrEventNotFound

type EventDAO interface {
	InsertWithCredit(ctx context.Context, event dao.Event, credit dao.ActivityCredit) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.EventWithCount, error)
	Find(ctx context.Context, category, query string) ([]dao.EventWithCount, error)
	FindByOrganizer(ctx context.Context, organizerID uint) ([]dao.EventWithCount, error)
	Count(ctx context.Context) (int64, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

// CreateWithCredit inserts the event together with the organizer's reward
// credit; the DAO commits both in one transaction.
func (r *EventRepository) CreateWithCredit(ctx context.Context, event domain.Event, credit domain.ActivityCredit) (domain.Event, error) {
	created, err := r.dao.InsertWithCredit(ctx, r.domainToDao(event), creditDomainToDao(credit))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.InsertWithCredit -> %w", err)
	}

	return r.daoToDomain(created, 0), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found.Event, found.Registered), nil
}

func (r *EventRepository) Find(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	found, err := r.dao.Find(ctx, string(filter.Category), filter.Query)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *EventRepository) FindByOrganizer(ctx context.Context, organizerID uint) ([]domain.Event, error) {
	found, err := r.dao.FindByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByOrganizer -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		Category:    string(e.Category),
		StartTime:   e.StartTime,
		Capacity:    e.Capacity,
		ImageURL:    e.ImageURL,
		OrganizerID: e.OrganizerID,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event, registered int) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		Category:    domain.EventCategory(e.Category),
		StartTime:   e.StartTime,
		Capacity:    e.Capacity,
		ImageURL:    e.ImageURL,
		OrganizerID: e.OrganizerID,
		Registered:  registered,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (r *EventRepository) daosToDomain(events []dao.EventWithCount) []domain.Event {
	result := make([]domain.Event, len(events))
	for i, e := range events {
		result[i] = r.daoToDomain(e.Event, e.Registered)
	}
	return result
}
