package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type Event struct {
	ID uint `gorm:"primaryKey"`

	Title       string `gorm:"not null"`
	Description string
	Venue       string    `gorm:"not null"`
	Category    string    `gorm:"not null;index"`
	StartTime   time.Time `gorm:"not null;index"`
	Capacity    int       `gorm:"not null"`
	ImageURL    string

	OrganizerID uint `gorm:"not null;index"`
	Organizer   User `gorm:"foreignKey:OrganizerID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// EventWithCount carries an event row plus its active registration count.
type EventWithCount struct {
	Event      `gorm:"embedded"`
	Registered int
}

// activeCountSubquery counts non-canceled registrations per event. Canceled
// rows do not occupy capacity.
const activeCountSubquery = `(SELECT COUNT(1) FROM registrations
	WHERE registrations.event_id = events.id
	AND registrations.canceled_at IS NULL) AS registered`

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

// InsertWithCredit creates the event and the organizer's reward credit in a
// single transaction so the ledger never diverges from the catalog.
func (d *EventDAO) InsertWithCredit(ctx context.Context, event Event, credit ActivityCredit) (Event, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		if err := tx.Create(&credit).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (EventWithCount, error) {
	var event EventWithCount

	result := d.db.WithContext(ctx).Model(&Event{}).
		Select("events.*, " + activeCountSubquery).
		Where("events.id = ?", id).
		Take(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return EventWithCount{}, ErrEventNotFound
		}

		return EventWithCount{}, result.Error
	}

	return event, nil
}

// Find lists events ordered by start time, optionally narrowed by category
// and a case-insensitive title/description match.
func (d *EventDAO) Find(ctx context.Context, category, query string) ([]EventWithCount, error) {
	var events []EventWithCount

	q := d.db.WithContext(ctx).Model(&Event{}).
		Select("events.*, " + activeCountSubquery)

	if category != "" {
		q = q.Where("category = ?", category)
	}
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	result := q.Order("start_time ASC").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindByOrganizer(ctx context.Context, organizerID uint) ([]EventWithCount, error) {
	var events []EventWithCount

	result := d.db.WithContext(ctx).Model(&Event{}).
		Select("events.*, "+activeCountSubquery).
		Where("organizer_id = ?", organizerID).
		Order("start_time DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Event{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
