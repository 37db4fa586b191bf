package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEventFull            = errors.New("event is full")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrTicketTokenTaken     = errors.New("ticket token already in use")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrTicketNotPending     = errors.New("ticket is not pending")
)

type Registration struct {
	ID uint `gorm:"primaryKey"`

	UserID  uint `gorm:"not null;index"`
	EventID uint `gorm:"not null;index"`

	TicketToken string `gorm:"uniqueIndex:uni_registrations_ticket_token;not null"`

	Attended   bool `gorm:"not null;default:false"`
	CanceledAt *time.Time

	User  User  `gorm:"foreignKey:UserID"`
	Event Event `gorm:"foreignKey:EventID"`

	CreatedAt time.Time `gorm:"not null"`
}

type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

// Insert books a slot inside a single transaction. The event row is locked
// with SELECT ... FOR UPDATE so concurrent bookings for the same event are
// serialized: the capacity count, the duplicate check, and the insert all
// happen under the lock. The partial unique index on (user_id, event_id)
// WHERE canceled_at IS NULL is the final backstop if the pre-checks ever
// lose a race.
func (d *RegistrationDAO) Insert(ctx context.Context, reg Registration) (Registration, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Take(&event, reg.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		var active int64
		if err := tx.Model(&Registration{}).
			Where("event_id = ? AND canceled_at IS NULL", reg.EventID).
			Count(&active).Error; err != nil {
			return err
		}
		if active >= int64(event.Capacity) {
			return ErrEventFull
		}

		var dup int64
		if err := tx.Model(&Registration{}).
			Where("event_id = ? AND user_id = ? AND canceled_at IS NULL", reg.EventID, reg.UserID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrAlreadyRegistered
		}

		if err := tx.Create(&reg).Error; err != nil {
			return mapRegistrationConstraintErr(err)
		}

		return nil
	})
	if err != nil {
		return Registration{}, err
	}

	return reg, nil
}

func mapRegistrationConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(pgErr.Message, "uni_registrations_active_user_event") {
			return ErrAlreadyRegistered
		}
		if strings.Contains(pgErr.Message, "uni_registrations_ticket_token") {
			return ErrTicketTokenTaken
		}
	}

	return err
}

func (d *RegistrationDAO) FindByID(ctx context.Context, id uint) (Registration, error) {
	var reg Registration

	result := d.db.WithContext(ctx).Preload("Event").First(&reg, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return reg, nil
}

func (d *RegistrationDAO) FindByToken(ctx context.Context, token string) (Registration, error) {
	var reg Registration

	result := d.db.WithContext(ctx).Preload("User").Preload("Event").
		First(&reg, "ticket_token = ?", token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return reg, nil
}

func (d *RegistrationDAO) FindByUser(ctx context.Context, userID uint) ([]Registration, error) {
	var regs []Registration

	result := d.db.WithContext(ctx).Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&regs)
	if result.Error != nil {
		return nil, result.Error
	}

	return regs, nil
}

func (d *RegistrationDAO) FindByEvent(ctx context.Context, eventID uint) ([]Registration, error) {
	var regs []Registration

	result := d.db.WithContext(ctx).Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&regs)
	if result.Error != nil {
		return nil, result.Error
	}

	return regs, nil
}

// SetCanceled stamps the cancellation time, guarded so a registration that
// raced into ATTENDED or CANCELED is left untouched.
func (d *RegistrationDAO) SetCanceled(ctx context.Context, id uint, at time.Time) error {
	result := d.db.WithContext(ctx).Model(&Registration{}).
		Where("id = ? AND attended = false AND canceled_at IS NULL", id).
		Update("canceled_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotPending
	}

	return nil
}

// MarkAttendedWithCredit flips the attendance flag and appends the reward
// credit in one transaction. The two writes commit together or not at all;
// the guarded update also makes a concurrent double scan lose cleanly.
func (d *RegistrationDAO) MarkAttendedWithCredit(ctx context.Context, id uint, credit ActivityCredit) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Registration{}).
			Where("id = ? AND attended = false AND canceled_at IS NULL", id).
			Update("attended", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTicketNotPending
		}

		if err := tx.Create(&credit).Error; err != nil {
			return err
		}

		return nil
	})
}

func (d *RegistrationDAO) CountActiveByEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Registration{}).
		Where("event_id = ? AND canceled_at IS NULL", eventID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *RegistrationDAO) CountActive(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Registration{}).
		Where("canceled_at IS NULL").
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *RegistrationDAO) CountAttended(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Registration{}).
		Where("attended = true").
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
