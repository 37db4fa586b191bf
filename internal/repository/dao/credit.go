package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ActivityCredit struct {
	ID uint `gorm:"primaryKey"`

	UserID   uint   `gorm:"not null;index"`
	Category string `gorm:"not null"` // "ATTENDANCE" or "ORGANIZE"
	Points   int    `gorm:"not null"`
	Reason   string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type CreditDAO struct {
	db *gorm.DB
}

func NewCreditDAO(db *gorm.DB) *CreditDAO {
	return &CreditDAO{
		db: db,
	}
}

func (d *CreditDAO) FindByUser(ctx context.Context, userID uint) ([]ActivityCredit, error) {
	var credits []ActivityCredit

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&credits)
	if result.Error != nil {
		return nil, result.Error
	}

	return credits, nil
}

func (d *CreditDAO) SumPointsByUser(ctx context.Context, userID uint) (int, error) {
	var total int64

	result := d.db.WithContext(ctx).Model(&ActivityCredit{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(total), nil
}

func (d *CreditDAO) FindByUserAndCategory(ctx context.Context, userID uint, category string) ([]ActivityCredit, error) {
	var credits []ActivityCredit

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND category = ?", userID, category).
		Order("created_at DESC").
		Find(&credits)
	if result.Error != nil {
		return nil, result.Error
	}

	return credits, nil
}
