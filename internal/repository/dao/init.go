package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Event{},
		&Registration{},
		&ActivityCredit{},
	)
	if err != nil {
		return err
	}

	// Uniqueness of (user, event) only applies to active rows so a canceled
	// registration frees the slot for re-registration. AutoMigrate cannot
	// express a partial index, hence the raw statement.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uni_registrations_active_user_event
		ON registrations (user_id, event_id)
		WHERE canceled_at IS NULL`).Error
}
