package repository

import (
	"gorm.io/gorm"

	"github.com/campushub/campus-events-api/internal/repository/dao"
)

// Store bundles the four repositories behind one handle so wiring the
// server does not depend on which backend the deployment picked.
type Store struct {
	Users         *UserRepository
	Events        *EventRepository
	Registrations *RegistrationRepository
	Credits       *CreditRepository
}

func NewPostgresStore(db *gorm.DB) *Store {
	return &Store{
		Users:         NewUserRepository(dao.NewUserDAO(db)),
		Events:        NewEventRepository(dao.NewEventDAO(db)),
		Registrations: NewRegistrationRepository(dao.NewRegistrationDAO(db)),
		Credits:       NewCreditRepository(dao.NewCreditDAO(db)),
	}
}

// NewMemoryStore backs the repositories with a process-local store. Meant
// for demos and tests; all data is gone on restart.
func NewMemoryStore() *Store {
	mem := dao.NewMemoryStore()

	return &Store{
		Users:         NewUserRepository(mem.Users()),
		Events:        NewEventRepository(mem.Events()),
		Registrations: NewRegistrationRepository(mem.Registrations()),
		Credits:       NewCreditRepository(mem.Credits()),
	}
}
