package dao

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupPostgres spins up a throwaway Postgres container for the test. Run
// with -short to skip when Docker is unavailable.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping Postgres integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping(), "docker is not available")

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_PASSWORD=secret",
		"POSTGRES_DB=campus_events_test",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	var db *gorm.DB
	err = pool.Retry(func() error {
		dsn := fmt.Sprintf(
			"host=localhost user=postgres password=secret dbname=campus_events_test port=%v sslmode=disable",
			resource.GetPort("5432/tcp"),
		)

		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, openErr := db.DB()
		if openErr != nil {
			return openErr
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, InitTables(db))

	return db
}

func insertUser(t *testing.T, db *gorm.DB, email string) User {
	t.Helper()

	user, err := NewUserDAO(db).Insert(context.Background(), User{
		Email:      email,
		Password:   "not-a-real-hash",
		Name:       "User " + email,
		Role:       "STUDENT",
		IsApproved: true,
	})
	require.NoError(t, err)

	return user
}

func insertEvent(t *testing.T, db *gorm.DB, organizerID uint, capacity int) Event {
	t.Helper()

	event, err := NewEventDAO(db).InsertWithCredit(context.Background(), Event{
		Title:       "Integration Test Event",
		Venue:       "Hall A",
		Category:    "TECHNICAL",
		StartTime:   time.Now().Add(24 * time.Hour),
		Capacity:    capacity,
		OrganizerID: organizerID,
	}, ActivityCredit{
		UserID:   organizerID,
		Category: "ORGANIZE",
		Points:   3,
		Reason:   "Organized: Integration Test Event",
	})
	require.NoError(t, err)

	return event
}

func TestRegistrationDAO_Postgres(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	organizer := insertUser(t, db, "org@campus.edu")
	regDAO := NewRegistrationDAO(db)

	t.Run("concurrent inserts never exceed capacity", func(t *testing.T) {
		const capacity = 5
		const attempts = 20

		event := insertEvent(t, db, organizer.ID, capacity)

		users := make([]User, attempts)
		for i := range users {
			users[i] = insertUser(t, db, fmt.Sprintf("cap%d@campus.edu", i))
		}

		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := range users {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = regDAO.Insert(ctx, Registration{
					UserID:      users[i].ID,
					EventID:     event.ID,
					TicketToken: uuid.NewString(),
				})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, ErrEventFull)
			}
		}
		assert.Equal(t, capacity, succeeded)

		count, err := regDAO.CountActiveByEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.EqualValues(t, capacity, count)
	})

	t.Run("one active registration per user and event", func(t *testing.T) {
		event := insertEvent(t, db, organizer.ID, 10)
		user := insertUser(t, db, "dup@campus.edu")

		reg, err := regDAO.Insert(ctx, Registration{
			UserID:      user.ID,
			EventID:     event.ID,
			TicketToken: uuid.NewString(),
		})
		require.NoError(t, err)

		_, err = regDAO.Insert(ctx, Registration{
			UserID:      user.ID,
			EventID:     event.ID,
			TicketToken: uuid.NewString(),
		})
		assert.ErrorIs(t, err, ErrAlreadyRegistered)

		// Canceling frees the pair for a fresh registration.
		require.NoError(t, regDAO.SetCanceled(ctx, reg.ID, time.Now()))

		_, err = regDAO.Insert(ctx, Registration{
			UserID:      user.ID,
			EventID:     event.ID,
			TicketToken: uuid.NewString(),
		})
		assert.NoError(t, err)
	})

	t.Run("ticket tokens are globally unique", func(t *testing.T) {
		event := insertEvent(t, db, organizer.ID, 10)
		alice := insertUser(t, db, "token-a@campus.edu")
		bob := insertUser(t, db, "token-b@campus.edu")

		token := uuid.NewString()
		_, err := regDAO.Insert(ctx, Registration{
			UserID:      alice.ID,
			EventID:     event.ID,
			TicketToken: token,
		})
		require.NoError(t, err)

		_, err = regDAO.Insert(ctx, Registration{
			UserID:      bob.ID,
			EventID:     event.ID,
			TicketToken: token,
		})
		assert.ErrorIs(t, err, ErrTicketTokenTaken)
	})

	t.Run("mark attended commits the credit atomically and only once", func(t *testing.T) {
		event := insertEvent(t, db, organizer.ID, 10)
		user := insertUser(t, db, "attend@campus.edu")

		reg, err := regDAO.Insert(ctx, Registration{
			UserID:      user.ID,
			EventID:     event.ID,
			TicketToken: uuid.NewString(),
		})
		require.NoError(t, err)

		credit := ActivityCredit{
			UserID:   user.ID,
			Category: "ATTENDANCE",
			Points:   1,
			Reason:   "Attended: Integration Test Event",
		}
		require.NoError(t, regDAO.MarkAttendedWithCredit(ctx, reg.ID, credit))

		err = regDAO.MarkAttendedWithCredit(ctx, reg.ID, credit)
		assert.ErrorIs(t, err, ErrTicketNotPending)

		credits, err := NewCreditDAO(db).FindByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, credits, 1)

		found, err := regDAO.FindByID(ctx, reg.ID)
		require.NoError(t, err)
		assert.True(t, found.Attended)
	})

	t.Run("attended and canceled registrations reject cancel", func(t *testing.T) {
		event := insertEvent(t, db, organizer.ID, 10)
		user := insertUser(t, db, "cancel@campus.edu")

		reg, err := regDAO.Insert(ctx, Registration{
			UserID:      user.ID,
			EventID:     event.ID,
			TicketToken: uuid.NewString(),
		})
		require.NoError(t, err)

		require.NoError(t, regDAO.SetCanceled(ctx, reg.ID, time.Now()))
		assert.ErrorIs(t, regDAO.SetCanceled(ctx, reg.ID, time.Now()), ErrTicketNotPending)
	})

	t.Run("find by token preloads user and event", func(t *testing.T) {
		event := insertEvent(t, db, organizer.ID, 10)
		user := insertUser(t, db, "preload@campus.edu")

		token := uuid.NewString()
		_, err := regDAO.Insert(ctx, Registration{
			UserID:      user.ID,
			EventID:     event.ID,
			TicketToken: token,
		})
		require.NoError(t, err)

		found, err := regDAO.FindByToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.Name, found.User.Name)
		assert.Equal(t, event.Title, found.Event.Title)
	})
}

func TestEventDAO_Postgres(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	organizer := insertUser(t, db, "org@campus.edu")
	eventDAO := NewEventDAO(db)
	regDAO := NewRegistrationDAO(db)

	event := insertEvent(t, db, organizer.ID, 10)

	alice := insertUser(t, db, "alice@campus.edu")
	bob := insertUser(t, db, "bob@campus.edu")

	aliceReg, err := regDAO.Insert(ctx, Registration{UserID: alice.ID, EventID: event.ID, TicketToken: uuid.NewString()})
	require.NoError(t, err)
	_, err = regDAO.Insert(ctx, Registration{UserID: bob.ID, EventID: event.ID, TicketToken: uuid.NewString()})
	require.NoError(t, err)

	t.Run("registered count excludes canceled", func(t *testing.T) {
		found, err := eventDAO.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, found.Registered)

		require.NoError(t, regDAO.SetCanceled(ctx, aliceReg.ID, time.Now()))

		found, err = eventDAO.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.Registered)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := eventDAO.FindByID(ctx, 404)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestUserDAO_Postgres(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	userDAO := NewUserDAO(db)

	t.Run("duplicate email maps to the sentinel", func(t *testing.T) {
		insertUser(t, db, "alice@campus.edu")

		_, err := userDAO.Insert(ctx, User{
			Email:    "alice@campus.edu",
			Password: "x",
			Role:     "STUDENT",
		})
		assert.ErrorIs(t, err, ErrUserEmailExists)
	})

	t.Run("approve flips the flag", func(t *testing.T) {
		pending, err := userDAO.Insert(ctx, User{
			Email:    "org@campus.edu",
			Password: "x",
			Role:     "ORGANIZER",
		})
		require.NoError(t, err)
		require.False(t, pending.IsApproved)

		approved, err := userDAO.Approve(ctx, pending.ID)
		require.NoError(t, err)
		assert.True(t, approved.IsApproved)
	})
}
