package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/repository"
)

func TestCreditService_GetLedger(t *testing.T) {
	ctx := context.Background()

	store := repository.NewMemoryStore()
	svc := NewCreditService(store.Credits)

	organizer := seedOrganizer(t, store, "org@campus.edu")
	event := seedEvent(t, store, organizer.ID, 10, time.Now().Add(time.Hour))
	alice := seedStudent(t, store, "alice@campus.edu")

	t.Run("empty ledger", func(t *testing.T) {
		ledger, err := svc.GetLedger(ctx, alice, "")
		require.NoError(t, err)
		assert.Empty(t, ledger.Credits)
		assert.Zero(t, ledger.TotalPoints)
	})

	t.Run("attendance accrues per event", func(t *testing.T) {
		regSvc := newRegistrationService(store, &mailerStub{})
		checkInSvc := NewCheckInService(store.Registrations, store.Events, nil)

		reg, err := regSvc.Register(ctx, alice, event.ID)
		require.NoError(t, err)
		_, err = checkInSvc.CheckIn(ctx, organizer, event.ID, reg.TicketToken)
		require.NoError(t, err)

		ledger, err := svc.GetLedger(ctx, alice, "")
		require.NoError(t, err)
		require.Len(t, ledger.Credits, 1)
		assert.Equal(t, domain.AttendancePoints, ledger.TotalPoints)
	})

	t.Run("ledgers are per user", func(t *testing.T) {
		// The seed event granted the organizer an ORGANIZE credit.
		ledger, err := svc.GetLedger(ctx, organizer, "")
		require.NoError(t, err)
		require.Len(t, ledger.Credits, 1)
		assert.Equal(t, domain.CreditOrganize, ledger.Credits[0].Category)
		assert.Equal(t, domain.OrganizePoints, ledger.TotalPoints)
	})

	t.Run("category filter narrows the history, not the total", func(t *testing.T) {
		ledger, err := svc.GetLedger(ctx, alice, domain.CreditAttendance)
		require.NoError(t, err)
		require.Len(t, ledger.Credits, 1)

		ledger, err = svc.GetLedger(ctx, alice, domain.CreditOrganize)
		require.NoError(t, err)
		assert.Empty(t, ledger.Credits)
		assert.Equal(t, domain.AttendancePoints, ledger.TotalPoints)
	})
}
