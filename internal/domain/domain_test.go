package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRole_Allows(t *testing.T) {
	tests := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleStudent, ActionRegister, true},
		{RoleStudent, ActionManageEvents, false},
		{RoleStudent, ActionCheckIn, false},
		{RoleStudent, ActionAdminister, false},
		{RoleOrganizer, ActionRegister, false},
		{RoleOrganizer, ActionManageEvents, true},
		{RoleOrganizer, ActionCheckIn, true},
		{RoleOrganizer, ActionAdminister, false},
		{RoleAdmin, ActionRegister, false},
		{RoleAdmin, ActionAdminister, true},
		{Role("UNKNOWN"), ActionRegister, false},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, tt.role.Allows(tt.action), "%v.Allows(%v)", tt.role, tt.action)
	}
}

func TestUser_CanAct(t *testing.T) {
	assert.True(t, User{Role: RoleStudent}.CanAct())
	assert.True(t, User{Role: RoleAdmin}.CanAct())
	assert.False(t, User{Role: RoleOrganizer}.CanAct())
	assert.True(t, User{Role: RoleOrganizer, IsApproved: true}.CanAct())
}

func TestRegistration_Status(t *testing.T) {
	now := time.Now()

	assert.Equal(t, StatusPending, Registration{}.Status())
	assert.Equal(t, StatusAttended, Registration{Attended: true}.Status())
	assert.Equal(t, StatusCanceled, Registration{CanceledAt: &now}.Status())

	assert.True(t, Registration{}.IsActive())
	assert.True(t, Registration{Attended: true}.IsActive())
	assert.False(t, Registration{CanceledAt: &now}.IsActive())
}

func TestEvent_HasStarted(t *testing.T) {
	now := time.Now()
	event := Event{StartTime: now}

	assert.True(t, event.HasStarted(now), "start instant counts as started")
	assert.True(t, event.HasStarted(now.Add(time.Second)))
	assert.False(t, event.HasStarted(now.Add(-time.Second)))
}

func TestCreditBuilders(t *testing.T) {
	attendance := AttendanceCredit(7, "Hack Night")
	assert.Equal(t, CreditAttendance, attendance.Category)
	assert.Equal(t, 1, attendance.Points)
	assert.Equal(t, "Attended: Hack Night", attendance.Reason)

	organize := OrganizeCredit(9, "Hack Night")
	assert.Equal(t, CreditOrganize, organize.Category)
	assert.Equal(t, 3, organize.Points)
	assert.Equal(t, "Organized: Hack Night", organize.Reason)
}
