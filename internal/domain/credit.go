package domain

import (
	"fmt"
	"time"
)

// CreditCategory tags an activity-credit entry with the action that earned it.
type CreditCategory string

const (
	CreditAttendance CreditCategory = "ATTENDANCE"
	CreditOrganize   CreditCategory = "ORGANIZE"
)

// Point values are fixed per category.
const (
	AttendancePoints = 1
	OrganizePoints   = 3
)

// ActivityCredit is one append-only row in the reward ledger. Entries are
// never updated or deleted after creation.
type ActivityCredit struct {
	ID        uint           `json:"id"`
	UserID    uint           `json:"user_id"`
	Category  CreditCategory `json:"category"`
	Points    int            `json:"points"`
	Reason    string         `json:"reason"`
	CreatedAt time.Time      `json:"created_at"`
}

// AttendanceCredit builds the credit issued atomically with a check-in.
func AttendanceCredit(userID uint, eventTitle string) ActivityCredit {
	return ActivityCredit{
		UserID:   userID,
		Category: CreditAttendance,
		Points:   AttendancePoints,
		Reason:   fmt.Sprintf("Attended: %s", eventTitle),
	}
}

// OrganizeCredit builds the credit issued atomically with event creation.
func OrganizeCredit(userID uint, eventTitle string) ActivityCredit {
	return ActivityCredit{
		UserID:   userID,
		Category: CreditOrganize,
		Points:   OrganizePoints,
		Reason:   fmt.Sprintf("Organized: %s", eventTitle),
	}
}
