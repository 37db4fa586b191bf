package domain

import "time"

// RegistrationStatus is the observable state of a registration. PENDING is
// the only state with outgoing transitions: to ATTENDED via check-in, or to
// CANCELED via cancellation. Both are terminal.
type RegistrationStatus string

const (
	StatusPending  RegistrationStatus = "PENDING"
	StatusAttended RegistrationStatus = "ATTENDED"
	StatusCanceled RegistrationStatus = "CANCELED"
)

type Registration struct {
	ID      uint `json:"id"`
	UserID  uint `json:"user_id"`
	EventID uint `json:"event_id"`
	// TicketToken is the opaque QR payload presented at check-in. It is the
	// sole lookup key during scanning and must never be logged in full or
	// shown to anyone but the owning user.
	TicketToken string     `json:"ticket_token"`
	Attended    bool       `json:"attended"`
	CanceledAt  *time.Time `json:"canceled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	Event *Event `json:"event,omitempty"`
	User  *User  `json:"user,omitempty"`
}

func (r Registration) Status() RegistrationStatus {
	switch {
	case r.Attended:
		return StatusAttended
	case r.CanceledAt != nil:
		return StatusCanceled
	default:
		return StatusPending
	}
}

// IsActive reports whether the registration still occupies a capacity slot.
func (r Registration) IsActive() bool {
	return r.CanceledAt == nil
}
