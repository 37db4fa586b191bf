package response

import (
	"time"

	"github.com/campushub/campus-events-api/internal/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// TicketResponse is what the owning student sees after registering: the
// full ticket token is included because it is their QR payload.
type TicketResponse struct {
	RegistrationID uint          `json:"registration_id"`
	EventID        uint          `json:"event_id"`
	TicketToken    string        `json:"ticket_token"`
	Status         string        `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	Event          *domain.Event `json:"event,omitempty"`
}

func NewTicketResponse(reg domain.Registration) TicketResponse {
	return TicketResponse{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		TicketToken:    reg.TicketToken,
		Status:         string(reg.Status()),
		CreatedAt:      reg.CreatedAt,
		Event:          reg.Event,
	}
}

func NewTicketResponses(regs []domain.Registration) []TicketResponse {
	result := make([]TicketResponse, len(regs))
	for i, reg := range regs {
		result[i] = NewTicketResponse(reg)
	}
	return result
}

// AttendanceRow is the organizer's view of a registration. The ticket token
// is deliberately absent: it is secret-equivalent and only the owning
// student may see it.
type AttendanceRow struct {
	RegistrationID uint      `json:"registration_id"`
	StudentName    string    `json:"student_name"`
	StudentEmail   string    `json:"student_email"`
	Status         string    `json:"status"`
	RegisteredAt   time.Time `json:"registered_at"`
}

func NewAttendanceRows(regs []domain.Registration) []AttendanceRow {
	result := make([]AttendanceRow, len(regs))
	for i, reg := range regs {
		row := AttendanceRow{
			RegistrationID: reg.ID,
			Status:         string(reg.Status()),
			RegisteredAt:   reg.CreatedAt,
		}
		if reg.User != nil {
			row.StudentName = reg.User.Name
			row.StudentEmail = reg.User.Email
		}
		result[i] = row
	}
	return result
}

type CancelResponse struct {
	RegistrationID uint      `json:"registration_id"`
	CanceledAt     time.Time `json:"canceled_at"`
}
