package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Venue       string `json:"venue"`
	Category    string `json:"category"`
	StartTime   string `json:"start_time"` // RFC 3339
	Capacity    int    `json:"capacity"`
	ImageURL    string `json:"image_url"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(3, 120)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Venue, validation.Required, validation.Length(2, 120)),
		validation.Field(&req.Category, validation.Required,
			validation.In("TECHNICAL", "CULTURAL", "SPORTS", "WORKSHOP")),
		validation.Field(&req.StartTime, validation.Required),
		validation.Field(&req.Capacity, validation.Required, validation.Min(1), validation.Max(100_000)),
		validation.Field(&req.ImageURL, is.URL),
	)
}

type CheckInRequest struct {
	TicketToken string `json:"ticket_token"`
}

func (req *CheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TicketToken, validation.Required),
	)
}
