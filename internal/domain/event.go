package domain

import "time"

type EventCategory string

const (
	CategoryTechnical EventCategory = "TECHNICAL"
	CategoryCultural  EventCategory = "CULTURAL"
	CategorySports    EventCategory = "SPORTS"
	CategoryWorkshop  EventCategory = "WORKSHOP"
)

type Event struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Venue       string        `json:"venue"`
	Category    EventCategory `json:"category"`
	StartTime   time.Time     `json:"start_time"`
	Capacity    int           `json:"capacity"`
	ImageURL    string        `json:"image_url,omitempty"`
	OrganizerID uint          `json:"organizer_id"`
	// Registered is the current count of active registrations. Filled by
	// queries that join the counts; not a stored column.
	Registered int       `json:"registered"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasStarted reports whether the event start time has passed at the given
// instant. Cancellation is only allowed strictly before the start.
func (e Event) HasStarted(at time.Time) bool {
	return !e.StartTime.After(at)
}

// EventFilter narrows catalog listings.
type EventFilter struct {
	Category EventCategory
	Query    string
}
