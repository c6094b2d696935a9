package entity

import (
	"strings"
	"time"
)

type EventStatus string

const (
	EventStatusScheduled EventStatus = "SCHEDULED"
	EventStatusCancelled EventStatus = "CANCELLED"
	EventStatusCompleted EventStatus = "COMPLETED"
)

type EventType string

const (
	EventTypeTheaterPlay EventType = "THEATER_PLAY"
	EventTypeConcert     EventType = "CONCERT"
	EventTypeConference  EventType = "CONFERENCE"
)

// ParseEventStatus parses a status string case-insensitively.
func ParseEventStatus(s string) (EventStatus, error) {
	switch EventStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case EventStatusScheduled:
		return EventStatusScheduled, nil
	case EventStatusCancelled:
		return EventStatusCancelled, nil
	case EventStatusCompleted:
		return EventStatusCompleted, nil
	default:
		return "", ErrInvalidStatus
	}
}

// ParseEventType parses an event type string case-insensitively.
func ParseEventType(s string) (EventType, error) {
	switch EventType(strings.ToUpper(strings.TrimSpace(s))) {
	case EventTypeTheaterPlay:
		return EventTypeTheaterPlay, nil
	case EventTypeConcert:
		return EventTypeConcert, nil
	case EventTypeConference:
		return EventTypeConference, nil
	default:
		return "", ErrInvalidInput
	}
}

type Event struct {
	ID            int64       `json:"id" db:"id"`
	Title         string      `json:"title" db:"title"`
	Description   string      `json:"description" db:"description"`
	Type          EventType   `json:"type" db:"type"`
	StartDateTime time.Time   `json:"startDateTime" db:"start_date_time"`
	EndDateTime   time.Time   `json:"endDateTime" db:"end_date_time"`
	Status        EventStatus `json:"status" db:"status"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at"`

	TicketOptions []*TicketOption `json:"ticketOptions,omitempty"`
}

// IsOpenForSales reports whether reservations may still be created for the
// event. A one minute grace period keeps sales open right at curtain time.
func (e *Event) IsOpenForSales(now time.Time) bool {
	return e.Status == EventStatusScheduled && e.StartDateTime.After(now.Add(-time.Minute))
}
