package entity

import (
	"time"
)

// freePassStreak is the attendance streak that grants one free admission.
const freePassStreak = 5

type Customer struct {
	ID               int64     `json:"id" db:"id"`
	FirstName        string    `json:"firstName" db:"first_name"`
	LastName         string    `json:"lastName" db:"last_name"`
	Email            string    `json:"email" db:"email"`
	RegistrationDate time.Time `json:"registrationDate" db:"registration_date"`
	TotalAttendances int       `json:"totalAttendances" db:"total_attendances"`
	CurrentStreak    int       `json:"currentStreak" db:"current_streak"`
	LoyaltyFree      bool      `json:"loyaltyFree" db:"loyalty_free"`
	Active           bool      `json:"active" db:"active"`
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// IncrementAttendance records one attended event. Counters reset when the
// registration year has rolled over; a streak of five grants the free pass.
func (c *Customer) IncrementAttendance(now time.Time) {
	if c.RegistrationDate.Year() < now.Year() {
		c.CurrentStreak = 0
		c.TotalAttendances = 0
		c.LoyaltyFree = false
		c.RegistrationDate = now
	}

	c.TotalAttendances++
	c.CurrentStreak++

	if c.CurrentStreak >= freePassStreak {
		c.LoyaltyFree = true
	}
}

// ResetStreak drops the current streak and revokes an unredeemed free pass.
func (c *Customer) ResetStreak() {
	c.CurrentStreak = 0
	c.LoyaltyFree = false
}
