package domain

import (
	"math"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking reserves an accommodation for a date range.
type Booking struct {
	ID            string        `json:"id"`
	User          string        `json:"user"`
	Accommodation string        `json:"accommodation"`
	StartDate     time.Time     `json:"startDate"`
	EndDate       time.Time     `json:"endDate"`
	Guests        int           `json:"guests"`
	TotalPrice    float64       `json:"totalPrice"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func (b *Booking) OwnerID() string { return b.User }

// Nights is the number of started nights between start and end.
func (b *Booking) Nights() int {
	return int(math.Ceil(b.EndDate.Sub(b.StartDate).Hours() / 24))
}

// Overlaps reports whether [start, end) intersects the booking's range.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && start.Before(b.EndDate)
}

// BookingPatch carries a partial update; nil fields are left untouched.
type BookingPatch struct {
	StartDate *time.Time
	EndDate   *time.Time
	Guests    *int
	Status    *BookingStatus
}

func (p BookingPatch) Apply(b *Booking) {
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		b.EndDate = *p.EndDate
	}
	if p.Guests != nil {
		b.Guests = *p.Guests
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
}
