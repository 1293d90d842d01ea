package domain

import "time"

// Accommodation is a listing offered by a host.
type Accommodation struct {
	ID            string    `json:"id"`
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location"`
	City          string    `json:"city"`
	PricePerNight float64   `json:"pricePerNight"`
	MaxGuests     int       `json:"maxGuests"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (a *Accommodation) OwnerID() string { return a.Owner }

// AccommodationPatch carries a partial update; nil fields are left untouched.
type AccommodationPatch struct {
	Name          *string
	Description   *string
	Location      *string
	City          *string
	PricePerNight *float64
	MaxGuests     *int
}

// Apply copies the non-nil fields of p onto a.
func (p AccommodationPatch) Apply(a *Accommodation) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.PricePerNight != nil {
		a.PricePerNight = *p.PricePerNight
	}
	if p.MaxGuests != nil {
		a.MaxGuests = *p.MaxGuests
	}
}
