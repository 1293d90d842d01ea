package domain

import "time"

// Review is a guest's rating of an accommodation.
type Review struct {
	ID            string    `json:"id"`
	User          string    `json:"user"`
	Accommodation string    `json:"accommodation"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (r *Review) OwnerID() string { return r.User }

type ReviewPatch struct {
	Rating  *int
	Comment *string
}

func (p ReviewPatch) Apply(r *Review) {
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.Comment != nil {
		r.Comment = *p.Comment
	}
}
