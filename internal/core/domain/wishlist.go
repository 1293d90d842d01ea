package domain

import "time"

// WishlistItem bookmarks an accommodation for a user.
type WishlistItem struct {
	ID            string    `json:"id"`
	User          string    `json:"user"`
	Accommodation string    `json:"accommodation"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (w *WishlistItem) OwnerID() string { return w.User }
