package domain

import "time"

// Message is a direct message between two users. Both participants may read
// it; only the sender owns it.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m *Message) OwnerID() string { return m.Sender }

// Participants lists the users allowed to see the message.
func (m *Message) Participants() []string { return []string{m.Sender, m.Recipient} }
