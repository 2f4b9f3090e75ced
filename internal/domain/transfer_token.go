package domain

import "time"

// TransferToken is the persisted record backing a single-use session handoff
// between the web application and the companion mobile app. The encoded token
// string is the lookup key; the used flag enforces single use server-side.
type TransferToken struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time
	CreatedAt time.Time
}
