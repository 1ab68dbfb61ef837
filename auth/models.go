package auth

import "time"

// User is an identity record. Username and email are globally unique; the
// password is only ever held as a bcrypt hash and is excluded from JSON.
type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
