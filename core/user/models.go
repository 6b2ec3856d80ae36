package user

import "time"

// User is created on the first successful sign-in and never deleted.
// Identity resolution (OAuth, SSO, ...) happens upstream; this system only
// consumes the resulting (email, display name) pair.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"` // UTC
	LastLogin time.Time `json:"last_login"` // UTC
}
