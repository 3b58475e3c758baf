package users

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the stored account record. The hash never leaves the server: it is
// excluded from every JSON response.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
