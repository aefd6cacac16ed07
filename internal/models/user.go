package models

import "time"

// Account roles. Role is account-level classification, distinct from
// connection-level permissions.
const (
	RoleSenior = "senior"
	RoleFamily = "family"
	RoleAdmin  = "admin"
)

// User is a CareTrek account with its profile fields. PasswordHash is
// never serialized.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRole reports whether r is a known account role.
func ValidRole(r string) bool {
	return r == RoleSenior || r == RoleFamily || r == RoleAdmin
}

// RegisterRequest for creating a new account
type RegisterRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// LoginRequest for authenticating
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse returned by register and login
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
