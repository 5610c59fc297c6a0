// ABOUTME: Auth request/response models and decoded session claims
// ABOUTME: Defines the OTP login contract and the identity carried by a session token

package models

import "time"

// Role is the capability level carried in a session token
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Claims is the decoded identity of a session token
type Claims struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the claims are still within their validity window at now
func (c *Claims) Valid(now time.Time) bool {
	return c != nil && now.Before(c.ExpiresAt)
}

// CheckUserResponse tells the login flow whether the email is new (register) or known (login)
type CheckUserResponse struct {
	IsNew bool `json:"isNew"`
}

// LoginRequest exchanges an emailed OTP for a session token
type LoginRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// RegisterRequest creates an account and returns a session token
type RegisterRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Admin bool   `json:"Admin"`
}

// AuthResponse carries the issued token
type AuthResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text returns whichever of the error fields the server filled in
func (e ErrorResponse) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
