package models

import "time"

type User struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	TargetCertification string    `json:"target_certification,omitempty"`
	Password            string    `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email               string `json:"email"`
	Name                string `json:"name"`
	Password            string `json:"password"`
	TargetCertification string `json:"target_certification,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
