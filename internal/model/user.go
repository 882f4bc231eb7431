package model

import "time"

type User struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	PasswordHash    string    `json:"-"`
	IsTutor         bool      `json:"is_tutor"`
	Bio             string    `json:"bio,omitempty"`
	HourlyRateCents int64     `json:"hourly_rate_cents,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
