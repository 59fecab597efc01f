package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a patient or doctor account. Identity fields are
// immutable after registration; only the password may be rotated.
type User struct {
	Base
	Name                string     `json:"name" db:"name"`
	Surname             string     `json:"surname" db:"surname"`
	BirthDate           time.Time  `json:"birth_date" db:"birth_date"`
	Email               string     `json:"email" db:"email"`
	Phone               string     `json:"phone" db:"phone"`
	PasswordHash        string     `json:"-" db:"password_hash"`
	Role                Role       `json:"role" db:"role"`
	SpecialtyID         *uuid.UUID `json:"specialty_id,omitempty" db:"specialty_id"`
	FailedLoginAttempts int        `json:"-" db:"failed_login_attempts"`
	LastLoginAttempt    *time.Time `json:"-" db:"last_login_attempt"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}

func (u *User) FullName() string {
	return u.Name + " " + u.Surname
}

// UserSummary is the directory projection used by the booking form.
type UserSummary struct {
	ID       uuid.UUID `json:"id" db:"id"`
	FullName string    `json:"full_name" db:"full_name"`
	Role     Role      `json:"role" db:"role"`
}

type RegisterRequest struct {
	Name        string     `json:"name" binding:"required"`
	Surname     string     `json:"surname" binding:"required"`
	BirthDate   string     `json:"birth_date" binding:"required,datetime=2006-01-02"`
	Email       string     `json:"email" binding:"required,email"`
	Phone       string     `json:"phone" binding:"required"`
	Password    string     `json:"password" binding:"required,min=8"`
	SpecialtyID *uuid.UUID `json:"specialty_id"`
}

// RegisterDoctorRequest provisions a doctor account with generic
// defaults; the doctor rotates the password on first login.
type RegisterDoctorRequest struct {
	Name    string `json:"name" binding:"required"`
	Surname string `json:"surname" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}
