package transport

import (
	"time"

	"github.com/google/uuid"
)

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	FullName string `json:"fullName" validate:"max=200"`
	Password string `json:"password" validate:"required,max=72,strongpassword"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UpdateUserRequest replaces a user's profile. Password is changed only when set.
type UpdateUserRequest struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	FullName string  `json:"fullName" validate:"max=200"`
	Password *string `json:"password,omitempty" validate:"omitempty,max=72,strongpassword"`
	IsAdmin  bool    `json:"isAdmin"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
}
