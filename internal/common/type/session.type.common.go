package types

import (
	"github.com/google/uuid"
)

type UserWithAuth struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	FirstName string    `json:"first_name" validate:"omitempty"`
	LastName  string    `json:"last_name" validate:"omitempty"`
}

const AuthContextKey = "auth"
