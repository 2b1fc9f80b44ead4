package model

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	FullName       string    `gorm:"not null"`
	Role           string    `gorm:"not null;default:'user'"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// Caller is the identity on whose behalf a request executes. It is resolved
// by the auth middleware and carried through the request context; core
// operations never assume a fixed identity.
type Caller struct {
	ID    string
	Email string
	Role  string
}
