// Package models holds the server-side persistence records.
package models

import (
	"time"

	dm "github.com/dmitrijs2005/leavekeeper/internal/models"
)

// User is a stored account. PasswordHash is a bcrypt hash.
type User struct {
	ID           int64
	UserName     string
	PasswordHash []byte
	FullName     string
	Email        string
	Role         dm.Role
	CreatedAt    time.Time
}

// Identity is the public view of u.
func (u *User) Identity() dm.Identity {
	return dm.Identity{
		ID:       u.ID,
		Username: u.UserName,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	}
}
