package models

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleLibrarian = "Librarian"
	RoleClient    = "Client"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) Validate() error {
	if len(strings.TrimSpace(u.Username)) < 3 {
		return errors.New("username too short")
	}
	if u.Role == "" {
		u.Role = RoleClient
	}
	if u.Role != RoleLibrarian && u.Role != RoleClient {
		return errors.New("unknown role")
	}
	return nil
}
