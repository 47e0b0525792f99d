package models

import (
	"time"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleSenior  Role = "SENIOR"
	RoleAdmin   Role = "ADMIN"
)

// User is a Campus Connect participant. The ID is the college
// registration number, which doubles as the chat participant identifier.
type User struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name   string `json:"name"`
	Email  string `gorm:"uniqueIndex" json:"email"`
	Branch string `json:"branch"`
	Year   int    `json:"year"`

	Role Role `gorm:"type:text;default:'STUDENT'" json:"role"`

	Password string `json:"-"`
}

func (User) TableName() string {
	return "users"
}
