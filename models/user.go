package models

import (
	"time"
)

// Role represents user role types
type Role string

const (
	RoleProjectManager Role = "project_manager"
	RoleDeveloper      Role = "developer"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleProjectManager || r == RoleDeveloper
}

// User represents an account in the system
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Username   string    `json:"username" gorm:"size:150;uniqueIndex;not null" validate:"required,max=150"`
	Email      string    `json:"email" gorm:"size:254" validate:"omitempty,email,max=254"`
	FirstName  string    `json:"first_name" gorm:"size:150" validate:"max=150"`
	LastName   string    `json:"last_name" gorm:"size:150" validate:"max=150"`
	Password   string    `json:"-" gorm:"not null"` // Password is not exposed in JSON
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	DateJoined time.Time `json:"date_joined" gorm:"autoCreateTime;<-:create"`

	// Relations
	Profile *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// UserProfile extends a user with a role and an optional picture
type UserProfile struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	UserID         uint    `json:"user" gorm:"uniqueIndex;not null"`
	Role           Role    `json:"role" gorm:"type:varchar(20);default:'developer'"`
	ProfilePicture *string `json:"profile_picture" gorm:"size:255"`
}
