package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role determines which KPI projection a user sees.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleMarketing Role = "marketing"
	RoleFinance   Role = "finance"
)

// IsValid checks if the role is a known dashboard role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMarketing, RoleFinance:
		return true
	default:
		return false
	}
}

// User represents a dashboard user.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;size:255;not null"`
	Role         Role      `json:"role" gorm:"size:20;not null;default:marketing"`
	FirstName    string    `json:"first_name" gorm:"column:first_name;size:50"`
	LastName     string    `json:"last_name" gorm:"column:last_name;size:50"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ToResponse converts the user to its public representation.
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
