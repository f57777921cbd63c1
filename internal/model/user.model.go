package model

import (
	"regexp"
	"time"
)

// UserRole controls which routes a token may reach.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleUser   UserRole = "user"
	RoleDriver UserRole = "driver"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleDriver:
		return true
	}
	return false
}

type User struct {
	ID        int64      `json:"id"         db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name      string     `json:"name"       db:"name"       gorm:"column:name;not null"`
	Email     string     `json:"email"      db:"email"      gorm:"column:email;not null;uniqueIndex"`
	Password  string     `json:"-"          db:"password"   gorm:"column:password;not null"`
	Role      UserRole   `json:"role"       db:"role"       gorm:"column:role;not null;default:user"`
	CreatedAt time.Time  `json:"created_at" db:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt *time.Time `json:"-"          db:"deleted_at" gorm:"column:deleted_at;index"`
}

func (User) TableName() string { return "users" }

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserCreateRequest is the input for registering a user.
type UserCreateRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
}

func (p UserCreateRequest) Validate() error {
	if p.Name == "" {
		return validationErr("name is required")
	}
	if len(p.Name) > 50 {
		return validationErr("name exceeds maximum length")
	}
	if !emailPattern.MatchString(p.Email) {
		return validationErr("email is invalid")
	}
	if len(p.Password) < 8 {
		return validationErr("password must be at least 8 characters")
	}
	if p.Role != "" && !p.Role.Valid() {
		return validationErr("role is invalid")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p LoginRequest) Validate() error {
	if !emailPattern.MatchString(p.Email) {
		return validationErr("email is invalid")
	}
	if p.Password == "" {
		return validationErr("password is required")
	}
	return nil
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
