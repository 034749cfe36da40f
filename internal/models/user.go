package models

import (
	"strings"
	"time"
)

// Role enumerates every account role the school recognises.
type Role string

// Account roles.
const (
	RoleSuperAdmin    Role = "SUPER_ADMIN"
	RoleSchoolAdmin   Role = "SCHOOL_ADMIN"
	RoleAcademicAdmin Role = "ACADEMIC_ADMIN"
	RoleTeacher       Role = "TEACHER"
	RoleStudent       Role = "STUDENT"
	RoleParent        Role = "PARENT"
	RoleAccountant    Role = "ACCOUNTANT"
	RoleLibrarian     Role = "LIBRARIAN"
	RoleReceptionist  Role = "RECEPTIONIST"
	RoleHRManager     Role = "HR_MANAGER"
)

// Roles lists every valid role value.
func Roles() []Role {
	return []Role{
		RoleSuperAdmin, RoleSchoolAdmin, RoleAcademicAdmin, RoleTeacher,
		RoleStudent, RoleParent, RoleAccountant, RoleLibrarian,
		RoleReceptionist, RoleHRManager,
	}
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	for _, role := range Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// User is an account in the school directory.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255" json:"email"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:50;not null;default:STUDENT" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	DateJoined   time.Time `gorm:"autoCreateTime" json:"date_joined"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName joins the first and last name, trimming stray whitespace.
func (u User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}
