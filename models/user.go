package models

import (
	"time"
)

// Fixed role ids shared across all three databases. Registration
// self-heals these rows, so the values must never change.
const (
	RoleAdminID   = 1
	RoleTeacherID = 2
	RoleStudentID = 3
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// Table names are singular: the schema pre-dates this service and the
// maintenance scripts address it directly.

// Role lives in the users database.
type Role struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Role) TableName() string { return "role" }

// User is the source of truth for identity and credentials.
// The password hash never leaves the service (json:"-").
type User struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Phone     *string   `json:"phone,omitempty"`
	Age       *int      `json:"age,omitempty"`
	RoleID    int       `json:"role_id" gorm:"not null;index"`
	Status    string    `json:"status" gorm:"default:'active'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Role Role `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

func (User) TableName() string { return "user" }

// UserSync marks which profile-store records exist for a user. It is
// written right after the user upsert so a reconciliation pass can tell
// which users are missing their profiles-database counterparts.
type UserSync struct {
	ID                int       `json:"id" gorm:"primaryKey"`
	UserID            int       `json:"user_id" gorm:"uniqueIndex;not null"`
	RoleID            int       `json:"role_id" gorm:"not null"`
	HasStudentProfile bool      `json:"has_student_profile" gorm:"default:false"`
	HasTeacherProfile bool      `json:"has_teacher_profile" gorm:"default:false"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (UserSync) TableName() string { return "user_sync" }
