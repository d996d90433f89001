package auth

import "time"

type UserRole struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RoleName    string `gorm:"size:50;unique;not null" json:"role_name"`
	Description string `gorm:"size:255" json:"description"`
	CanRegister bool   `gorm:"default:false" json:"can_register"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	FullName     string   `gorm:"size:255;not null" json:"full_name"`
	Email        string   `gorm:"size:255;unique;not null" json:"email"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	RoleID       uint     `gorm:"not null;index" json:"role_id"`
	Role         UserRole `gorm:"foreignKey:RoleID" json:"role"`
	Status       string   `gorm:"size:20;default:'active'" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Role names used throughout the transcription project.
const (
	RoleSuperAdmin  = "superadmin"
	RoleReviewer    = "reviewer"
	RoleTranscriber = "transcriber"
)
