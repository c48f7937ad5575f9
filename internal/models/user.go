package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser             = "user"
	RoleHostelAuthority  = "hostel_authority"
	RoleCentralAuthority = "central_authority"
)

// ValidRole reports whether role is one of the closed set of account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleHostelAuthority, RoleCentralAuthority:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"type:char(36);primaryKey" bson:"_id" json:"id"`
	Name         string    `gorm:"size:255;not null" bson:"name" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" bson:"email" json:"email"`
	Phone        string    `gorm:"size:32" bson:"phone" json:"phone"`
	PasswordHash string    `gorm:"size:255;not null" bson:"password" json:"-"`
	Role         string    `gorm:"size:50;not null;index" bson:"role" json:"role"`
	IsActive     bool      `gorm:"not null" bson:"isActive" json:"isActive"`
	IsVerified   bool      `gorm:"not null" bson:"isVerified" json:"isVerified"`
	CreatedAt    time.Time `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// CanAuthenticate is false for accounts that must not receive or use tokens.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && u.IsVerified
}

// NormalizeEmail is the canonical form used for every email lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
