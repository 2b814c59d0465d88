package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the only persisted aggregate.
type User struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Name            string     `json:"name" gorm:"size:191;not null;default:''"`
	Nickname        string     `json:"nickname" gorm:"size:30;not null"`
	NicknameKey     string     `json:"-" gorm:"size:64;not null;uniqueIndex"`
	Email           string     `json:"email" gorm:"size:191;not null"`
	EmailKey        string     `json:"-" gorm:"size:191;not null;uniqueIndex"`
	Password        string     `json:"-" gorm:"size:191;not null;default:''"` // bcrypt hash, never exposed
	EmailVerifiedAt *time.Time `json:"-"`
	RememberToken   string     `json:"-" gorm:"size:100"`
	CreatedAt       time.Time  `json:"-"`
	UpdatedAt       time.Time  `json:"-"`
}

// NormalizeKey folds a nickname or email into the form the unique indexes compare.
func NormalizeKey(s string) string {
	return strings.ToLower(s)
}

// BeforeSave keeps the case-folded shadow columns in sync.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.NicknameKey = NormalizeKey(u.Nickname)
	u.EmailKey = NormalizeKey(u.Email)
	return nil
}

// BeforeCreate issues the opaque remember token.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.RememberToken == "" {
		u.RememberToken = uuid.NewString()
	}
	return nil
}
