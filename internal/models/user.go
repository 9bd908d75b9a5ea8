// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Name         string `json:"name" gorm:"size:150;not null"`
	Email        string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"`
	AvatarURL    string `json:"avatar_url" gorm:"size:500"`
	Role         Role   `json:"role" gorm:"type:varchar(20);not null;default:'user'"`

	// Premium state. Written only by the premium service and the expiry sweep.
	IsPremium        bool       `json:"isPremium" gorm:"not null;default:false;index"`
	SubscriptionType *string    `json:"subscriptionType" gorm:"size:100"`
	PremiumStartDate *time.Time `json:"premiumStartDate"`
	PremiumEndDate   *time.Time `json:"premiumEndDate" gorm:"index"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the subset of a user embedded in comments.
type PublicUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}
