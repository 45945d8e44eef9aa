package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a chat-visible projection of an account. Profile management
// (including the wallet address) belongs to the account service; chat only
// reads these rows to hydrate sender/receiver objects.
type User struct {
	ID            string `gorm:"primaryKey" json:"id"`
	DisplayName   string `gorm:"type:text;not null" json:"displayName"`
	WalletAddress string `gorm:"type:text" json:"-"`
}

// BeforeCreate assigns a UUID when the ID has not been set by the caller.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
