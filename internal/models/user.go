package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID       int    `gorm:"primaryKey"`
	Email    string `gorm:"uniqueIndex"`
	Password string
	// DisplayName is stamped into exported documents as Session_Info/User_Name.
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
