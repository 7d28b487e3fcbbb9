package search_serv

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an account allowed to modify structures.
type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"default:user"` // admin, user
	CreatedAt    time.Time
}

// CreateUser stores a user with a bcrypt password hash.
func CreateUser(db *gorm.DB, username, password, role string) error {
	if username == "" || password == "" {
		return errors.New("username and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&User{Username: username, PasswordHash: string(hash), Role: role}).Error
}

// EnsureAdmin creates the admin account unless it already exists.
func EnsureAdmin(db *gorm.DB, username, password string) error {
	if _, err := FindUserByUsername(db, username); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return CreateUser(db, username, password, "admin")
}

// FindUserByUsername retrieves a user by name.
func FindUserByUsername(db *gorm.DB, username string) (*User, error) {
	var user User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckPassword compares pw with the stored hash.
func (u *User) CheckPassword(pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pw)) == nil
}
