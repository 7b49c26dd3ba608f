package users

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-church-admin/token"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

type User struct {
	ID           string     `json:"id,omitempty"`         // Unique identifier for the user
	Email        string     `json:"email,omitempty"`      // Login email, unique
	PasswordHash string     `json:"-"`                    // Hashed version of the user's password - never serialize
	FirstName    string     `json:"first_name,omitempty"` // First name of the user
	LastName     string     `json:"last_name,omitempty"`  // Last name of the user
	Role         token.Role `json:"role,omitempty"`       // Role carried in issued access tokens
	Status       Status     `json:"status,omitempty"`
	DateJoined   time.Time  `json:"date_joined,omitempty"`
	LastLogin    time.Time  `json:"last_login,omitempty"`
}

// Active reports whether the user may log in.
func (u *User) Active() bool {
	return u.Status == "" || u.Status == StatusActive
}

// Identity is the token subject for this user.
func (u *User) Identity() token.Identity {
	return token.Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

// NormaliseEmail lower-cases and trims an email for lookups.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the user's hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
