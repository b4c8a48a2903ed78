package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/groupdiary/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// LevelUpThreshold is the number of verification events needed to advance
// one main level.
const LevelUpThreshold = 3

// Domain errors for the identity context
var (
	ErrUserNotFound       = shared.NewDomainError("USER_NOT_FOUND", "User does not exist")
	ErrDuplicateEmail     = shared.NewDomainError("DUPLICATE_EMAIL", "A user with this email already exists")
	ErrDuplicateNickname  = shared.NewDomainError("DUPLICATE_NICKNAME", "A user with this nickname already exists")
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Email or password is incorrect")
)

// User represents a diary user.
// MainLevel is the coarse tier; SubLevel counts verification events within the
// current tier and wraps at LevelUpThreshold.
type User struct {
	shared.BaseEntity
	Email           string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Nickname        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	PasswordHash    string `gorm:"type:varchar(100);not null"`
	ProfileImageURL string `gorm:"type:text"`
	MainLevel       int    `gorm:"not null;default:1"`
	SubLevel        int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with a hashed password
func NewUser(email, password, nickname string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := validateNickname(nickname); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Nickname:     strings.TrimSpace(nickname),
		PasswordHash: hash,
		MainLevel:    1,
		SubLevel:     0,
	}, nil
}

// VerifyPassword checks if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword verifies the old password and sets a new one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without verification
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	return nil
}

// SetNickname updates the user's nickname
func (u *User) SetNickname(nickname string) error {
	if err := validateNickname(nickname); err != nil {
		return err
	}
	u.Nickname = strings.TrimSpace(nickname)
	u.UpdatedAt = time.Now()
	return nil
}

// SetProfileImageURL updates the user's profile image
func (u *User) SetProfileImageURL(url string) {
	u.ProfileImageURL = url
	u.UpdatedAt = time.Now()
}

// AddProgress records one qualifying verification event.
// Returns true when the event crossed the tier threshold, i.e. MainLevel
// advanced and SubLevel was reset.
func (u *User) AddProgress() bool {
	u.SubLevel++
	u.UpdatedAt = time.Now()
	if u.SubLevel < LevelUpThreshold {
		return false
	}
	u.SubLevel = 0
	u.MainLevel++
	return true
}

// validateEmail validates an email address
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 255 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 255 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}

// validatePassword validates password strength
func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

// validateNickname validates the nickname
func validateNickname(nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return shared.NewDomainError("INVALID_NICKNAME", "Nickname cannot be empty")
	}
	if len(nickname) > 50 {
		return shared.NewDomainError("INVALID_NICKNAME", "Nickname cannot exceed 50 characters")
	}
	return nil
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
