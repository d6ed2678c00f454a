package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmabill/backend/internal/domain/shared"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

const bcryptCost = 12

const maxFailedLogins = 5

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a pharmacy staff account used to access the billing backend
type User struct {
	shared.TenantAggregateRoot
	Email          string
	PasswordHash   string
	DisplayName    string
	Status         UserStatus
	LastLoginAt    *time.Time
	FailedAttempts int
}

// NewUser creates an active user with a bcrypt password hash
func NewUser(pharmacyID uuid.UUID, email, password, displayName string) (*User, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.NewValidationError("pharmacy_id", "user must belong to a pharmacy")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, shared.NewValidationError("email", "invalid email format")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewValidationError("password", "failed to hash password")
	}

	u := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(pharmacyID),
		Email:               email,
		PasswordHash:        string(hash),
		DisplayName:         strings.TrimSpace(displayName),
		Status:              UserStatusActive,
	}
	return u, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewValidationError("password", "password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return shared.NewValidationError("password", "password cannot exceed 72 characters")
	}
	return nil
}

// CheckPassword verifies a login attempt, counting failures and locking
// the account after too many.
func (u *User) CheckPassword(password string) error {
	if u.Status == UserStatusLocked {
		return shared.NewUnauthorizedError("account is locked")
	}
	if u.Status == UserStatusDeactivated {
		return shared.NewUnauthorizedError("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		u.FailedAttempts++
		if u.FailedAttempts >= maxFailedLogins {
			u.Status = UserStatusLocked
		}
		u.MarkUpdated()
		u.IncrementVersion()
		return shared.NewUnauthorizedError("invalid credentials")
	}

	u.FailedAttempts = 0
	now := time.Now()
	u.LastLoginAt = &now
	u.MarkUpdated()
	u.IncrementVersion()
	return nil
}

// ChangePassword replaces the password hash
func (u *User) ChangePassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return shared.NewValidationError("password", "failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.MarkUpdated()
	u.IncrementVersion()
	return nil
}

// Unlock clears a lock and the failure counter
func (u *User) Unlock() {
	if u.Status != UserStatusLocked {
		return
	}
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.MarkUpdated()
	u.IncrementVersion()
}

// Deactivate disables the account
func (u *User) Deactivate() {
	if u.Status == UserStatusDeactivated {
		return
	}
	u.Status = UserStatusDeactivated
	u.MarkUpdated()
	u.IncrementVersion()
}
