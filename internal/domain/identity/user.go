package identity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// Role is the access tier of a user
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCashier  Role = "cashier"
	RoleCustomer Role = "customer"
)

// Valid reports whether the role is a known value
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleCustomer:
		return true
	}
	return false
}

// IsStaff returns true for roles operating the store (admin, cashier)
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleCashier
}

// User is a store account: staff (admin/cashier) or customer. The role
// drives every access decision through the Policy table.
type User struct {
	shared.BaseAggregateRoot
	Username       string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash   string     `gorm:"type:varchar(255);not null"`
	FirstName      string     `gorm:"type:varchar(100)"`
	LastName       string     `gorm:"type:varchar(100)"`
	Role           Role       `gorm:"type:varchar(20);not null;default:'customer';index"`
	Phone          string     `gorm:"type:varchar(20)"`
	Address        string     `gorm:"type:text"`
	Active         bool       `gorm:"not null;default:true"`
	FailedAttempts int        `gorm:"not null;default:0"`
	LockedUntil    *time.Time `gorm:""`
	LastLoginAt    *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with the given role and a hashed password
func NewUser(username, email, password string, role Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be admin, cashier or customer")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(username),
		Email:             strings.ToLower(email),
		Role:              role,
		Active:            true,
	}

	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	return user, nil
}

// NewCustomer creates a user with the default customer role
func NewCustomer(username, email, password string) (*User, error) {
	return NewUser(username, email, password, RoleCustomer)
}

// SetName sets the user's first and last name
func (u *User) SetName(firstName, lastName string) {
	u.FirstName = firstName
	u.LastName = lastName
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// SetContact sets the user's phone and address
func (u *User) SetContact(phone, address string) error {
	if len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 20 characters")
	}

	u.Phone = phone
	u.Address = address
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangeRole updates the user's role
func (u *User) ChangeRole(role Role) error {
	if !role.Valid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be admin, cashier or customer")
	}

	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Activate re-enables the account and clears any login lock
func (u *User) Activate() {
	u.Active = true
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// IsLocked returns true while a failed-login lock is in effect
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && u.LockedUntil.After(time.Now())
}

// CanLogin returns true if the account is active and not locked
func (u *User) CanLogin() bool {
	return u.Active && !u.IsLocked()
}

// RecordLoginSuccess resets the failure counter and stamps the login time
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// RecordLoginFailure increments the failure counter and locks the account
// once maxAttempts is reached. Returns true if the account became locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.UpdatedAt = time.Now()

	if u.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		u.LockedUntil = &until
		return true
	}
	return false
}

// DisplayName returns the user's name, falling back to the username
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func validateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 || len(username) > 50 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be between 3 and 50 characters")
	}
	for _, r := range username {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '.' || r == '-') {
			return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, dots, underscores and hyphens")
		}
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Email is not a valid address")
	}
	return nil
}
