package identity

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a team member
type UserStatus string

const (
	UserStatusInvited  UserStatus = "invited"
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Role is the coarse role carried in access tokens
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// CanManageTenant reports whether the role may change tenant settings
func (r Role) CanManageTenant() bool {
	return r == RoleOwner || r == RoleAdmin
}

// IsValid returns true if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// bcryptCost is a variable so tests can lower it.
var bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a member of a tenant's team. Invited users count toward the users quota.
type User struct {
	shared.BaseEntity
	TenantID     uuid.UUID
	Email        string
	Name         string
	Role         Role
	Status       UserStatus
	PasswordHash string
	InviteToken  string
	InvitedBy    *uuid.UUID
	AcceptedAt   *time.Time
}

// NewInvitedUser creates a pending team member with a fresh invitation token
func NewInvitedUser(tenantID uuid.UUID, email, name string, role Role, invitedBy *uuid.UUID) (*User, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	if !role.IsValid() || role == RoleOwner {
		return nil, shared.NewDomainError("INVALID_ROLE", "Invitations can only grant admin or member roles")
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}

	return &User{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		Email:       email,
		Name:        name,
		Role:        role,
		Status:      UserStatusInvited,
		InviteToken: token,
		InvitedBy:   invitedBy,
	}, nil
}

// AcceptInvitation activates an invited user with the chosen password
func (u *User) AcceptInvitation(password string) error {
	if u.Status != UserStatusInvited {
		return shared.NewDomainError("INVALID_STATE", "Invitation has already been used")
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now()
	u.PasswordHash = hash
	u.Status = UserStatusActive
	u.InviteToken = ""
	u.AcceptedAt = &now
	u.Touch(now)
	return nil
}

// CheckPassword verifies a password against the stored hash
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func newInviteToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	hasLetter := strings.IndexFunc(password, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}) >= 0
	hasNumber := strings.IndexFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
