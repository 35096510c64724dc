package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qiustore/backend/internal/domain/shared"
)

// Roles
const (
	RoleCustomer = "customer"
	RoleSales    = "sales"
)

// Verification failures, each mapped to a distinct message at the boundary
var (
	ErrNoVerificationCode       = shared.Validation("No verification code on file, request a new one")
	ErrVerificationCodeExpired  = shared.Validation("Verification code has expired, request a new one")
	ErrVerificationCodeMismatch = shared.Validation("Verification code does not match")
)

// codeTTL is how long an issued verification code stays valid
const codeTTL = 10 * time.Minute

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether the address has a plausible mailbox shape
func IsValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// SameEmail compares two addresses ignoring case and surrounding whitespace
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ActivityEntry is one append-only record of something the user did
type ActivityEntry struct {
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}

// User is a registered storefront account. Credential material is never
// serialized to clients.
type User struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	PasswordHash  string          `json:"-"`
	Role          string          `json:"role"`
	EmailVerified bool            `json:"email_verified"`
	CodeHash      string          `json:"-"`
	CodeExpiresAt *time.Time      `json:"-"`
	Activity      []ActivityEntry `json:"activity,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Hasher hashes and verifies short-lived secrets and passwords
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// NewUser creates an account with a normalized email and hashed password
func NewUser(name, email, password, role string, hasher Hasher) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, shared.Validation("Name is required")
	}
	if !IsValidEmail(email) {
		return nil, shared.Validation("A valid email address is required")
	}
	if len(password) < 6 {
		return nil, shared.Validation("Password must be at least 6 characters")
	}
	if role != RoleCustomer && role != RoleSales {
		return nil, shared.Validation("Unknown role")
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, shared.Internal("Could not hash password")
	}

	now := time.Now()
	return &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CheckPassword verifies a login attempt against the stored hash
func (u *User) CheckPassword(password string, hasher Hasher) bool {
	return hasher.Compare(u.PasswordHash, password)
}

// IssueVerificationCode generates a fresh 6-digit code, stores only its hash
// with a 10 minute expiry, and returns the plain code for delivery. Any prior
// code is overwritten.
func (u *User) IssueVerificationCode(hasher Hasher) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", shared.Internal("Could not generate verification code")
	}
	code := fmt.Sprintf("%06d", n.Int64())

	hash, err := hasher.Hash(code)
	if err != nil {
		return "", shared.Internal("Could not hash verification code")
	}

	expires := time.Now().Add(codeTTL)
	u.CodeHash = hash
	u.CodeExpiresAt = &expires
	u.UpdatedAt = time.Now()
	return code, nil
}

// Verify consumes a verification code. Success clears the stored code and
// marks the email verified; an already-verified user short-circuits with nil.
func (u *User) Verify(code string, hasher Hasher) error {
	if u.EmailVerified {
		return nil
	}
	if u.CodeHash == "" || u.CodeExpiresAt == nil {
		return ErrNoVerificationCode
	}
	if time.Now().After(*u.CodeExpiresAt) {
		return ErrVerificationCodeExpired
	}
	if !hasher.Compare(u.CodeHash, code) {
		return ErrVerificationCodeMismatch
	}

	u.EmailVerified = true
	u.CodeHash = ""
	u.CodeExpiresAt = nil
	u.UpdatedAt = time.Now()
	return nil
}

// LogActivity appends an entry to the user's activity log
func (u *User) LogActivity(action string) {
	u.Activity = append(u.Activity, ActivityEntry{Action: action, At: time.Now()})
	u.UpdatedAt = time.Now()
}
