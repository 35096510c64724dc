package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainHasher is a test double that stores secrets unhashed
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (plainHasher) Compare(hash, plain string) bool   { return hash == "h:"+plain }

func TestNewUser(t *testing.T) {
	tests := []struct {
		name      string
		userName  string
		email     string
		password  string
		role      string
		wantError bool
		wantEmail string
	}{
		{
			name:      "valid customer",
			userName:  "Dana",
			email:     "Dana@Example.COM",
			password:  "secret1",
			role:      RoleCustomer,
			wantEmail: "dana@example.com",
		},
		{
			name:      "valid sales",
			userName:  "Ming",
			email:     "ming@example.com",
			password:  "secret1",
			role:      RoleSales,
			wantEmail: "ming@example.com",
		},
		{name: "blank name", userName: " ", email: "a@b.co", password: "secret1", role: RoleCustomer, wantError: true},
		{name: "bad email", userName: "Dana", email: "not-an-email", password: "secret1", role: RoleCustomer, wantError: true},
		{name: "short password", userName: "Dana", email: "a@b.co", password: "abc", role: RoleCustomer, wantError: true},
		{name: "unknown role", userName: "Dana", email: "a@b.co", password: "secret1", role: "admin", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUser(tt.userName, tt.email, tt.password, tt.role, plainHasher{})
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, u.Email)
			assert.False(t, u.EmailVerified)
			assert.True(t, u.CheckPassword(tt.password, plainHasher{}))
			assert.False(t, u.CheckPassword("wrong", plainHasher{}))
		})
	}
}

func TestUser_VerificationFlow(t *testing.T) {
	h := plainHasher{}
	u, err := NewUser("Dana", "dana@example.com", "secret1", RoleCustomer, h)
	require.NoError(t, err)

	t.Run("no code on file", func(t *testing.T) {
		assert.ErrorIs(t, u.Verify("123456", h), ErrNoVerificationCode)
	})

	code, err := u.IssueVerificationCode(h)
	require.NoError(t, err)
	require.Len(t, code, 6)

	t.Run("wrong code", func(t *testing.T) {
		assert.ErrorIs(t, u.Verify("000000x", h), ErrVerificationCodeMismatch)
		assert.False(t, u.EmailVerified)
	})

	t.Run("correct code verifies and clears state", func(t *testing.T) {
		require.NoError(t, u.Verify(code, h))
		assert.True(t, u.EmailVerified)
		assert.Empty(t, u.CodeHash)
		assert.Nil(t, u.CodeExpiresAt)
	})

	t.Run("verified user short-circuits", func(t *testing.T) {
		assert.NoError(t, u.Verify("anything", h))
	})
}

func TestUser_VerificationCodeExpiry(t *testing.T) {
	h := plainHasher{}
	u, err := NewUser("Dana", "dana@example.com", "secret1", RoleCustomer, h)
	require.NoError(t, err)

	code, err := u.IssueVerificationCode(h)
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	u.CodeExpiresAt = &expired

	assert.ErrorIs(t, u.Verify(code, h), ErrVerificationCodeExpired)
	assert.False(t, u.EmailVerified)
}

func TestUser_ReissueOverwritesCode(t *testing.T) {
	h := plainHasher{}
	u, err := NewUser("Dana", "dana@example.com", "secret1", RoleCustomer, h)
	require.NoError(t, err)

	first, err := u.IssueVerificationCode(h)
	require.NoError(t, err)
	second, err := u.IssueVerificationCode(h)
	require.NoError(t, err)

	if first != second {
		assert.ErrorIs(t, u.Verify(first, h), ErrVerificationCodeMismatch)
	}
	assert.NoError(t, u.Verify(second, h))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@b.co"))
	assert.True(t, IsValidEmail("first.last+tag@sub.example.com"))
	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("plainaddress"))
	assert.False(t, IsValidEmail("a b@c.co"))
	assert.False(t, IsValidEmail("a@b"))
}

func TestUser_LogActivity(t *testing.T) {
	u, err := NewUser("Dana", "dana@example.com", "secret1", RoleCustomer, plainHasher{})
	require.NoError(t, err)

	u.LogActivity("purchase")
	u.LogActivity("payment")
	require.Len(t, u.Activity, 2)
	assert.Equal(t, "purchase", u.Activity[0].Action)
}
