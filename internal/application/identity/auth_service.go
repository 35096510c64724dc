package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/qiustore/backend/internal/application/notification"
	"github.com/qiustore/backend/internal/domain/identity"
	"github.com/qiustore/backend/internal/domain/shared"
	"github.com/qiustore/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// RegisterInput is a registration submission
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	SalesCode string
}

// AuthResult is a signed-in session
type AuthResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *identity.User `json:"user"`
}

// AuthService orchestrates registration, login and email verification
type AuthService struct {
	users     identity.Repository
	hasher    identity.Hasher
	jwt       *auth.JWTService
	mailer    notification.Mailer
	salesCode string
	logger    *zap.Logger
}

// NewAuthService creates an auth service. salesCode gates the sales role;
// when empty, sales registration is closed.
func NewAuthService(
	users identity.Repository,
	hasher identity.Hasher,
	jwt *auth.JWTService,
	mailer notification.Mailer,
	salesCode string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		hasher:    hasher,
		jwt:       jwt,
		mailer:    mailer,
		salesCode: salesCode,
		logger:    logger,
	}
}

// Register creates an account, issues a verification code and mails it.
// A failed verification mail rides back as a warning, not an error.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, string, error) {
	role := in.Role
	if role == "" {
		role = identity.RoleCustomer
	}
	if role == identity.RoleSales {
		if s.salesCode == "" {
			return nil, "", shared.Forbidden("Sales registration is closed")
		}
		if in.SalesCode != s.salesCode {
			return nil, "", shared.Forbidden("Invalid sales registration code")
		}
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, "", shared.Validation("This email is already registered")
	}

	user, err := identity.NewUser(in.Name, in.Email, in.Password, role, s.hasher)
	if err != nil {
		return nil, "", err
	}

	code, err := user.IssueVerificationCode(s.hasher)
	if err != nil {
		return nil, "", err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	warning := s.sendVerificationMail(ctx, user, code)

	result, err := s.session(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role),
	)
	return result, warning, nil
}

// Login checks credentials and returns a session. Every failure collapses
// into the same generic message.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.Unauthorized("Invalid email or password")
	}
	if !user.CheckPassword(password, s.hasher) {
		return nil, shared.Unauthorized("Invalid email or password")
	}
	return s.session(user)
}

// GetByID fetches one user
func (s *AuthService) GetByID(ctx context.Context, id string) (*identity.User, error) {
	return s.users.FindByID(ctx, id)
}

// Verify consumes a verification code. An already-verified account
// short-circuits with success.
func (s *AuthService) Verify(ctx context.Context, userID, code string) (*identity.User, error) {
	if code == "" {
		return nil, shared.Validation("Verification code is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.EmailVerified {
		return user, nil
	}

	if err := user.Verify(code, s.hasher); err != nil {
		return nil, err
	}
	user.LogActivity("email verified")

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Resend issues a fresh verification code, overwriting any prior one, and
// mails it. Verified accounts are a no-op.
func (s *AuthService) Resend(ctx context.Context, userID string) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.EmailVerified {
		return "", nil
	}

	code, err := user.IssueVerificationCode(s.hasher)
	if err != nil {
		return "", err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}

	return s.sendVerificationMail(ctx, user, code), nil
}

// LogActivity appends a caller-supplied action to the activity log
func (s *AuthService) LogActivity(ctx context.Context, userID, action string) error {
	if action == "" {
		return shared.Validation("Action is required")
	}
	return s.users.AppendActivity(ctx, userID, identity.ActivityEntry{
		Action: action,
		At:     time.Now(),
	})
}

func (s *AuthService) session(user *identity.User) (*AuthResult, error) {
	token, expiresAt, err := s.jwt.Generate(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, shared.Internal("Could not issue a session token")
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) sendVerificationMail(ctx context.Context, user *identity.User, code string) string {
	res := s.mailer.Send(ctx, notification.Message{
		To:      user.Email,
		Subject: "Verify your email address",
		Body: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your verification code is <strong>%s</strong>. It expires in 10 minutes.</p>",
			user.Name, code),
	})
	if res.Sent {
		return ""
	}
	return res.Warning
}
