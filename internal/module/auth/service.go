package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/module/user"
)

// Service defines the authentication operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	Register(ctx context.Context, in RegisterRequest) (*user.UserResponse, error)
	Me(ctx context.Context, userID uint) (*MeResponse, error)
}

// Users is the part of the user service authentication relies on.
type Users interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uint) (user.UserResponse, error)
	Create(ctx context.Context, in user.CreateUserRequest, actingUserID uint) (user.UserResponse, error)
}

// TokenIssuer signs access tokens for a user id.
type TokenIssuer interface {
	Generate(userID uint) (string, time.Time, error)
}

// PermissionLister lists the permission codes a user holds.
type PermissionLister interface {
	Codes(ctx context.Context, userID uint) ([]string, error)
}

// authService implements Service.
type authService struct {
	tokens TokenIssuer
	users  Users
	perms  PermissionLister
}

// NewService creates a new auth Service. perms may be nil when permission
// checks are disabled.
func NewService(tokens TokenIssuer, users Users, perms PermissionLister) Service {
	return &authService{tokens: tokens, users: users, perms: perms}
}

// Login authenticates a user by email and password and returns a JWT token.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// Unknown, inactive and wrong-password logins are indistinguishable.
	if u == nil || !u.IsActive || u.PasswordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, expiresAt, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to generate token", err)
	}
	return &TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

// Register creates a new active user. Self-registered users have no creator.
func (s *authService) Register(ctx context.Context, in RegisterRequest) (*user.UserResponse, error) {
	created, err := s.users.Create(ctx, user.CreateUserRequest{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	}, 0)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Me returns the caller's profile and permission codes.
func (s *authService) Me(ctx context.Context, userID uint) (*MeResponse, error) {
	if userID == 0 {
		return nil, domain.ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	resp := &MeResponse{User: u, Permissions: []string{}}
	if s.perms != nil {
		codes, err := s.perms.Codes(ctx, userID)
		if err != nil {
			return nil, domain.NewAppError(domain.CodeInternal, "failed to load permissions", err)
		}
		if codes != nil {
			resp.Permissions = codes
		}
	}
	return resp, nil
}
