package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
	"github.com/accesshub/accesshub-api/internal/pkg/sanitize"
)

// PasswordCost is the bcrypt work factor used for stored password hashes.
const PasswordCost = 10

var (
	errNoToken      = &domain.Error{Kind: domain.ErrUnauthenticated, Message: "Not authorized, no token"}
	errTokenFailed  = &domain.Error{Kind: domain.ErrUnauthenticated, Message: "Not authorized, token failed"}
	errTokenRevoked = &domain.Error{Kind: domain.ErrUnauthenticated, Message: "Not authorized, token revoked"}
	errUserGone     = &domain.Error{Kind: domain.ErrUnauthenticated, Message: "User not found"}
	errBadLogin     = &domain.Error{Kind: domain.ErrInvalidCredentials, Message: "Invalid credentials"}
)

// AuthService implements registration, login and bearer token resolution.
type AuthService struct {
	users      ports.UserRepository
	tokens     ports.TokenService
	activities ports.ActivityService
	denylist   ports.TokenDenylist
	log        zerolog.Logger
	now        func() time.Time

	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithDenylist enables token revocation: logout denylists the caller's token
// and ResolveIdentity rejects denylisted tokens.
func WithDenylist(d ports.TokenDenylist) AuthOption {
	return func(s *AuthService) { s.denylist = d }
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenService,
	activities ports.ActivityService,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		users:      users,
		tokens:     tokens,
		activities: activities,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("accesshub-dummy-password"), PasswordCost)
	return s
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	name := sanitize.Text(in.Name)
	email := sanitize.Email(in.Email)
	department := sanitize.Text(in.Department)
	if department == "" {
		department = domain.DefaultDepartment
	}

	if err := checkVar("name", name, "required,max=50"); err != nil {
		return nil, err
	}
	if err := checkVar("email", email, "required,email"); err != nil {
		return nil, err
	}
	if err := checkVar("password", in.Password, "required,min=6,max=72"); err != nil {
		return nil, err
	}
	if err := checkVar("department", department, oneOf(domain.Departments)); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Department:   department,
		Status:       domain.StatusActive,
		LastLogin:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.activities.Record(ctx, ports.RecordActivityInput{
		ActorID:     user.ID,
		Action:      domain.ActionUserCreated,
		Target:      "Account",
		Type:        domain.TypeCreate,
		Description: "New user registered",
		IPAddress:   in.IPAddress,
	}); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user registered")
	return &ports.AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, sanitize.Email(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, errBadLogin
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errBadLogin
	}

	ts := s.now().UTC()
	if ts.Before(user.LastLogin) {
		ts = user.LastLogin
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID, ts); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	user.LastLogin = ts
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*ports.AuthResult, error) {
	if sanitize.Email(email) == "" || password == "" {
		return nil, domain.Errorf(domain.ErrValidation, "Please provide email and password")
	}

	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.activities.Record(ctx, ports.RecordActivityInput{
		ActorID:     user.ID,
		Action:      domain.ActionLogin,
		Target:      "System",
		Type:        domain.TypeEvent,
		Description: "User logged in",
		IPAddress:   ip,
	}); err != nil {
		return nil, err
	}

	return &ports.AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Logout(ctx context.Context, caller *domain.Identity, ip string) error {
	if caller == nil || caller.User == nil {
		return domain.ErrUnauthenticated
	}

	if _, err := s.activities.Record(ctx, ports.RecordActivityInput{
		ActorID:     caller.ID(),
		Action:      domain.ActionLogout,
		Target:      "System",
		Type:        domain.TypeEvent,
		Description: "User logged out",
		IPAddress:   ip,
	}); err != nil {
		s.log.Warn().Err(err).Str("user_id", caller.ID()).Msg("failed to record logout activity")
	}

	if s.denylist == nil || caller.TokenID == "" {
		return nil
	}
	if err := s.denylist.Revoke(ctx, caller.TokenID, caller.ExpiresAt); err != nil {
		s.log.Warn().Err(err).Str("user_id", caller.ID()).Msg("failed to revoke token on logout")
	}
	return nil
}

func (s *AuthService) ResolveIdentity(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, errNoToken
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, errTokenFailed
	}

	if s.denylist != nil && claims.TokenID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, fmt.Errorf("resolve identity: %w", err)
		}
		if revoked {
			return nil, errTokenRevoked
		}
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errUserGone
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	return &domain.Identity{
		User:      user,
		Role:      claims.Role,
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
