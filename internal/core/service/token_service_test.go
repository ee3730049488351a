package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", "accesshub")
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := NewTokenService("", "accesshub")
	assert.Error(t, err)
}

func TestTokenService_IssueVerify(t *testing.T) {
	svc := newTestTokenService(t)
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue("user-1", domain.RoleManager)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleManager, claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.Equal(issuedAt.Add(TokenLifetime)))
}

func TestTokenService_IssueIsNotDeterministic(t *testing.T) {
	svc := newTestTokenService(t)
	fixed := time.Now()
	svc.now = func() time.Time { return fixed }

	a, err := svc.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)
	b, err := svc.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTokenService_Verify_Expired(t *testing.T) {
	svc := newTestTokenService(t)
	start := time.Now()
	svc.now = func() time.Time { return start }

	token, err := svc.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(TokenLifetime - time.Minute) }
	_, err = svc.Verify(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(TokenLifetime + time.Minute) }
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	svc := newTestTokenService(t)
	other, err := NewTokenService("another-secret", "accesshub")
	require.NoError(t, err)

	token, err := other.Issue("user-1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	svc := newTestTokenService(t)
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "token %q", token)
	}
}

func TestTokenService_Verify_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestTokenService(t)
	claims := jwt.MapClaims{
		"id":   "user-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_Verify_MissingSubject(t *testing.T) {
	svc := newTestTokenService(t)
	claims := jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
