package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hakwonlab/center-schedule-api/internal/models"
	appErrors "github.com/hakwonlab/center-schedule-api/pkg/errors"
)

type stubUserRepo struct {
	user *models.User
	err  error
}

func (s *stubUserRepo) FindByUsername(_ context.Context, _ string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func newAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "center-schedule-api",
	})
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &stubUserRepo{user: &models.User{
		ID:           "u1",
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}}
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), models.AdminLoginRequest{Username: "admin", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "admin", resp.User.Username)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &stubUserRepo{user: &models.User{ID: "u1", Username: "admin", PasswordHash: string(hash)}}
	svc := newAuthService(repo)

	_, err = svc.Login(context.Background(), models.AdminLoginRequest{Username: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc := newAuthService(&stubUserRepo{err: sql.ErrNoRows})

	_, err := svc.Login(context.Background(), models.AdminLoginRequest{Username: "ghost", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsTampering(t *testing.T) {
	svc := newAuthService(&stubUserRepo{})

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)

	other := NewAuthService(&stubUserRepo{}, nil, nil, AuthConfig{Secret: "different", Expiration: time.Hour})
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	repo := &stubUserRepo{user: &models.User{ID: "u1", Username: "admin", PasswordHash: string(hash)}}
	resp, err := newAuthService(repo).Login(context.Background(), models.AdminLoginRequest{Username: "admin", Password: "pw"})
	require.NoError(t, err)

	_, err = other.ValidateToken(resp.AccessToken)
	assert.Error(t, err)
}
