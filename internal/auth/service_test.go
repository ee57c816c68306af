package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgAuth "github.com/alluringfresh/alluring-backend/pkg/auth"
	"github.com/alluringfresh/alluring-backend/pkg/config"
	"github.com/alluringfresh/alluring-backend/pkg/db/models"
	"github.com/alluringfresh/alluring-backend/pkg/enums"
	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
	"github.com/alluringfresh/alluring-backend/pkg/security"
)

type stubUserRepo struct {
	users      map[string]*models.User
	lastLogins []uuid.UUID
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.users[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, _ time.Time) error {
	s.lastLogins = append(s.lastLogins, id)
	return nil
}

type stubSessionManager struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, _ string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	newID := "rotated-" + oldAccessID
	return newID, "refresh-" + newID, nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "alluring-test",
		ExpirationMinutes: 15,
	}
}

func seedUser(t *testing.T, email, password string, role enums.Role) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
}

func newAuthService(t *testing.T, repo *stubUserRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	require.NoError(t, err)
	return svc
}

func TestLoginIssuesTokenPair(t *testing.T) {
	user := seedUser(t, "ana@example.com", "correct horse", enums.RoleCustomer)
	repo := &stubUserRepo{users: map[string]*models.User{user.Email: user}}
	sessions := &stubSessionManager{}
	svc := newAuthService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Ana@Example.com ", Password: "correct horse"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.True(t, strings.HasPrefix(resp.RefreshToken, "refresh-"))
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, []uuid.UUID{user.ID}, repo.lastLogins)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.RoleCustomer, claims.Role)
	require.Len(t, sessions.generated, 1)
	assert.Equal(t, sessions.generated[0], claims.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	user := seedUser(t, "ana@example.com", "correct horse", enums.RoleCustomer)
	repo := &stubUserRepo{users: map[string]*models.User{user.Email: user}}
	svc := newAuthService(t, repo, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "wrong"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Equal(t, invalidCredentialsMessage, typed.Message())
}

func TestLoginUnknownEmailMatchesWrongPasswordError(t *testing.T) {
	svc := newAuthService(t, &stubUserRepo{users: map[string]*models.User{}}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, invalidCredentialsMessage, pkgerrors.As(err).Message())
}

func TestLoginInactiveUser(t *testing.T) {
	user := seedUser(t, "ana@example.com", "correct horse", enums.RoleCustomer)
	user.IsActive = false
	repo := &stubUserRepo{users: map[string]*models.User{user.Email: user}}
	svc := newAuthService(t, repo, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "correct horse"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestAdminLoginRejectsCustomers(t *testing.T) {
	user := seedUser(t, "ana@example.com", "correct horse", enums.RoleCustomer)
	repo := &stubUserRepo{users: map[string]*models.User{user.Email: user}}
	svc := newAuthService(t, repo, &stubSessionManager{})

	_, err := svc.AdminLogin(context.Background(), LoginRequest{Email: "ana@example.com", Password: "correct horse"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestAdminLoginAllowsAdmins(t *testing.T) {
	user := seedUser(t, "ops@example.com", "correct horse", enums.RoleAdmin)
	repo := &stubUserRepo{users: map[string]*models.User{user.Email: user}}
	svc := newAuthService(t, repo, &stubSessionManager{})

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{Email: "ops@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, enums.RoleAdmin, resp.User.Role)
}

func TestRefreshRotatesSession(t *testing.T) {
	user := seedUser(t, "ana@example.com", "correct horse", enums.RoleCustomer)
	repo := &stubUserRepo{users: map[string]*models.User{user.Email: user}}
	sessions := &stubSessionManager{}
	svc := newAuthService(t, repo, sessions)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "correct horse"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), refreshed.AccessToken)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(claims.ID, "rotated-"))
	assert.Equal(t, "refresh-"+claims.ID, refreshed.RefreshToken)
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	user := seedUser(t, "ana@example.com", "correct horse", enums.RoleCustomer)
	repo := &stubUserRepo{users: map[string]*models.User{user.Email: user}}
	svc := newAuthService(t, repo, &stubSessionManager{})

	login, err := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "correct horse"})
	require.NoError(t, err)

	user.IsActive = false

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Equal(t, invalidCredentialsMessage, typed.Message())
}

func TestRefreshReflectsRoleChange(t *testing.T) {
	user := seedUser(t, "ana@example.com", "correct horse", enums.RoleCustomer)
	repo := &stubUserRepo{users: map[string]*models.User{user.Email: user}}
	svc := newAuthService(t, repo, &stubSessionManager{})

	login, err := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "correct horse"})
	require.NoError(t, err)

	user.Role = enums.RoleAdmin

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleAdmin, claims.Role)
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessionManager{}
	svc := newAuthService(t, &stubUserRepo{}, sessions)

	require.NoError(t, svc.Logout(context.Background(), "session-123"))
	assert.Equal(t, []string{"session-123"}, sessions.revoked)

	err := svc.Logout(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}
