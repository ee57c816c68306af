package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alluringfresh/alluring-backend/internal/profiles"
	"github.com/alluringfresh/alluring-backend/internal/users"
	"github.com/alluringfresh/alluring-backend/pkg/config"
	"github.com/alluringfresh/alluring-backend/pkg/db/models"
	"github.com/alluringfresh/alluring-backend/pkg/enums"
	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
	"github.com/alluringfresh/alluring-backend/pkg/security"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRegisterUserRepo struct {
	data    map[string]*models.User
	created *models.User
}

func (s *stubRegisterUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRegisterUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.data[dto.Email] = user
	s.created = user
	return user, nil
}

type stubRegisterProfileRepo struct {
	profiles map[uuid.UUID]*models.Profile
	updates  []profiles.UpdateProfileDTO
}

func (s *stubRegisterProfileRepo) Ensure(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	if profile, ok := s.profiles[userID]; ok {
		return profile, nil
	}
	profile := &models.Profile{ID: uuid.New(), UserID: userID}
	s.profiles[userID] = profile
	return profile, nil
}

func (s *stubRegisterProfileRepo) Update(_ context.Context, userID uuid.UUID, dto profiles.UpdateProfileDTO) (*models.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if dto.FullName != nil {
		profile.FullName = *dto.FullName
	}
	if dto.Phone != nil {
		profile.Phone = dto.Phone
	}
	s.updates = append(s.updates, dto)
	return profile, nil
}

type registerTestSetup struct {
	service     RegisterService
	userRepo    *stubRegisterUserRepo
	profileRepo *stubRegisterProfileRepo
}

func newRegisterTestSetup(t *testing.T) *registerTestSetup {
	t.Helper()
	userRepo := &stubRegisterUserRepo{data: map[string]*models.User{}}
	profileRepo := &stubRegisterProfileRepo{profiles: map[uuid.UUID]*models.Profile{}}
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return userRepo
		},
		ProfileRepoFactory: func(tx *gorm.DB) registerProfileRepository {
			return profileRepo
		},
		PasswordConfig: config.PasswordConfig{},
	})
	require.NoError(t, err)
	return &registerTestSetup{
		service:     svc,
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func TestRegisterCreatesCustomerWithProfile(t *testing.T) {
	setup := newRegisterTestSetup(t)

	err := setup.service.Register(context.Background(), RegisterRequest{
		FullName: "  Ana Flores  ",
		Email:    "Ana@Example.com",
		Password: "Secret123!",
	})
	require.NoError(t, err)

	user := setup.userRepo.created
	require.NotNil(t, user)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, enums.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Secret123!", user.PasswordHash)

	valid, err := security.VerifyPassword("Secret123!", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, valid)

	profile := setup.profileRepo.profiles[user.ID]
	require.NotNil(t, profile)
	assert.Equal(t, "Ana Flores", profile.FullName)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)
	setup.userRepo.data["taken@example.com"] = &models.User{ID: uuid.New(), Email: "taken@example.com"}

	err := setup.service.Register(context.Background(), RegisterRequest{
		FullName: "Ana Flores",
		Email:    "taken@example.com",
		Password: "Secret123!",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.Nil(t, setup.userRepo.created)
}

func TestRegisterValidatesRequiredFields(t *testing.T) {
	setup := newRegisterTestSetup(t)
	ctx := context.Background()

	err := setup.service.Register(ctx, RegisterRequest{FullName: "Ana", Email: "   ", Password: "Secret123!"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	err = setup.service.Register(ctx, RegisterRequest{FullName: "  ", Email: "ana@example.com", Password: "Secret123!"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
