package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Galih-Arno/aplikasi-kasir/internal/config"
	"github.com/Galih-Arno/aplikasi-kasir/internal/dto"
	"github.com/Galih-Arno/aplikasi-kasir/internal/model"
	"github.com/Galih-Arno/aplikasi-kasir/internal/repository"
	"github.com/Galih-Arno/aplikasi-kasir/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	byUsername map[string]*model.User
	byID       map[uuid.UUID]*model.User
	created    []*model.User
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byUsername: map[string]*model.User{},
		byID:       map[uuid.UUID]*model.User{},
	}
}

func (s *stubUserRepo) add(u *model.User) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.byUsername[u.Username] = u
	s.byID[u.ID] = u
}

func (s *stubUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	s.add(u)
	s.created = append(s.created, u)
	return nil
}

func (s *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := s.byUsername[username]
	if !ok || !u.Active {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (s *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range s.byID {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserRepo) Update(_ context.Context, u *model.User) error {
	s.add(u)
	return nil
}

func (s *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := s.byID[id]
	if !ok {
		return errors.New("record not found")
	}
	u.Active = false
	return nil
}

func (s *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	u, ok := s.byID[id]
	if !ok {
		return errors.New("record not found")
	}
	u.Active = true
	return nil
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_Success(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&model.User{
		Username:     "ana",
		PasswordHash: hashFor(t, "secret123"),
		Role:         "cashier",
		Active:       true,
	})
	svc := service.NewAuthService(repo, authTestConfig())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "ana", resp.User.Username)
	assert.Equal(t, "cashier", resp.User.Role)
}

func TestLogin_TokenCarriesIdentityClaims(t *testing.T) {
	repo := newStubUserRepo()
	user := &model.User{
		Username:     "ana",
		PasswordHash: hashFor(t, "secret123"),
		Role:         "admin",
		Active:       true,
	}
	repo.add(user)
	cfg := authTestConfig()
	svc := service.NewAuthService(repo, cfg)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "secret123"})
	require.NoError(t, err)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, "ana", claims["username"])
	assert.Equal(t, "admin", claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&model.User{
		Username:     "ana",
		PasswordHash: hashFor(t, "secret123"),
		Role:         "cashier",
		Active:       true,
	})
	svc := service.NewAuthService(repo, authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "nope"})
	assert.EqualError(t, err, "invalid username or password")
}

func TestLogin_UnknownOrInactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&model.User{
		Username:     "gone",
		PasswordHash: hashFor(t, "secret123"),
		Role:         "cashier",
		Active:       false,
	})
	svc := service.NewAuthService(repo, authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "x"})
	assert.EqualError(t, err, "invalid username or password")

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "gone", Password: "secret123"})
	assert.EqualError(t, err, "invalid username or password")
}

func TestRefresh_IssuesNewTokenPair(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&model.User{
		Username:     "ana",
		PasswordHash: hashFor(t, "secret123"),
		Role:         "cashier",
		Active:       true,
	})
	svc := service.NewAuthService(repo, authTestConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "ana", refreshed.User.Username)
}

func TestRefresh_RejectsGarbageToken(t *testing.T) {
	svc := service.NewAuthService(newStubUserRepo(), authTestConfig())
	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.EqualError(t, err, "refresh token invalid or expired")
}

func TestRefresh_RejectsDeactivatedUser(t *testing.T) {
	repo := newStubUserRepo()
	user := &model.User{
		Username:     "ana",
		PasswordHash: hashFor(t, "secret123"),
		Role:         "cashier",
		Active:       true,
	}
	repo.add(user)
	svc := service.NewAuthService(repo, authTestConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "secret123"})
	require.NoError(t, err)

	// Deactivation between login and refresh must invalidate the session
	require.NoError(t, svc.DeactivateUser(context.Background(), user.ID))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.EqualError(t, err, "user not found or inactive")
}

func TestVerifyCredentials(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&model.User{
		Username:     "ana",
		PasswordHash: hashFor(t, "secret123"),
		Role:         "cashier",
		Active:       true,
	})
	svc := service.NewAuthService(repo, authTestConfig())

	assert.True(t, svc.VerifyCredentials(context.Background(), "ana", "secret123"))
	assert.False(t, svc.VerifyCredentials(context.Background(), "ana", "wrong"))
	assert.False(t, svc.VerifyCredentials(context.Background(), "nobody", "secret123"))
}

func TestCreateUser_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, authTestConfig())

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "newbie",
		Password: "longenough",
		Role:     "cashier",
	})
	require.NoError(t, err)
	assert.Equal(t, "newbie", resp.Username)
	assert.True(t, resp.Active)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.NotEqual(t, "longenough", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
}

func TestUpdateUser_RoleAndPassword(t *testing.T) {
	repo := newStubUserRepo()
	user := &model.User{
		Username:     "ana",
		PasswordHash: hashFor(t, "oldpassword"),
		Role:         "cashier",
		Active:       true,
	}
	repo.add(user)
	svc := service.NewAuthService(repo, authTestConfig())

	resp, err := svc.UpdateUser(context.Background(), user.ID, dto.UpdateUserRequest{
		Role:     "admin",
		Password: "newpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
	assert.True(t, svc.VerifyCredentials(context.Background(), "ana", "newpassword"))
	assert.False(t, svc.VerifyCredentials(context.Background(), "ana", "oldpassword"))
}

func TestDeactivateReactivateUser(t *testing.T) {
	repo := newStubUserRepo()
	user := &model.User{
		Username:     "ana",
		PasswordHash: hashFor(t, "secret123"),
		Role:         "cashier",
		Active:       true,
	}
	repo.add(user)
	svc := service.NewAuthService(repo, authTestConfig())
	ctx := context.Background()

	require.NoError(t, svc.DeactivateUser(ctx, user.ID))
	assert.False(t, svc.VerifyCredentials(ctx, "ana", "secret123"))

	require.NoError(t, svc.ReactivateUser(ctx, user.ID))
	assert.True(t, svc.VerifyCredentials(ctx, "ana", "secret123"))
}
