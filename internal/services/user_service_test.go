package services

import (
	"context"
	"testing"
	"time"

	"github.com/openfleet/shipping-gateway/internal/auth"
	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTokenManager() *auth.Manager {
	return auth.NewManager("test-secret", time.Hour)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		queue := new(MockNotificationQueue)
		service := NewUserService(userRepo, newTokenManager(), queue)

		userRepo.On("FindByEmail", ctx, "ana@example.com").
			Return(nil, repository.ErrUserNotFound)
		userRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).
			Return(&model.User{
				ID:       1,
				Name:     "Ana",
				Email:    "ana@example.com",
				Password: "$2a$10$hash",
				Role:     model.RoleUser,
			}, nil)
		queue.On("PublishJSON", ctx, mock.Anything, mock.Anything).
			Return("1-0", nil)

		result, err := service.Register(ctx, model.UserCreateRequest{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, model.RoleUser, result.User.Role)
		assert.Empty(t, result.User.Password)

		userRepo.AssertExpectations(t)
		queue.AssertExpectations(t)
	})

	t.Run("hashes the password before storing", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewUserService(userRepo, newTokenManager(), nil)

		userRepo.On("FindByEmail", ctx, "bo@example.com").
			Return(nil, repository.ErrUserNotFound)
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Password != "s3cret-pass" &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("s3cret-pass")) == nil
		})).Return(&model.User{ID: 2, Email: "bo@example.com", Role: model.RoleUser}, nil)

		_, err := service.Register(ctx, model.UserCreateRequest{
			Name:     "Bo",
			Email:    "bo@example.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)

		userRepo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewUserService(userRepo, newTokenManager(), nil)

		userRepo.On("FindByEmail", ctx, "ana@example.com").
			Return(&model.User{ID: 1, Email: "ana@example.com"}, nil)

		result, err := service.Register(ctx, model.UserCreateRequest{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: "s3cret-pass",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.Nil(t, result)
	})

	t.Run("short password rejected", func(t *testing.T) {
		service := NewUserService(new(MockUserRepository), newTokenManager(), nil)

		result, err := service.Register(ctx, model.UserCreateRequest{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: "short",
		})
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("successful login", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewUserService(userRepo, newTokenManager(), nil)

		userRepo.On("FindByEmail", ctx, "ana@example.com").
			Return(&model.User{
				ID:       1,
				Email:    "ana@example.com",
				Password: string(hash),
				Role:     model.RoleAdmin,
			}, nil)

		result, err := service.Login(ctx, model.LoginRequest{
			Email:    "ana@example.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Empty(t, result.User.Password)

		claims, err := newTokenManager().Parse(result.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.UserID)
		assert.Equal(t, model.RoleAdmin, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewUserService(userRepo, newTokenManager(), nil)

		userRepo.On("FindByEmail", ctx, "ana@example.com").
			Return(&model.User{ID: 1, Email: "ana@example.com", Password: string(hash)}, nil)

		result, err := service.Login(ctx, model.LoginRequest{
			Email:    "ana@example.com",
			Password: "wrong-pass",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, result)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewUserService(userRepo, newTokenManager(), nil)

		userRepo.On("FindByEmail", ctx, "ghost@example.com").
			Return(nil, repository.ErrUserNotFound)

		result, err := service.Login(ctx, model.LoginRequest{
			Email:    "ghost@example.com",
			Password: "s3cret-pass",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, result)
	})
}

func TestUserService_Find(t *testing.T) {
	ctx := context.Background()

	t.Run("scrubs password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewUserService(userRepo, newTokenManager(), nil)

		userRepo.On("FindByID", ctx, int64(1)).
			Return(&model.User{ID: 1, Email: "ana@example.com", Password: "hash"}, nil)

		user, err := service.Find(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, user.Password)
	})

	t.Run("not found", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewUserService(userRepo, newTokenManager(), nil)

		userRepo.On("FindByID", ctx, int64(404)).
			Return(nil, repository.ErrUserNotFound)

		user, err := service.Find(ctx, 404)
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, user)
	})
}
