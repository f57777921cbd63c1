package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openfleet/shipping-gateway/internal/auth"
	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/internal/repository"
	"github.com/openfleet/shipping-gateway/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// NotificationQueue is the async email job sink. Satisfied by queue.Queue.
type NotificationQueue interface {
	PublishJSON(ctx context.Context, data interface{}, metadata map[string]string) (string, error)
}

type UserService struct {
	userRepo      UserRepository
	tokens        *auth.Manager
	notifications NotificationQueue
}

func NewUserService(userRepo UserRepository, tokens *auth.Manager, notifications NotificationQueue) *UserService {
	return &UserService{
		userRepo:      userRepo,
		tokens:        tokens,
		notifications: notifications,
	}
}

// Register creates the account and logs the caller in immediately.
func (s *UserService) Register(ctx context.Context, p model.UserCreateRequest) (*model.TokenResponse, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	_, err := s.userRepo.FindByEmail(ctx, p.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := p.Role
	if role == "" {
		role = model.RoleUser
	}

	created, err := s.userRepo.Create(ctx, &model.User{
		Name:     p.Name,
		Email:    p.Email,
		Password: string(hash),
		Role:     role,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.enqueueEmail(ctx, &model.EmailJob{
		Kind: model.EmailWelcome,
		To:   created.Email,
		Name: created.Name,
	})

	token, err := s.tokens.Issue(created)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	created.Password = ""
	return &model.TokenResponse{Token: token, User: created}, nil
}

func (s *UserService) Login(ctx context.Context, p model.LoginRequest) (*model.TokenResponse, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(p.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	user.Password = ""
	return &model.TokenResponse{Token: token, User: user}, nil
}

func (s *UserService) Find(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) enqueueEmail(ctx context.Context, job *model.EmailJob) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.PublishJSON(ctx, job, nil); err != nil {
		logger.Warn("failed to enqueue email", "kind", string(job.Kind), "to", job.To, "error", err.Error())
	}
}
