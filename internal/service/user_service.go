package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"userapi/internal/cache"
	apperrors "userapi/internal/errors"
	"userapi/internal/model"
	"userapi/internal/repository"
)

// UserService exposes the user operations served over HTTP.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	CreateUser(ctx context.Context, in model.CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, in model.UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

// userCache is the slice of *cache.Client the service relies on.
type userCache interface {
	GetJSON(ctx context.Context, key string, dst any) bool
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

var _ userCache = (*cache.Client)(nil)

type userService struct {
	repo  repository.UserRepository
	cache userCache
	ttl   time.Duration
	log   *zap.Logger
}

// NewUserService builds a UserService. cacheClient may be nil.
func NewUserService(repo repository.UserRepository, cacheClient *cache.Client, ttl time.Duration, log *zap.Logger) UserService {
	return newUserService(repo, cacheClient, ttl, log)
}

func newUserService(repo repository.UserRepository, c userCache, ttl time.Duration, log *zap.Logger) *userService {
	if log == nil {
		log = zap.NewNop()
	}
	return &userService{repo: repo, cache: c, ttl: ttl, log: log.Named("users")}
}

// cachedUser holds only the publicly visible fields; hashes never reach Redis.
type cachedUser struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.All(ctx)
	if err != nil {
		s.log.Error("list users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var cached cachedUser
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &model.User{ID: cached.ID, Name: cached.Name, Nickname: cached.Nickname, Email: cached.Email}, nil
	}

	user, err := s.repo.Find(ctx, id)
	if err != nil {
		s.logFailure("find user", id, err)
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), cachedUser{
		ID:       user.ID,
		Name:     user.Name,
		Nickname: user.Nickname,
		Email:    user.Email,
	}, s.ttl)
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, in model.CreateUserInput) (*model.User, error) {
	user, err := s.repo.Create(ctx, in)
	if err != nil {
		s.logFailure("create user", 0, err)
		return nil, err
	}
	s.log.Info("user created", zap.Uint("user_id", user.ID))
	return user, nil
}

// UpdateUser and DeleteUser drop the cached entry on both sides of the write,
// so a read that began before the write can only leave a stale entry if its
// SetJSON lands after the second delete.
func (s *userService) UpdateUser(ctx context.Context, id uint, in model.UpdateUserInput) (*model.User, error) {
	s.cache.Delete(ctx, s.cacheKey(id))
	user, err := s.repo.Update(ctx, id, in)
	if err != nil {
		s.logFailure("update user", id, err)
		return nil, err
	}
	s.cache.Delete(ctx, s.cacheKey(id))
	s.log.Info("user updated", zap.Uint("user_id", id))
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	s.cache.Delete(ctx, s.cacheKey(id))
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logFailure("delete user", id, err)
		return err
	}
	s.cache.Delete(ctx, s.cacheKey(id))
	s.log.Info("user deleted", zap.Uint("user_id", id))
	return nil
}

// logFailure keeps expected outcomes (rule violations, missing rows) out of
// the error log.
func (s *userService) logFailure(op string, id uint, err error) {
	if _, ok := apperrors.AsValidation(err); ok {
		s.log.Debug(op+" rejected", zap.Uint("user_id", id), zap.Error(err))
		return
	}
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return
	}
	s.log.Error(op, zap.Uint("user_id", id), zap.Error(err))
}
