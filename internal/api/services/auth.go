package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"avatarshop/internal/domain"
	"avatarshop/internal/redis"
	"avatarshop/internal/repository"
	"avatarshop/internal/util"
)

const tokenTTL = time.Hour

type RegisterInput struct {
	Username string `valid:"required,length(3|32)"`
	Password string `valid:"required,length(6|72)"`
	Gender   string `valid:"length(0|16)"`
}

type LoginInput struct {
	Username string `valid:"required"`
	Password string `valid:"required"`
}

type AuthService struct {
	userRepo     *repository.UserRepository
	balanceCache redis.Cache[domain.Wallet]
	jwtKey       string
}

func NewAuthService(userRepo *repository.UserRepository, balanceCache redis.Cache[domain.Wallet], jwtKey string) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		balanceCache: balanceCache,
		jwtKey:       jwtKey,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if _, err := govalidator.ValidateStruct(input); err != nil {
		return nil, ErrInvalidInput
	}

	hashed, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username: input.Username,
		Password: hashed,
		Gender:   input.Gender,
		Gold:     domain.StartingGold,
		Tickets:  domain.StartingTickets,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	zap.L().Info("user registered", zap.Stringer("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	if _, err := govalidator.ValidateStruct(input); err != nil {
		return nil, "", ErrInvalidInput
	}

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := util.CheckPassword(user.Password, input.Password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateJWTToken(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

// Balance returns the wallet of username, served from cache when fresh.
func (s *AuthService) Balance(ctx context.Context, username string) (*domain.Wallet, error) {
	if s.balanceCache != nil {
		cached, err := s.balanceCache.Get(ctx, username)
		if err != nil {
			zap.L().Warn("read balance cache", zap.String("username", username), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	wallet := user.Wallet()
	if s.balanceCache != nil {
		if err := s.balanceCache.Set(ctx, username, &wallet); err != nil {
			zap.L().Warn("write balance cache", zap.String("username", username), zap.Error(err))
		}
	}
	return &wallet, nil
}

func (s *AuthService) generateJWTToken(id uuid.UUID, username string) (string, error) {
	claims := jwt.MapClaims{
		"id":       id.String(),
		"username": username,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtKey))
}
