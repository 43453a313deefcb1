package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/ntquang/learnhub/config"
	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/dto"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req dto.RegisterRequestDTO) (*dto.AuthResponseDTO, error)
	Login(req dto.LoginRequestDTO) (*dto.AuthResponseDTO, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	clock     Clock
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, clock Clock) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		clock:     clock,
	}
}

func (s *authService) Register(req dto.RegisterRequestDTO) (*dto.AuthResponseDTO, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(apperr.CodeEmailTaken, "email already registered")
		}
		return nil, apperr.Internal("failed to create user", err)
	}
	log.Info().Uint("userID", user.ID).Msg("User registered")

	return s.respond(user)
}

func (s *authService) Login(req dto.LoginRequestDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotAuthorized(apperr.CodeInvalidCredentials, "invalid email or password")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.NotAuthorized(apperr.CodeInvalidCredentials, "invalid email or password")
	}
	return s.respond(user)
}

func (s *authService) respond(user *model.User) (*dto.AuthResponseDTO, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"userId": user.ID,
		"name":   user.Name,
		"role":   user.Role,
		"email":  user.Email,
		"iat":    now.Unix(),
		"exp":    now.Add(24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, apperr.Internal("failed to sign token", err)
	}
	return &dto.AuthResponseDTO{
		Token: token,
		User: dto.UserDTO{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}
