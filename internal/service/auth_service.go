package service

import (
	"context"
	"fmt"
	"time"

	"legal-copilot-be/internal/dto"
	"legal-copilot-be/internal/entity"
	"legal-copilot-be/internal/repository/specification"
	"legal-copilot-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, request *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	jwtSecret  string
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, jwtSecret string) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		jwtSecret:  jwtSecret,
	}
}

func (s *authService) Register(ctx context.Context, request *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: request.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := request.Role
	if role == "" {
		role = "officer"
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        request.Email,
		PasswordHash: string(hash),
		FullName:     request.FullName,
		Role:         role,
		BadgeNumber:  request.BadgeNumber,
		DepartmentId: request.DepartmentId,
		CreatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		Id:    user.Id,
		Email: user.Email,
	}, nil
}

func (s *authService) Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: request.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	res := &dto.LoginResponse{Token: signed}
	res.User.Id = user.Id
	res.User.Email = user.Email
	res.User.FullName = user.FullName
	res.User.Role = user.Role
	return res, nil
}
