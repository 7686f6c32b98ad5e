package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/common/models"
	"github.com/syffus01/BioGED/internal/features/audit"
	"github.com/syffus01/BioGED/internal/features/user"
	"github.com/syffus01/BioGED/pkg/utils"

	"github.com/google/uuid"
)

type AuthService interface {
	Register(ctx context.Context, email, password, fullName, role, department string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewAuthService(userRepo user.UserRepository, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, email, password, fullName, role, department string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", role, apperr.ErrBadRequest)
	}

	// Exact, case-sensitive match on email
	count, err := s.UserRepo.CountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("email already registered: %w", apperr.ErrConflict)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	newUser := &models.User{
		UserID:     uuid.NewString(),
		Email:      email,
		Password:   hashed,
		FullName:   fullName,
		Role:       models.Role(role),
		Department: department,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}

	if err := s.UserRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	// The new user is the actor of their own creation
	s.AuditService.Record(ctx, newUser, models.AuditActionUserRegistered, models.ResourceUser, newUser.UserID, nil)

	return newUser, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	usr, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	if !utils.CheckPassword(password, usr.Password) {
		return "", nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	if !usr.IsActive {
		return "", nil, fmt.Errorf("account deactivated: %w", apperr.ErrUnauthorized)
	}

	token, err := utils.GenerateToken(usr.UserID, usr.Email, string(usr.Role))
	if err != nil {
		return "", nil, err
	}

	s.AuditService.Record(ctx, usr, models.AuditActionUserLogin, models.ResourceUser, usr.UserID, nil)

	return token, usr, nil
}
