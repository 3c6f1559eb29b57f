package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitabuhq/vitabu-backend/internal/apperrors"
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
	"github.com/vitabuhq/vitabu-backend/internal/middleware"
	"github.com/vitabuhq/vitabu-backend/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// authService authenticates operator accounts and issues bearer tokens.
type authService struct {
	userRepo    portsrepo.UserRepositoryFacade
	jwtSecret   string
	jwtDuration time.Duration
	issuer      string
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, jwtSecret string, jwtDuration time.Duration, issuer string) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		jwtDuration: jwtDuration,
		issuer:      issuer,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, passwordHash, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, passwordHash) {
		logger.Warn("Login failed", "username", req.Username)
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.UserID, s.jwtSecret, s.jwtDuration, s.issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info("User logged in", "userID", user.UserID)
	return &dto.LoginResponse{Token: token, UserID: user.UserID}, nil
}

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:   uuid.NewString(),
		Username: req.Username,
		Name:     req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user, passwordHash); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("username %s already taken: %w", req.Username, apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save user", "error", err, "username", req.Username)
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User created", "userID", user.UserID, "username", user.Username)
	return &user, nil
}
