package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gigmarket-backend/internal/domains/user/model"
	"gigmarket-backend/internal/domains/user/repository"
	"gigmarket-backend/internal/shared"
	"gigmarket-backend/pkg/jwt"
	"gigmarket-backend/pkg/logger"
)

// =====================================================
// USER SERVICE
// =====================================================

type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	Refresh(ctx context.Context, req *model.RefreshRequest) (*model.AuthResponse, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
	UpdateProfile(ctx context.Context, actor shared.Actor, req *model.UpdateProfileRequest) (*model.UserResponse, error)
	GetSellerProfile(ctx context.Context, sellerID uuid.UUID) (*model.SellerProfileResponse, error)
}

type userService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
	now        func() time.Time
}

func NewUserService(userRepo repository.UserRepository, jwtManager *jwt.Manager) UserService {
	return &userService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		now:        time.Now,
	}
}

// =====================================================
// AUTH
// =====================================================

func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidUser, err.Error(), err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Username:     req.Username,
		FullName:     req.FullName,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("user registered", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})

	return s.issueTokens(user)
}

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidUser, err.Error(), err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *userService) Refresh(ctx context.Context, req *model.RefreshRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidUser, err.Error(), err)
	}

	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *userService) issueTokens(user *model.User) (*model.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	}, nil
}

// =====================================================
// PROFILES
// =====================================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor shared.Actor, req *model.UpdateProfileRequest) (*model.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidUser, err.Error(), err)
	}

	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Skills != nil {
		user.Skills = req.Skills
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) GetSellerProfile(ctx context.Context, sellerID uuid.UUID) (*model.SellerProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !user.IsSeller() {
		return nil, model.ErrUserNotFound
	}
	resp := user.ToSellerProfile()
	return &resp, nil
}
