package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reelchat-service/internal/models"
	"reelchat-service/internal/repositories/postgres"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Custom errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRequest     = errors.New("invalid request")
)

type UserService struct {
	repo      *postgres.UserRepository
	jwtSecret string
	jwtExpire time.Duration
}

func NewUserService(repo *postgres.UserRepository, jwtSecret string, jwtExpire time.Duration) *UserService {
	return &UserService{
		repo:      repo,
		jwtSecret: jwtSecret,
		jwtExpire: jwtExpire,
	}
}

// generateJWT creates a new JWT token for the user
func (s *UserService) generateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
		"exp":      time.Now().Add(s.jwtExpire).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *UserService) Register(req *models.RegisterRequest) (*models.UserResponse, error) {
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return nil, ErrInvalidRequest
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	if err := s.repo.Create(&user); err != nil {
		slog.Warn("Registration failed", "email", req.Email, "error", err)
		return nil, ErrUserAlreadyExists
	}

	slog.Info("User registered", "userID", user.ID, "username", user.Username)

	return &models.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *UserService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.repo.FindByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.LoginResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

func (s *UserService) GetProfile(userID uint) (*models.UserResponse, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *UserService) UpdateProfile(userID uint, req *models.UpdateUserRequest) (*models.UserResponse, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}
	if req.ProfileImage != nil {
		user.ProfileImage = *req.ProfileImage
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.IsPrivate != nil {
		user.IsPrivate = *req.IsPrivate
	}

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// FindByIdentity resolves the profile fields cached by the presence registry.
// The realtime hub calls this during registration.
func (s *UserService) FindByIdentity(username string) (*models.ProfileFields, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return &models.ProfileFields{
		ProfileImage: user.ProfileImage,
		Bio:          user.Bio,
	}, nil
}

func (s *UserService) SearchUsersByUsername(query string, limit int) ([]models.UserResponse, error) {
	users, err := s.repo.SearchByUsername(query, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	return responses, nil
}

func toUserResponse(user *models.User) models.UserResponse {
	return models.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		CreatedAt:    user.CreatedAt,
		ProfileImage: user.ProfileImage,
		Bio:          user.Bio,
		IsPrivate:    user.IsPrivate,
	}
}
