package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"caretrek-backend/internal/auth"
	"caretrek-backend/internal/models"
	"caretrek-backend/pkg/errors"
	"caretrek-backend/pkg/logger"
)

// AuthService handles registration and login. Passwords are stored as
// bcrypt hashes; sessions are stateless JWTs.
type AuthService struct {
	Users UserStore
	JWT   *auth.JWTManager
}

func NewAuthService(users UserStore, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{Users: users, JWT: jwtManager}
}

func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, errors.New(errors.ErrCodeValidation, "a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, errors.New(errors.ErrCodeValidation, "password must be at least 8 characters")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, errors.New(errors.ErrCodeValidation, "full name is required")
	}
	if req.Role == "" {
		req.Role = models.RoleSenior
	}
	if !models.ValidRole(req.Role) {
		return nil, errors.New(errors.ErrCodeValidation, "role must be senior, family or admin")
	}

	existing, err := s.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to check existing account")
	}
	if existing != nil {
		return nil, errors.New(errors.ErrCodeConflict, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
	}

	user := &models.User{
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		PasswordHash: string(hash),
	}

	if err := s.Users.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to create account")
	}

	logger.Info("account registered", "user_id", user.ID, "role", user.Role)

	return s.respond(user)
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, errors.New(errors.ErrCodeValidation, "email and password are required")
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to look up account")
	}
	if user == nil {
		return nil, errors.New(errors.ErrCodeUnauthorized, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New(errors.ErrCodeUnauthorized, "invalid email or password")
	}

	return s.respond(user)
}

// Me returns the profile for the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to load profile")
	}
	if user == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "account not found")
	}
	return user, nil
}

// SearchUsers finds accounts by name or email for the connect screen.
func (s *AuthService) SearchUsers(ctx context.Context, q string) ([]*models.User, error) {
	q = strings.TrimSpace(q)
	if len(q) < 2 {
		return nil, errors.New(errors.ErrCodeValidation, "search query must be at least 2 characters")
	}

	users, err := s.Users.Search(ctx, q, 20)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "search failed")
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

func (s *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.JWT.GenerateToken(user)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue token")
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
