package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/utils"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
}

type ProfileInput struct {
	Name            *string
	Phone           *string
	CurrentPassword string
	NewPassword     string
}

type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	Users     repository.UserRepository
	Tokens    *utils.TokenManager
	Blocklist utils.TokenBlocklist
	// HashCost is the bcrypt cost used for new password hashes.
	HashCost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(users repository.UserRepository, tokens *utils.TokenManager, blocklist utils.TokenBlocklist) *AuthService {
	return &AuthService{
		Users:     users,
		Tokens:    tokens,
		Blocklist: blocklist,
		HashCost:  bcrypt.DefaultCost,
	}
}

// NormalizeEmail trims and lowercases an address before any lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return "", utils.ErrInternal("failed to hash password", err)
	}
	return string(hashed), nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, utils.ErrValidation("name, email and password are required")
	}

	_, err := s.Users.FindByEmail(ctx, email)
	if err == nil {
		return nil, utils.ErrValidation("email %s is already registered", email)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, utils.ErrInternal("failed to check email", err)
	}

	hashed, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     models.RoleCustomer,
		Phone:    trimmedOrNil(in.Phone),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ErrValidation("email %s is already registered", email)
		}
		return nil, utils.ErrInternal("failed to create user", err)
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	return s.issue(user)
}

// Login answers the same way for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.Users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrInternal("failed to load user", err)
		}
		// keep the timing close to a real comparison
		_ = bcrypt.CompareHashAndPassword(s.fakeHash(), []byte(password))
		return nil, utils.ErrUnauthenticated("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, utils.ErrUnauthenticated("invalid credentials")
	}

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Email, user.Role)
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.Tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, utils.ErrInternal("failed to issue token", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) fakeHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.HashCost)
	})
	return s.dummyHash
}

// Authenticate resolves a raw token to the current user record.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	blocked, err := s.Blocklist.IsBlocked(ctx, token)
	if err != nil {
		return nil, utils.ErrInternal("failed to check token", err)
	}
	if blocked {
		return nil, utils.ErrUnauthenticated("token has been revoked")
	}

	claims, err := s.Tokens.ParseToken(token)
	if err != nil {
		return nil, utils.ErrUnauthenticated(err.Error())
	}

	user, err := s.Users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrUnauthenticated("user no longer exists")
		}
		return nil, utils.ErrInternal("failed to load user", err)
	}
	return user, nil
}

// Logout revokes the token until its own expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.Tokens.ParseToken(token)
	if err != nil {
		// already unusable
		return nil
	}
	if err := s.Blocklist.Block(ctx, token, claims.ExpiresAt.Time); err != nil {
		return utils.ErrInternal("failed to revoke token", err)
	}
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "user", userID)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "user", userID)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, utils.ErrValidation("name cannot be empty")
		}
		user.Name = name
	}
	if in.Phone != nil {
		user.Phone = trimmedOrNil(in.Phone)
	}
	if in.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
			return nil, utils.ErrValidation("current password is incorrect")
		}
		hashed, err := s.HashPassword(in.NewPassword)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.Users.Update(ctx, user); err != nil {
		return nil, utils.ErrInternal("failed to update profile", err)
	}
	return user, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
