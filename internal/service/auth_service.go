package service

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/repository/ports"
	"github.com/atlastravel/backend/internal/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type AuthService struct {
	users ports.UserRepository
	jwt   *util.JWTManager
	aud   string
}

func NewAuthService(users ports.UserRepository, jwt *util.JWTManager, googleAudience string) *AuthService {
	return &AuthService{users: users, jwt: jwt, aud: googleAudience}
}

func (s *AuthService) Register(ctx context.Context, email, password string, fullName *string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", errors.New("valid email required")
	}
	if err := util.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.CreateEmailUser(ctx, email, fullName, hash, salt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, _, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, idTok string) (*domain.User, string, error) {
	payload, err := idtoken.Validate(ctx, idTok, s.aud)
	if err != nil {
		return nil, "", errors.New("invalid google token")
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, "", errors.New("google token missing email")
	}
	var fullName *string
	if name, ok := payload.Claims["name"].(string); ok && name != "" {
		fullName = &name
	}

	user, err := s.users.UpsertGoogleUser(ctx, strings.ToLower(email), fullName)
	if err != nil {
		return nil, "", err
	}

	token, _, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
