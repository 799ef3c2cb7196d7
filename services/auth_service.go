package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/dto"
	"github.com/taskboard-api/models"
	"github.com/taskboard-api/policy"
	"github.com/taskboard-api/repositories"
	"golang.org/x/crypto/bcrypt"
)

const msgBadCredentials = "No active account found with the given credentials"

// MinPasswordLength is the shortest password accepted on registration
const MinPasswordLength = 6

// AuthService handles registration, login and JWT handling
type AuthService struct {
	users      *repositories.UserRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new auth service instance
func NewAuthService(users *repositories.UserRepository, secret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register creates a new user account together with its profile
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleDeveloper
	}

	fields := map[string][]string{}
	if !role.Valid() {
		fields["role"] = invalidRole(role)
	}
	if len(req.Password) < MinPasswordLength {
		fields["password"] = []string{fmt.Sprintf("Ensure this field has at least %d characters.", MinPasswordLength)}
	}
	taken, err := s.users.UsernameTaken(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		fields["username"] = usernameTakenMessage
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "hash password failed")
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hashedPassword,
		IsActive:  true,
	}
	if err := models.Validate(&user); err != nil {
		return nil, err
	}

	if err := s.users.CreateWithProfile(ctx, &user, role); err != nil {
		// lost a race with a concurrent registration
		if apperrors.IsCode(err, apperrors.CodeConflict) {
			return nil, usernameTaken()
		}
		return nil, err
	}
	return &user, nil
}

var usernameTakenMessage = []string{"A user with that username already exists."}

func usernameTaken() error {
	return apperrors.Validation(map[string][]string{"username": usernameTakenMessage})
}

func invalidRole(role models.Role) []string {
	return []string{fmt.Sprintf("\"%s\" is not a valid choice.", role)}
}

// Login authenticates a user and returns an access/refresh token pair
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, msgBadCredentials)
		}
		return nil, err
	}

	if !user.IsActive || !CheckPassword(user.Password, req.Password) {
		return nil, apperrors.New(apperrors.CodeUnauthorized, msgBadCredentials)
	}

	access, _, err := s.GenerateToken(user.ID, dto.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.GenerateToken(user.ID, dto.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token
func (s *AuthService) Refresh(ctx context.Context, refresh string) (*dto.AccessToken, error) {
	claims, err := s.ValidateToken(refresh, dto.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeUser(ctx, claims.UserID); err != nil {
		return nil, err
	}

	access, _, err := s.GenerateToken(claims.UserID, dto.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &dto.AccessToken{Access: access}, nil
}

// Authenticate resolves an access token to the calling user and its profile
func (s *AuthService) Authenticate(ctx context.Context, token string) (*policy.Caller, error) {
	claims, err := s.ValidateToken(token, dto.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &policy.Caller{User: *user, Profile: user.Profile}, nil
}

func (s *AuthService) activeUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "User not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "User is inactive")
	}
	return user, nil
}

// GenerateToken generates a signed JWT of the given type for a user
func (s *AuthService) GenerateToken(userID uint, tokenType string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, apperrors.New(apperrors.CodeInternal, "JWT secret not configured")
	}

	ttl := s.accessTTL
	if tokenType == dto.TokenTypeRefresh {
		ttl = s.refreshTTL
	}
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := dto.TokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(err, apperrors.CodeInternal, "sign token failed")
	}
	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT and checks it carries the expected type
func (s *AuthService) ValidateToken(tokenString, expectedType string) (*dto.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Wrap(err, apperrors.CodeUnauthorized, "Token is invalid or expired")
	}

	claims, ok := token.Claims.(*dto.TokenClaims)
	if !ok || claims.TokenType != expectedType {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "Token has wrong type")
	}
	return claims, nil
}
