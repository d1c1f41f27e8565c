package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/models"
	"github.com/talesforge/talesforge/pkg/users"
)

// JWTClaims is the session payload. IsAdmin is a snapshot taken at sign-in;
// RequireAdmin trusts it and only consults the database when it is false.
type JWTClaims struct {
	UserID  string `json:"id"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Service handles authentication operations.
type Service struct {
	userService *users.Service
	jwtSecret   []byte
	sessionTTL  time.Duration
}

// NewService creates a new auth service.
func NewService(userService *users.Service, jwtSecret string, sessionTTL time.Duration) *Service {
	return &Service{
		userService: userService,
		jwtSecret:   []byte(jwtSecret),
		sessionTTL:  sessionTTL,
	}
}

// Authenticate validates credentials and returns the user if valid.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	return s.userService.Authenticate(ctx, email, password)
}

// DevLogin creates or updates the user for the given email.
func (s *Service) DevLogin(ctx context.Context, params DevLoginPayload) (*models.User, error) {
	return s.userService.Upsert(ctx, users.CreateUserOptions{
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		IsAdmin:   params.IsAdmin,
	})
}

// GenerateToken creates a new JWT token for the user.
func (s *Service) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// GetUserByID retrieves the session user.
func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.userService.Retrieve(ctx, id)
}
