// Package service implements the application use cases on top of the
// store ports: authentication, the transaction ledger and monthly summaries.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmatos/fintrack-api-go/internal/domain"
	"github.com/dmatos/fintrack-api-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/auth")

const (
	bcryptCost = 12
	jwtIssuer  = "fintrack-api"
)

// AuthService orchestrates registration, login and token verification.
type AuthService struct {
	store     port.UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store port.UserStore, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// jwtClaims is the token payload. Subject carries the user id.
type jwtClaims struct {
	jwt.RegisteredClaims
}

// ============================================================
// Register — POST /api/auth/register
// ============================================================

func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.RegisterResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, &domain.ErrValidation{Field: "email", Message: "a valid email is required"}
	}
	if req.Password == "" {
		return nil, &domain.ErrValidation{Field: "password", Message: "password is required"}
	}

	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		return nil, &domain.ErrDuplicateEmail{}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("auth: user registered",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return &domain.RegisterResponse{Token: token}, nil
}

// ============================================================
// Login — POST /api/auth/login
// ============================================================

func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	// Unknown email and wrong password produce the same error so the
	// response does not reveal which accounts exist.
	if user == nil {
		return nil, &domain.ErrInvalidCredentials{}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("auth: failed password attempt",
			zap.String("user_id", user.ID),
		)
		return nil, &domain.ErrInvalidCredentials{}
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	s.logger.Info("auth: login succeeded",
		zap.String("user_id", user.ID),
	)

	return &domain.LoginResponse{Token: token, User: user.Profile()}, nil
}

// ============================================================
// Verify — bearer token validation for protected routes
// ============================================================

// Verify parses and validates a bearer token, then loads the user fresh
// from the store so revoked or deleted accounts stop authenticating
// immediately.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*domain.User, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Verify")
	defer span.End()

	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &domain.ErrUnauthenticated{Message: "token expired"}
		}
		return nil, &domain.ErrUnauthenticated{Message: "invalid token"}
	}

	userID := claims.Subject
	if userID == "" {
		return nil, &domain.ErrUnauthenticated{Message: "invalid token"}
	}
	span.SetAttributes(attribute.String("user.id", userID))

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, &domain.ErrUnauthenticated{Message: "account no longer exists"}
	}

	return user, nil
}

func (s *AuthService) signToken(userID string) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
