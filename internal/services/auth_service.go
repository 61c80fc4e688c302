package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"wasteflow/internal/caching"
	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/repositories"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// AuthService handles credential checks and JWT token management.
type AuthService interface {
	// Login verifies credentials and issues a token pair. Failures are
	// uniform: a bad email and a bad password produce the same error.
	Login(ctx context.Context, email, password, clientIP string) (*models.TokenResponse, error)
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
	HashPassword(password string) (string, error)
}

// TokenClaims are the JWT claims carried by access tokens.
type TokenClaims struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo   repositories.UserRepository
	cacheSvc   caching.CacheService
	jwtSecret  []byte
	tokenTTL   int // Access token TTL in seconds
	refreshTTL int // Refresh token TTL in seconds
}

func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, jwtSecret string, tokenTTLSeconds, refreshTTLSeconds int) AuthService {
	return &authService{
		userRepo:   userRepo,
		cacheSvc:   cacheSvc,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTLSeconds,
		refreshTTL: refreshTTLSeconds,
	}
}

func (s *authService) Login(ctx context.Context, email, password, clientIP string) (*models.TokenResponse, error) {
	limited, err := s.cacheSvc.IsRateLimited(ctx, "login:"+clientIP, loginRateLimit, loginRateWindow)
	if err != nil {
		log.Printf("Rate limit check failed for %s: %v", clientIP, err)
	} else if limited {
		return nil, common.ValidationError("Too many login attempts, try again later")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			return nil, common.Unauthenticated("Invalid email or password")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.Unauthenticated("Account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.Unauthenticated("Invalid email or password")
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("Failed to update last login for %s: %v", user.ID, err)
	}

	return s.GenerateTokens(ctx, user)
}

func (s *authService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		UserID:  user.ID.String(),
		Role:    user.Role,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "wasteflow-auth",
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{"wasteflow-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenTTL) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessTokenString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %v", err)
	}

	refreshToken := s.generateSecureToken()
	refreshTokenHash := s.hashToken(refreshToken)

	refreshTokenData := fmt.Sprintf("%s:%s:%d", user.ID.String(), refreshTokenHash, now.Unix()+int64(s.refreshTTL))
	cacheKey := "refresh_token:" + refreshTokenHash
	if err := s.cacheSvc.SetString(ctx, cacheKey, refreshTokenData, time.Duration(s.refreshTTL)*time.Second); err != nil {
		log.Printf("Failed to store refresh token: %v", err)
		// Continue - token generation succeeded
	}

	return &models.TokenResponse{
		AccessToken:  accessTokenString,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokenTTL,
		RefreshToken: refreshToken,
		UserID:       user.ID.String(),
		Role:         user.Role,
		TokenID:      tokenID,
		IssuedAt:     now,
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	refreshTokenHash := s.hashToken(refreshToken)

	cacheKey := "refresh_token:" + refreshTokenHash
	tokenData, err := s.cacheSvc.GetString(ctx, cacheKey)
	if err != nil || tokenData == "" {
		return nil, common.Unauthenticated("Invalid refresh token")
	}

	parts := strings.Split(tokenData, ":")
	if len(parts) != 3 {
		return nil, common.Unauthenticated("Invalid refresh token")
	}

	userIDStr, storedHash, expiryStr := parts[0], parts[1], parts[2]
	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		return nil, common.Unauthenticated("Invalid refresh token")
	}

	if time.Now().Unix() > expiry {
		s.cacheSvc.Delete(ctx, cacheKey)
		return nil, common.Unauthenticated("Refresh token expired")
	}

	if storedHash != refreshTokenHash {
		return nil, common.Unauthenticated("Invalid refresh token")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, common.Unauthenticated("Invalid refresh token")
	}

	user, err := s.userRepo.GetForAuth(ctx, userID)
	if err != nil {
		return nil, common.Unauthenticated("User not found")
	}
	if !user.IsActive {
		return nil, common.Unauthenticated("Account is deactivated")
	}

	// Rotate: the old refresh token is spent.
	s.cacheSvc.Delete(ctx, cacheKey)

	return s.GenerateTokens(ctx, user)
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	jwtToken, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, common.Unauthenticated("Invalid or expired token")
	}

	claims, ok := jwtToken.Claims.(*TokenClaims)
	if !ok || !jwtToken.Valid {
		return nil, common.Unauthenticated("Invalid token claims")
	}
	return claims, nil
}

func (s *authService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	refreshTokenHash := s.hashToken(refreshToken)
	return s.cacheSvc.Delete(ctx, "refresh_token:"+refreshTokenHash)
}

func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %v", err)
	}
	return string(hash), nil
}

// generateSecureToken generates a cryptographically secure random token
func (s *authService) generateSecureToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return base64.URLEncoding.EncodeToString(bytes)
}

// hashToken creates a SHA-256 hash of the token for secure storage
func (s *authService) hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
