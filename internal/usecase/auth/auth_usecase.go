package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/repository"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/preferences"
)

type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	prefs       *preferences.PreferencesUseCase
	jwtSecret   string
	tokenTTL    time.Duration
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	prefs *preferences.PreferencesUseCase,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		prefs:       prefs,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
	}
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
	IsNewUser bool         `json:"is_new_user"`
}

// Register creates a new account and opens a session.
func (uc *AuthUseCase) Register(ctx context.Context, email, password, displayName, deviceInfo, ipAddress string) (*AuthResponse, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, expiresAt, err := uc.createSession(ctx, user.ID, deviceInfo, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: user, IsNewUser: true}, nil
}

// Login verifies credentials and opens a session.
func (uc *AuthUseCase) Login(ctx context.Context, email, password, deviceInfo, ipAddress string) (*AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := uc.createSession(ctx, user.ID, deviceInfo, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout invalidates the session and clears the user's scoped preferences
// so the next login on this device starts clean.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	userID, err := uc.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	if err := uc.sessionRepo.DeleteByTokenHash(ctx, hashToken(token)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if err := uc.prefs.ClearUserScoped(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear user preferences: %w", err)
	}
	return nil
}

// ValidateToken verifies the JWT signature and the server-side session row,
// returning the user ID the token belongs to.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(uc.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidCredentials
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrInvalidCredentials
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return "", domain.ErrInvalidCredentials
	}

	session, err := uc.sessionRepo.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up session: %w", err)
	}
	if session.UserID != userID {
		return "", domain.ErrInvalidCredentials
	}

	return userID, nil
}

func (uc *AuthUseCase) createSession(ctx context.Context, userID, deviceInfo, ipAddress string) (string, time.Time, error) {
	expiresAt := time.Now().Add(uc.tokenTTL)

	claims := jwt.MapClaims{
		"sub": userID,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	session := &domain.Session{
		UserID:     userID,
		TokenHash:  hashToken(token),
		DeviceInfo: deviceInfo,
		IPAddress:  ipAddress,
		ExpiresAt:  expiresAt,
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// Only the hash of the token is stored server-side.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
