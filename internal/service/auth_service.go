package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/logger"
	"github.com/BhautikVekariya21/backend/internal/repository"
	"github.com/BhautikVekariya21/backend/internal/storage"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is a new account. AvatarPath and CoverImagePath point at
// temporary files the gateway consumes.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// TokenPair is an access token with its matching refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService owns passwords, tokens and sessions.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login accepts a username or an email.
	Login(ctx context.Context, username, email, password string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID primitive.ObjectID) error
	ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error
	// Authenticate verifies an access token and loads its user.
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// TokenConfig carries the secrets and lifetimes of both token kinds.
type TokenConfig struct {
	AccessSecret      string
	AccessExpiration  time.Duration
	RefreshSecret     string
	RefreshExpiration time.Duration
}

// --- Service Implementation ---

type authService struct {
	userRepo   repository.UserRepository
	media      storage.MediaGateway
	tokens     TokenConfig
	bcryptCost int
	now        func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, media storage.MediaGateway, tokens TokenConfig) AuthService {
	if tokens.AccessSecret == "" || tokens.RefreshSecret == "" {
		panic("JWT secrets cannot be empty") // Critical configuration
	}
	if tokens.AccessExpiration <= 0 {
		tokens.AccessExpiration = 15 * time.Minute
	}
	if tokens.RefreshExpiration <= 0 {
		tokens.RefreshExpiration = 10 * 24 * time.Hour
	}
	return &authService{
		userRepo:   userRepo,
		media:      media,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// Register validates the input, uploads the images and stores the account.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))

	if err := requireFields(
		"fullName", in.FullName,
		"email", in.Email,
		"username", in.Username,
		"password", in.Password,
	); err != nil {
		return nil, err
	}
	if !strings.Contains(in.Email, "@") {
		return nil, invalid("Email is invalid", "email must be a valid address")
	}

	_, err := s.userRepo.GetByUsernameOrEmail(ctx, in.Username, in.Email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, unexpected(err)
	}

	if in.AvatarPath == "" {
		return nil, ErrAvatarRequired
	}

	cover, err := s.media.Upload(ctx, in.CoverImagePath, domain.MediaImage)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warn("cover image upload failed")
		return nil, ErrCoverImageUpload
	}
	avatar, err := s.media.Upload(ctx, in.AvatarPath, domain.MediaImage)
	if err != nil || avatar == nil {
		logger.FromContext(ctx).WithError(err).Warn("avatar upload failed")
		s.discard(ctx, cover)
		return nil, ErrAvatarUpload
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		s.discard(ctx, avatar, cover)
		return nil, unexpected(fmt.Errorf("hash password: %w", err))
	}

	user := &domain.User{
		FullName:     in.FullName,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: string(hashedPassword),
		Avatar:       avatar.Media(),
	}
	if cover != nil {
		m := cover.Media()
		user.CoverImage = &m
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		s.discard(ctx, avatar, cover)
		// A concurrent registration can win between the lookup and the insert.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, unexpected(err)
	}

	logger.FromContext(ctx).WithField("user_id", user.ID.Hex()).Info("user registered")
	return user.Sanitized(), nil
}

// discard deletes assets uploaded for a request that then failed.
func (s *authService) discard(ctx context.Context, assets ...*storage.Asset) {
	for _, a := range assets {
		if a != nil {
			s.media.Delete(ctx, a.StorageID, domain.MediaImage)
		}
	}
}

// Login verifies the password and starts a new session.
func (s *authService) Login(ctx context.Context, username, email, password string) (*TokenPair, *domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" && email == "" {
		return nil, nil, invalid("Username or email is required")
	}
	if password == "" {
		return nil, nil, invalid("password is required")
	}

	user, err := s.userRepo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, unexpected(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user.Sanitized(), nil
}

// Refresh rotates the session. Only the most recently issued refresh token is accepted.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrUnauthorized
	}

	claims := &refreshClaims{}
	if err := s.parse(refreshToken, s.tokens.RefreshSecret, claims); err != nil {
		return nil, ErrInvalidRefreshToken
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, unexpected(err)
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		logger.FromContext(ctx).WithField("user_id", user.ID.Hex()).Warn("stale refresh token presented")
		return nil, ErrRefreshTokenMismatch
	}

	return s.issuePair(ctx, user)
}

func (s *authService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.userRepo.SetRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return unexpected(err)
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	if err := requireFields("oldPassword", oldPassword, "newPassword", newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return unexpected(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidOldPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return unexpected(fmt.Errorf("hash password: %w", err))
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return unexpected(err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, ErrUnauthorized
	}

	claims := &accessClaims{}
	if err := s.parse(accessToken, s.tokens.AccessSecret, claims); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, unexpected(err)
	}
	return user.Sanitized(), nil
}

// --- JWT Helpers ---

// accessClaims is the payload of short-lived access tokens.
type accessClaims struct {
	UserID   string `json:"_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// refreshClaims is the payload of refresh tokens.
type refreshClaims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// issuePair signs a new pair and stores the refresh token as the only valid one.
func (s *authService) issuePair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	now := s.now()

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &accessClaims{
		UserID:   user.ID.Hex(),
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokens.AccessExpiration)),
		},
	}).SignedString([]byte(s.tokens.AccessSecret))
	if err != nil {
		return nil, unexpected(fmt.Errorf("sign access token: %w", err))
	}

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &refreshClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokens.RefreshExpiration)),
			// A unique id keeps two pairs issued within one second distinct.
			ID: primitive.NewObjectID().Hex(),
		},
	}).SignedString([]byte(s.tokens.RefreshSecret))
	if err != nil {
		return nil, unexpected(fmt.Errorf("sign refresh token: %w", err))
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, unexpected(err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) parse(token, secret string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("invalid token")
	}
	return nil
}
