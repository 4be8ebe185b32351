package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/boardside/kilterboard-backend/internal/data/repos"
	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/pkg/dbctx"
	apperrors "github.com/boardside/kilterboard-backend/internal/pkg/errors"
	"github.com/boardside/kilterboard-backend/internal/platform/ctxutil"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*types.User, error)
	Login(ctx context.Context, login, password string) (*types.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	AccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	avatarService AvatarService
	jwtSecret     []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	avatarService AvatarService,
	jwtSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
		jwtSecret:     []byte(jwtSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,30}$`)
)

func (as *authService) AccessTTL() time.Duration { return as.accessTTL }

func (as *authService) Register(ctx context.Context, email, username, password string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", apperrors.ErrInvalidArgument)
	}
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: invalid username", apperrors.ErrInvalidArgument)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrInvalidArgument)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Username: username,
		Password: string(hashed),
	}

	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		if exists, err := as.userRepo.EmailExists(dbc, email); err != nil {
			return fmt.Errorf("check email: %w", err)
		} else if exists {
			return fmt.Errorf("%w: email already registered", apperrors.ErrInvalidArgument)
		}
		if exists, err := as.userRepo.UsernameExists(dbc, username); err != nil {
			return fmt.Errorf("check username: %w", err)
		} else if exists {
			return fmt.Errorf("%w: username already taken", apperrors.ErrInvalidArgument)
		}

		if as.avatarService != nil {
			if err := as.avatarService.CreateUserAvatar(user); err != nil {
				return fmt.Errorf("create user avatar: %w", err)
			}
		}

		if _, err := as.userRepo.Create(dbc, []*types.User{user}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	as.log.Info("registered user", "user_id", user.ID)
	return user, nil
}

func (as *authService) Login(ctx context.Context, login, password string) (*types.User, string, string, error) {
	login = strings.TrimSpace(login)

	dbc := dbctx.Context{Ctx: ctx}
	var user *types.User
	var err error
	if strings.Contains(login, "@") {
		user, err = as.userRepo.GetByEmail(dbc, strings.ToLower(login))
	} else {
		user, err = as.userRepo.GetByUsername(dbc, login)
	}
	if err != nil {
		return nil, "", "", fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, "", "", apperrors.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", "", apperrors.ErrUnauthorized
	}

	var accessToken, refreshToken string
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}

		if err := as.userTokenRepo.DeleteExpired(inner, time.Now()); err != nil {
			return fmt.Errorf("prune expired tokens: %w", err)
		}

		tok, err := as.generateAccessToken(user)
		if err != nil {
			return fmt.Errorf("generate access token: %w", err)
		}
		accessToken = tok
		refreshToken = uuid.New().String()

		userToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(inner, []*types.UserToken{userToken}); err != nil {
			return fmt.Errorf("create user token: %w", err)
		}
		return nil
	}); err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", "", apperrors.ErrUnauthorized
	}

	var accessToken, newRefresh string
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}

		stored, err := as.userTokenRepo.GetByRefreshToken(inner, refreshToken)
		if err != nil {
			return fmt.Errorf("fetch refresh token: %w", err)
		}
		if stored == nil || stored.ExpiresAt.Before(time.Now()) {
			return apperrors.ErrUnauthorized
		}

		users, err := as.userRepo.GetByIDs(inner, []uuid.UUID{stored.UserID})
		if err != nil {
			return fmt.Errorf("fetch user: %w", err)
		}
		if len(users) == 0 {
			return apperrors.ErrUnauthorized
		}

		// Rotate: the old refresh token dies with its use.
		if err := as.userTokenRepo.DeleteByRefreshToken(inner, refreshToken); err != nil {
			return fmt.Errorf("rotate refresh token: %w", err)
		}

		tok, err := as.generateAccessToken(users[0])
		if err != nil {
			return fmt.Errorf("generate access token: %w", err)
		}
		accessToken = tok
		newRefresh = uuid.New().String()

		userToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       stored.UserID,
			RefreshToken: newRefresh,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(inner, []*types.UserToken{userToken}); err != nil {
			return fmt.Errorf("create user token: %w", err)
		}
		return nil
	}); err != nil {
		return "", "", err
	}

	return accessToken, newRefresh, nil
}

func (as *authService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	return as.userTokenRepo.DeleteByRefreshToken(dbctx.Context{Ctx: ctx}, refreshToken)
}

// SetContextFromToken validates a bearer token and stashes the caller's
// identity in the context for handlers downstream.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return as.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ctx, apperrors.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, apperrors.ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, apperrors.ErrUnauthorized
	}
	username, _ := claims["username"].(string)

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:   userID,
		Username: username,
	}), nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(as.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(as.jwtSecret)
}
