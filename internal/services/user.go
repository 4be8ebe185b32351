package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boardside/kilterboard-backend/internal/data/repos"
	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/pkg/dbctx"
	apperrors "github.com/boardside/kilterboard-backend/internal/pkg/errors"
	"github.com/boardside/kilterboard-backend/internal/platform/ctxutil"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	RegenerateAvatar(ctx context.Context) (*types.User, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService) UserService {
	return &userService{
		db:            db,
		log:           log.With("service", "UserService"),
		userRepo:      userRepo,
		avatarService: avatarService,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}

	found, err := us.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, apperrors.ErrNotFound
	}
	return found[0], nil
}

func (us *userService) RegenerateAvatar(ctx context.Context) (*types.User, error) {
	user, err := us.GetMe(ctx)
	if err != nil {
		return nil, err
	}
	if us.avatarService == nil {
		return user, nil
	}

	if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := us.avatarService.CreateUserAvatar(user); err != nil {
			return fmt.Errorf("create avatar: %w", err)
		}
		return us.userRepo.UpdateAvatarFields(
			dbctx.Context{Ctx: ctx, Tx: tx},
			user.ID, user.AvatarColor, user.AvatarPath,
		)
	}); err != nil {
		return nil, err
	}
	return user, nil
}
