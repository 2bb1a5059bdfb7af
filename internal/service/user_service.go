package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
	"go.uber.org/zap"
)

type UserService struct {
	store    repository.Store
	adminIDs []int64
	logger   *zap.Logger
}

// NewUserService adminIDs: telegram id, получающие роль admin при регистрации
func NewUserService(store repository.Store, adminIDs []int64, logger *zap.Logger) *UserService {
	return &UserService{
		store:    store,
		adminIDs: adminIDs,
		logger:   logger,
	}
}

// RegisterUser регистрирует или обновляет пользователя
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	// Проверяем существует ли пользователь
	existingUser, err := s.store.Users().GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	// Если пользователь уже существует, обновляем данные
	if existingUser != nil {
		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName
		existingUser.LanguageCode = languageCode

		if err := s.store.Users().Update(ctx, existingUser); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Debug("User updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username))

		return existingUser, nil
	}

	// Создаём нового пользователя
	user := &model.User{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		Role:         model.RoleAttendee, // По умолчанию участник
	}
	if slices.Contains(s.adminIDs, telegramID) {
		user.Role = model.RoleAdmin
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
		zap.String("role", string(user.Role)))

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.store.Users().GetByTelegramID(ctx, telegramID)
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	return requireUser(ctx, s.store, userID)
}

// MakeHost выдаёт пользователю роль хоста. Администратор свою роль не теряет.
func (s *UserService) MakeHost(ctx context.Context, userID int64) (*model.User, error) {
	user, err := requireUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if user.IsHost() || user.IsAdmin() {
		return user, nil
	}

	user.Role = model.RoleHost
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}

	s.logger.Info("User became host",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", user.TelegramID))

	return user, nil
}

// SetEmail сохраняет адрес для писем с подтверждением
func (s *UserService) SetEmail(ctx context.Context, userID int64, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, validationf("invalid email %q", email)
	}

	user, err := requireUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	user.Email = email
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user email: %w", err)
	}
	return user, nil
}
