package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-todo-lists/internal/models"
	"go-todo-lists/internal/repositories"
)

// UserService はユーザー登録とログインのビジネスロジックを扱います。
type UserService struct {
	userRepo *repositories.UserRepository
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterUser は入力を検証してユーザーを登録します。
// 検証はメール形式、パスワード強度、確認用パスワード、メール重複の順に行います。
func (s *UserService) RegisterUser(ctx context.Context, req models.UserRegisterRequest) (*models.User, error) {
	if !ValidEmail(req.Email) {
		return nil, ErrInvalidEmail
	}
	if !StrongPassword(req.Password) {
		return nil, ErrWeakPassword
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repositories.ErrUserNotFound):
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return nil, err
	}

	newUser := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}
	createdUser, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		// 同時登録で事前チェックをすり抜けた場合
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	log.Printf("Registered user %d", createdUser.ID)
	return createdUser, nil
}

// AuthenticateUser はユーザーを認証し、成功したらIDと表示名を返します。
// メール不一致とパスワード不一致は同じ ErrInvalidCredentials になります。
func (s *UserService) AuthenticateUser(ctx context.Context, req models.UserLoginRequest) (*models.UserSummary, error) {
	foundUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := VerifyPassword(foundUser.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return foundUser.Summary(), nil
}
