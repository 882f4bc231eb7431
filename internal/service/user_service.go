package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/estradax/learnway/internal/fault"
	"github.com/estradax/learnway/internal/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

type RegisterInput struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	IsTutor         bool
	Bio             string
	HourlyRateCents int64
}

// Register creates a new account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" {
		return nil, fault.New(fault.ValidationFailed, "name is required")
	}
	if in.Email == "" {
		return nil, fault.New(fault.ValidationFailed, "email is required")
	}
	if len(in.Password) < 8 {
		return nil, fault.New(fault.ValidationFailed, "password must be at least 8 characters")
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, fault.New(fault.ValidationFailed, "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		PasswordHash:    string(hash),
		IsTutor:         in.IsTutor,
		Bio:             in.Bio,
		HourlyRateCents: in.HourlyRateCents,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.Bool("is_tutor", user.IsTutor),
	)

	return user, nil
}

// Authenticate checks email and password and returns the account.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fault.New(fault.Unauthenticated, "invalid email or password")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, fault.New(fault.Unauthenticated, "invalid email or password")
	}

	return user, nil
}

// ListTutors returns all tutor accounts.
func (s *UserService) ListTutors(ctx context.Context) ([]*model.User, error) {
	tutors, err := s.users.ListTutors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	return tutors, nil
}
