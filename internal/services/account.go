package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/monocle-dev/tasksync/internal/apperrors"
	"github.com/monocle-dev/tasksync/internal/auth"
	"github.com/monocle-dev/tasksync/internal/models"
	"github.com/monocle-dev/tasksync/internal/repository"
	"github.com/monocle-dev/tasksync/internal/types"
)

const MinPasswordLength = 6

const invalidCredentials = "Invalid email or password"

type seedEntity struct {
	Name  string
	Icon  string
	Color string
}

var defaultCategories = []seedEntity{
	{Name: "Работа", Icon: "Briefcase", Color: "bg-blue-500"},
	{Name: "Личное", Icon: "User", Color: "bg-green-500"},
	{Name: "Здоровье", Icon: "Heart", Color: "bg-red-500"},
	{Name: "Обучение", Icon: "BookOpen", Color: "bg-purple-500"},
	{Name: "Дом", Icon: "Home", Color: "bg-orange-500"},
}

var defaultProject = seedEntity{Name: "Главный проект", Icon: "Folder", Color: "bg-blue-500"}

type RegisterInput struct {
	Email    string
	Password string
	Username string
}

type LoginInput struct {
	Email    string
	Password string
}

// AccountService implements registration, login and token verification.
type AccountService struct {
	repo   *repository.Repository
	tokens *auth.TokenService
	newID  func() string
}

func NewAccountService(repo *repository.Repository, tokens *auth.TokenService) *AccountService {
	return &AccountService{
		repo:   repo,
		tokens: tokens,
		newID:  uuid.NewString,
	}
}

// Register creates the account together with its zero rewards row, the
// default categories and the default project. Either all of them are stored
// or none.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (types.AuthResponse, error) {
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)

	if email == "" || input.Password == "" || username == "" {
		return types.AuthResponse{}, apperrors.Validation("Email, password and username are required")
	}

	if utf8.RuneCountInString(input.Password) < MinPasswordLength {
		return types.AuthResponse{}, apperrors.Validation("Password must be at least 6 characters")
	}

	_, err := s.repo.FindUserByEmail(ctx, email)

	if err == nil {
		return types.AuthResponse{}, apperrors.Conflict("User already exists")
	}

	if !errors.Is(err, repository.ErrNotFound) {
		return types.AuthResponse{}, err
	}

	passwordHash, err := auth.HashPassword(input.Password)

	if err != nil {
		return types.AuthResponse{}, err
	}

	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.CreateUser(ctx, &user); err != nil {
			return err
		}

		if err := tx.UpsertRewards(ctx, models.EarnedRewards{UserID: user.ID}); err != nil {
			return err
		}

		if err := tx.UpsertCategories(ctx, s.seedCategories(user.ID)); err != nil {
			return err
		}

		return tx.UpsertProjects(ctx, []models.Project{{
			UserID: user.ID,
			ID:     s.newID(),
			Name:   defaultProject.Name,
			Icon:   defaultProject.Icon,
			Color:  defaultProject.Color,
		}})
	})

	if errors.Is(err, repository.ErrDuplicate) {
		return types.AuthResponse{}, apperrors.Conflict("User already exists")
	}

	if err != nil {
		return types.AuthResponse{}, err
	}

	log.Printf("[AUTH] Registered user %d", user.ID)

	return s.authResponse(&user)
}

// Login answers every credential failure with the same message so callers
// cannot tell unknown emails from wrong passwords.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (types.AuthResponse, error) {
	email := normalizeEmail(input.Email)

	if email == "" || input.Password == "" {
		return types.AuthResponse{}, apperrors.Validation("Email and password are required")
	}

	user, err := s.repo.FindUserByEmail(ctx, email)

	if errors.Is(err, repository.ErrNotFound) {
		return types.AuthResponse{}, apperrors.Unauthorized(invalidCredentials)
	}

	if err != nil {
		return types.AuthResponse{}, err
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return types.AuthResponse{}, apperrors.Unauthorized(invalidCredentials)
	}

	return s.authResponse(user)
}

// Verify resolves a bearer token to the public profile of its user.
func (s *AccountService) Verify(ctx context.Context, token string) (types.UserResponse, error) {
	if token == "" {
		return types.UserResponse{}, apperrors.Unauthorized("Token required")
	}

	userID, err := s.tokens.Verify(token)

	if err != nil {
		return types.UserResponse{}, apperrors.Unauthorized("Invalid token")
	}

	user, err := s.repo.FindUserByID(ctx, userID)

	if errors.Is(err, repository.ErrNotFound) {
		return types.UserResponse{}, apperrors.NotFound("User not found")
	}

	if err != nil {
		return types.UserResponse{}, err
	}

	return userResponse(user), nil
}

func (s *AccountService) authResponse(user *models.User) (types.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)

	if err != nil {
		return types.AuthResponse{}, err
	}

	return types.AuthResponse{User: userResponse(user), Token: token}, nil
}

func (s *AccountService) seedCategories(userID uint) []models.Category {
	categories := make([]models.Category, 0, len(defaultCategories))

	for _, c := range defaultCategories {
		categories = append(categories, models.Category{
			UserID: userID,
			ID:     s.newID(),
			Name:   c.Name,
			Icon:   c.Icon,
			Color:  c.Color,
		})
	}

	return categories
}

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
