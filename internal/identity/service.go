package identity

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/pixelcrate/gameshelf-backend/pkg/db"
	"github.com/pixelcrate/gameshelf-backend/pkg/db/models"
	pkgerrors "github.com/pixelcrate/gameshelf-backend/pkg/errors"
)

// MaxUsernameLength caps usernames to keep cookies and log lines sane.
const MaxUsernameLength = 64

// UserDTO is the outward projection of a user record.
type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ServiceParams groups dependencies for the identity service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes business rules for username-only identities.
type Service interface {
	GetOrCreate(ctx context.Context, username string) (UserDTO, error)
	GetByID(ctx context.Context, userID int64) (UserDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds an identity service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// GetOrCreate resolves the username to an existing user or creates one.
// A concurrent create racing on the unique index is resolved by re-reading
// the winner's row.
func (s *service) GetOrCreate(ctx context.Context, username string) (UserDTO, error) {
	normalized, err := NormalizeUsername(username)
	if err != nil {
		return UserDTO{}, err
	}

	existing, err := s.repo.FindByUsername(ctx, normalized)
	if err == nil {
		return toDTO(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	created, createErr := s.repo.Create(ctx, normalized)
	if createErr == nil {
		return toDTO(created), nil
	}
	if !db.IsUniqueViolation(createErr, "") {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "create user")
	}

	// Lost the insert race; the winning row must exist now.
	winner, readErr := s.repo.FindByUsername(ctx, normalized)
	if readErr != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, readErr, "resolve user after create race")
	}
	return toDTO(winner), nil
}

// GetByID loads a user by id, mapping missing rows to a not-found error.
func (s *service) GetByID(ctx context.Context, userID int64) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return toDTO(user), nil
}

// NormalizeUsername trims surrounding whitespace and enforces the length
// rules shared by the login endpoint and the seed CLI.
func NormalizeUsername(username string) (string, error) {
	normalized := strings.TrimSpace(username)
	if normalized == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if utf8.RuneCountInString(normalized) > MaxUsernameLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "username is too long")
	}
	return normalized, nil
}

func toDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}
