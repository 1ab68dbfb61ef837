package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/apperror"
	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/auth"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// UserService provides profile reads and updates for the authenticated
// user, backed by the credential store.
type UserService struct {
	store auth.UserStore
}

// NewUserService creates a UserService.
func NewUserService(store auth.UserStore) *UserService {
	return &UserService{store: store}
}

// GetUserProfile returns the profile of the user with the given id.
func (s *UserService) GetUserProfile(ctx context.Context, userID int) (*UserProfileResponse, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with id %d not found", userID), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user profile", err)
	}
	return toProfile(user), nil
}

// UpdateUserProfile applies a partial profile update. Only the email can
// change; an email already taken by another account yields a conflict.
func (s *UserService) UpdateUserProfile(ctx context.Context, userID int, req *UpdateUserProfileRequest) (*UserProfileResponse, error) {
	if req.Email == nil || *req.Email == "" {
		return nil, apperror.NewValidationError("no fields provided for update", nil)
	}
	if _, err := mail.ParseAddress(*req.Email); err != nil {
		return nil, apperror.NewValidationError("email must be a valid email address", nil)
	}

	user, err := s.store.UpdateEmail(ctx, userID, *req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with id %d not found", userID), nil)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("email already exists", nil).
				WithDetails(map[string]any{"email": strings.ToLower(*req.Email)})
		}
		return nil, apperror.NewDatabaseError("failed to update user profile", err)
	}
	return toProfile(user), nil
}

func toProfile(user *auth.User) *UserProfileResponse {
	return &UserProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
