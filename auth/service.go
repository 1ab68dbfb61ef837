package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// dummyHash is a valid bcrypt hash compared against when the username has
// no account, so the unknown-user path costs the same as a real
// verification. Its result is never trusted.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService orchestrates registration and authentication: it consults the
// credential store, the password hasher, and the login attempt tracker, and
// issues session tokens on success.
type AuthService struct {
	store      UserStore
	tracker    *LoginAttemptTracker
	tokens     *TokenIssuer
	bcryptCost int
}

// NewAuthService creates an AuthService with its collaborators injected.
func NewAuthService(store UserStore, tracker *LoginAttemptTracker, tokens *TokenIssuer, bcryptCost int) *AuthService {
	return &AuthService{
		store:      store,
		tracker:    tracker,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user. Username and email must be unused; the
// password arrives pre-validated and is stored only as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if _, err := s.store.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperror.NewConflictError("username already exists", nil).
			WithDetails(map[string]any{"username": req.Username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewDatabaseError("failed to check username", err)
	}

	if _, err := s.store.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.NewConflictError("email already exists", nil).
			WithDetails(map[string]any{"email": strings.ToLower(req.Email)})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewDatabaseError("failed to check email", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		Username:       req.Username,
		Email:          strings.ToLower(req.Email),
		HashedPassword: string(hashedPassword),
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		// The pre-checks race with concurrent registrations; the unique
		// constraints are the source of truth.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return nil, apperror.NewConflictError("username already exists", nil).
					WithDetails(map[string]any{"username": req.Username})
			}
			return nil, apperror.NewConflictError("email already exists", nil).
				WithDetails(map[string]any{"email": strings.ToLower(req.Email)})
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return created, nil
}

// Login authenticates a user and returns a session token.
//
// The order of operations is deliberate: the lockout gate runs before the
// credential store is touched, and the tracker is updated before any
// response is built so concurrent retries observe fresh throttle state.
// An unknown username and a wrong password take the same path and produce
// the same failure shape.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if s.tracker.IsBlocked(req.Username) {
		minutes := s.tracker.GetBlockTimeRemaining(req.Username)
		return nil, apperror.NewAuthenticationError(
			fmt.Sprintf("account temporarily locked, try again in %d minutes", minutes), nil).
			WithDetails(map[string]any{"blocked_minutes": minutes})
	}

	user, err := s.store.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("database error looking up user during login: %v", err)
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	storedHash := dummyHash
	if user != nil {
		storedHash = user.HashedPassword
	}
	verified := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)) == nil

	if user == nil || !verified {
		s.tracker.RecordFailedAttempt(req.Username)
		remaining := s.tracker.GetRemainingAttempts(req.Username)
		if remaining > 0 {
			return nil, apperror.NewAuthenticationError(
				fmt.Sprintf("invalid credentials, %d attempts remaining", remaining), nil).
				WithDetails(map[string]any{"remaining_attempts": remaining})
		}
		minutes := s.tracker.GetBlockTimeRemaining(req.Username)
		return nil, apperror.NewAuthenticationError(
			fmt.Sprintf("too many failed attempts, account locked for %d minutes", minutes), nil).
			WithDetails(map[string]any{"blocked_minutes": minutes})
	}

	s.tracker.RecordSuccessfulLogin(req.Username)

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue session token", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// GetUserByID fetches a user by id, mapping a missing row to NotFound.
func (s *AuthService) GetUserByID(ctx context.Context, id int) (*User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with id %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}
