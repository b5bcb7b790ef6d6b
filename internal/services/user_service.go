package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/isdelr/salesdash-be/internal/apperr"
	"github.com/isdelr/salesdash-be/internal/auth"
	"github.com/isdelr/salesdash-be/internal/models"
	"github.com/isdelr/salesdash-be/internal/repositories/users"
	"github.com/isdelr/salesdash-be/internal/sanitize"
	"github.com/isdelr/salesdash-be/internal/validation"
	"github.com/rs/zerolog/log"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgUsernameTaken      = "username is already in use"
	msgEmailTaken         = "email is already in use"
	msgUserNotFound       = "user not found"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Signup(ctx context.Context, in SignupInput) (models.User, error)
	Login(ctx context.Context, username, password string) (LoginResult, error)
	ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	ListActiveUsers(ctx context.Context) ([]models.User, error)
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, companyName, email string) (models.User, error)
	Deactivate(ctx context.Context, id int64) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(username string, userID int64) (string, error)
	TTL() time.Duration
}

// EventRecorder is the write side of the event log.
type EventRecorder interface {
	CreateEvent(ctx context.Context, eventType, level, message string, userID *int64) error
}

// SignupInput is the raw registration form.
type SignupInput struct {
	CompanyName string
	Username    string
	Email       string
	Password    string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User      models.User
	Token     string
	ExpiresIn time.Duration
}

// UserService provides business logic for user management.
type UserService struct {
	repo      users.Repository
	hasher    auth.Hasher
	tokens    TokenIssuer
	sanitizer *sanitize.Sanitizer
	validator *validation.Validator
	events    EventRecorder
	now       func() time.Time

	// dummyHash is verified against when the username is unknown so both
	// login failure paths cost one bcrypt comparison.
	dummyHash string
}

// NewUserService creates a new UserService. events may be nil.
func NewUserService(repo users.Repository, hasher auth.Hasher, tokens TokenIssuer, sanitizer *sanitize.Sanitizer, validator *validation.Validator, events EventRecorder) *UserService {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to prepare dummy password hash")
	}
	return &UserService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		sanitizer: sanitizer,
		validator: validator,
		events:    events,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// Signup registers a new active account. Inputs are sanitized before they are
// validated and checked for uniqueness; the password is never sanitized.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	companyName := strings.TrimSpace(s.sanitizer.Sanitize(in.CompanyName))
	username := s.sanitizer.SanitizeUsername(in.Username)
	email := s.sanitizer.SanitizeEmail(in.Email)

	if err := s.validator.Signup(companyName, username, email, in.Password); err != nil {
		return models.User{}, err
	}

	taken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return models.User{}, apperr.Storage("failed to check username", err)
	}
	if taken {
		return models.User{}, usernameTaken()
	}

	taken, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return models.User{}, apperr.Storage("failed to check email", err)
	}
	if taken {
		return models.User{}, emailTaken(apperr.CodeSignup)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, apperr.Internal("failed to hash password", err)
	}

	now := s.now().UTC()
	user := &models.User{
		CompanyName:  companyName,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	n, err := s.repo.Create(ctx, user)
	switch {
	case errors.Is(err, users.ErrDuplicateUsername):
		return models.User{}, usernameTaken()
	case errors.Is(err, users.ErrDuplicateEmail):
		return models.User{}, emailTaken(apperr.CodeSignup)
	case err != nil:
		return models.User{}, apperr.Storage("failed to create user", err)
	case n == 0:
		return models.User{}, apperr.Storage("user was not created", nil)
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User signed up")
	s.record(ctx, EventSignup, "info", "New account "+user.Username, &user.ID)
	return user.Stripped(), nil
}

// Login verifies credentials and issues a token. The username is matched
// exactly as submitted (surrounding spaces aside); one that sanitizing would
// alter cannot name an account. Unknown usernames and wrong passwords fail
// identically.
func (s *UserService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, apperr.Validation("username and password are required")
	}
	if s.sanitizer.SanitizeUsername(username) != username {
		return LoginResult{}, s.unknownUser(ctx, password)
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, users.ErrNotFound) {
		return LoginResult{}, s.unknownUser(ctx, password)
	}
	if err != nil {
		return LoginResult{}, apperr.Storage("failed to look up user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.record(ctx, EventLoginFail, "warn", "Failed login for "+user.Username, &user.ID)
		return LoginResult{}, invalidCredentials()
	}

	token, err := s.tokens.Issue(user.Username, user.ID)
	if err != nil {
		return LoginResult{}, apperr.Internal("failed to issue token", err)
	}

	s.record(ctx, EventLoginSuccess, "info", "User "+user.Username+" logged in", &user.ID)
	return LoginResult{User: user.Stripped(), Token: token, ExpiresIn: s.tokens.TTL()}, nil
}

// unknownUser spends one bcrypt comparison so the failure costs what a wrong
// password does.
func (s *UserService) unknownUser(ctx context.Context, password string) error {
	s.hasher.Verify(password, s.dummyHash)
	s.record(ctx, EventLoginFail, "warn", "Failed login for unknown user", nil)
	return invalidCredentials()
}

// ChangePassword replaces the password after verifying the current one.
func (s *UserService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return apperr.Auth("old password incorrect")
	}
	if err := s.validator.Password(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}

	n, err := s.repo.UpdatePassword(ctx, id, hash, s.now().UTC())
	if err != nil {
		return apperr.Storage("failed to update password", err)
	}
	if n == 0 {
		return apperr.Storage("password was not updated", nil)
	}

	s.record(ctx, EventPasswordChange, "info", "Password changed for "+user.Username, &user.ID)
	return nil
}

// GetUserByID returns an active user without its password hash.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return user.Stripped(), nil
}

// ListActiveUsers returns every active account, newest first.
func (s *UserService) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperr.Storage("failed to list users", err)
	}
	for i := range list {
		list[i] = list[i].Stripped()
	}
	return list, nil
}

// UsernameAvailable reports whether no active account holds username.
func (s *UserService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = s.sanitizer.SanitizeUsername(username)
	if err := s.validator.Username(username); err != nil {
		return false, err
	}
	taken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, apperr.Storage("failed to check username", err)
	}
	return !taken, nil
}

// EmailAvailable reports whether no active account holds email.
func (s *UserService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	email = s.sanitizer.SanitizeEmail(email)
	if err := s.validator.Email(email); err != nil {
		return false, err
	}
	taken, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, apperr.Storage("failed to check email", err)
	}
	return !taken, nil
}

// UpdateProfile changes the company name and email of an active user.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, companyName, email string) (models.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	companyName = strings.TrimSpace(s.sanitizer.Sanitize(companyName))
	email = s.sanitizer.SanitizeEmail(email)
	if err := s.validator.CompanyName(companyName); err != nil {
		return models.User{}, err
	}
	if err := s.validator.Email(email); err != nil {
		return models.User{}, err
	}

	if email != user.Email {
		taken, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return models.User{}, apperr.Storage("failed to check email", err)
		}
		if taken {
			return models.User{}, emailTaken(apperr.CodeValidation)
		}
	}

	now := s.now().UTC()
	n, err := s.repo.UpdateProfile(ctx, id, companyName, email, now)
	switch {
	case errors.Is(err, users.ErrDuplicateEmail):
		return models.User{}, emailTaken(apperr.CodeValidation)
	case err != nil:
		return models.User{}, apperr.Storage("failed to update profile", err)
	case n == 0:
		return models.User{}, apperr.Storage("profile was not updated", nil)
	}

	user.CompanyName = companyName
	user.Email = email
	user.UpdatedAt = now
	s.record(ctx, EventProfileUpdate, "info", "Profile updated for "+user.Username, &user.ID)
	return user.Stripped(), nil
}

// Deactivate soft-deletes the account. Its username and email become
// available again.
func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	n, err := s.repo.Deactivate(ctx, id, s.now().UTC())
	if err != nil {
		return apperr.Storage("failed to deactivate user", err)
	}
	if n == 0 {
		return userNotFound()
	}
	log.Info().Int64("user_id", id).Msg("User deactivated")
	s.record(ctx, EventDeactivate, "warn", "Account deactivated", &id)
	return nil
}

func (s *UserService) find(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, users.ErrNotFound) {
		return nil, userNotFound()
	}
	if err != nil {
		return nil, apperr.Storage("failed to look up user", err)
	}
	return user, nil
}

// record appends to the event log. Failures are logged and otherwise ignored.
func (s *UserService) record(ctx context.Context, eventType, level, message string, userID *int64) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(ctx, eventType, level, message, userID); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("Failed to record event")
	}
}

func invalidCredentials() error {
	e := apperr.Auth(msgInvalidCredentials)
	e.Code = apperr.CodeLogin
	return e
}

func usernameTaken() error {
	e := apperr.Validation(msgUsernameTaken).WithField("username", msgUsernameTaken)
	e.Code = apperr.CodeSignup
	return e
}

func emailTaken(code string) error {
	e := apperr.Validation(msgEmailTaken).WithField("email", msgEmailTaken)
	e.Code = code
	return e
}

func userNotFound() error {
	return apperr.NotFound(msgUserNotFound)
}
