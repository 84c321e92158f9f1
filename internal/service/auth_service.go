package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService handles credential validation and user registration
type AuthService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store, eventPublisher *broker.EventPublisher) *AuthService {
	return &AuthService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CredentialStatus distinguishes an unknown user from a wrong password
type CredentialStatus struct {
	Exists bool
	Valid  bool
}

// CheckCredentials looks the user up and compares the supplied password
// against the stored bcrypt hash. An unknown username is a valid outcome,
// not an error.
func (s *AuthService) CheckCredentials(ctx context.Context, username, password string) (CredentialStatus, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.CheckCredentials")
	defer span.End()

	util.LoginAttemptsTotal.Inc()

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.LoginFailuresTotal.WithLabelValues("unknown_user").Inc()
			return CredentialStatus{Exists: false, Valid: false}, nil
		}
		return CredentialStatus{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.LoginFailuresTotal.WithLabelValues("wrong_password").Inc()
		return CredentialStatus{Exists: true, Valid: false}, nil
	}

	return CredentialStatus{Exists: true, Valid: true}, nil
}

// RegisterRequest carries the fields of a user creation request
type RegisterRequest struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates the request fields, rejects duplicates and creates the
// user with a bcrypt password hash. Validation failures are *Error values
// whose messages are surfaced verbatim to the client.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if err := validateFields(username, email, req.Password, req.ConfirmPassword); err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			util.RegistrationsRejectedTotal.WithLabelValues(rejectReason(svcErr)).Inc()
		}
		return err
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		util.RegistrationsRejectedTotal.WithLabelValues("duplicate_username").Inc()
		return ErrDuplicateUsername
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		util.RegistrationsRejectedTotal.WithLabelValues("duplicate_email").Inc()
		return ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return err
	}

	util.UsersRegisteredTotal.Inc()
	s.logger.Info("User registered", zap.String("username", username))

	event := &models.UserRegisteredEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeUserRegistered,
			Timestamp: time.Now(),
		},
		Username: username,
		Email:    email,
	}
	if err := s.eventPublisher.PublishUserRegistered(ctx, event); err != nil {
		s.logger.Error("Failed to publish UserRegistered event", zap.Error(err))
	}

	return nil
}

func validateFields(username, email, password, confirmPassword string) error {
	if username == "" || email == "" || password == "" || confirmPassword == "" {
		return ErrMissingFields
	}
	if password != confirmPassword {
		return ErrPasswordMismatch
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if !isStrongPassword(password) {
		return ErrWeakPassword
	}
	return nil
}

// isStrongPassword requires at least 8 characters with an upper-case letter,
// a lower-case letter, a digit and a special character.
func isStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}

func rejectReason(err *Error) string {
	switch err {
	case ErrMissingFields:
		return "missing_fields"
	case ErrPasswordMismatch:
		return "password_mismatch"
	case ErrInvalidEmail:
		return "invalid_email"
	case ErrWeakPassword:
		return "weak_password"
	default:
		return "other"
	}
}
