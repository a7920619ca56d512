package identity

import (
	"context"
	"errors"
	"fmt"

	"support-directory/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type service struct {
	users    UserStore
	sessions SessionStore
	tokens   *TokenIssuer
	log      *zap.Logger
}

func NewService(users UserStore, sessions SessionStore, tokens *TokenIssuer, log *zap.Logger) Provider {
	return &service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		log:      log.With(zap.String("service", "identity")),
	}
}

func (s *service) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	hash, err := utils.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, params.Email, hash, params.Metadata)
	if err != nil {
		return nil, err
	}

	s.log.Info("Identity created", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *service) UpdateUserByID(ctx context.Context, id uuid.UUID, attrs UserAttributes) (*User, error) {
	var hash *string
	if attrs.Password != nil {
		h, err := utils.HashPassword(*attrs.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = &h
	}

	if attrs.Email == nil && hash == nil && len(attrs.Metadata) == 0 {
		return s.users.FindByID(ctx, id)
	}
	return s.users.Update(ctx, id, attrs.Email, hash, attrs.Metadata)
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("Identity deleted", zap.String("user_id", id.String()))
	return nil
}

func (s *service) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	user, hash, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPasswordHash(password, hash) {
		return nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.users.TouchSignIn(ctx, user.ID); err != nil {
		s.log.Warn("Failed to record sign in",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
	}

	return session, nil
}

func (s *service) openSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	sessionID := uuid.NewString()

	token, expiresAt, err := s.tokens.Issue(sessionID, userID)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        sessionID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SignOut revokes the session behind token. An unknown or expired token is
// already signed out.
func (s *service) SignOut(ctx context.Context, token string) error {
	sessionID, _, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *service) GetSession(ctx context.Context, token string) (*Session, error) {
	sessionID, userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}

	session.Token = token
	return session, nil
}

// RefreshSession replaces the session behind token with a fresh one.
func (s *service) RefreshSession(ctx context.Context, token string) (*Session, error) {
	current, err := s.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	next, err := s.openSession(ctx, current.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Delete(ctx, current.ID); err != nil {
		s.log.Warn("Failed to revoke rotated session",
			zap.Error(err),
			zap.String("session_id", current.ID),
		)
	}
	return next, nil
}

func (s *service) LookupEmailByUsername(ctx context.Context, username string) (string, error) {
	return s.users.EmailByUsername(ctx, username)
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user, _, err := s.users.FindByEmail(ctx, email)
	return user, err
}
