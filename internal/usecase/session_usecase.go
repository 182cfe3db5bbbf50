package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/restoledger/internal/domain"
)

// SessionConfig configures the admin login gate.
type SessionConfig struct {
	AllowedEmails []string
	PasswordHash  string
	TTL           time.Duration
}

// SessionUseCase issues and checks operator sessions.
//
// It is a convenience gate for a small admin panel: one shared password hash
// and an email allow-list. It is not a user management system.
type SessionUseCase struct {
	issuer       TokenIssuer
	idGen        IDGenerator
	allowed      map[string]bool
	passwordHash []byte
	ttl          time.Duration
	recorder     Recorder
	now          func() time.Time
}

// NewSessionUseCase creates a new SessionUseCase.
func NewSessionUseCase(issuer TokenIssuer, idGen IDGenerator, cfg SessionConfig, recorder Recorder) *SessionUseCase {
	allowed := make(map[string]bool, len(cfg.AllowedEmails))
	for _, e := range cfg.AllowedEmails {
		if e = normalizeEmail(e); e != "" {
			allowed[e] = true
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &SessionUseCase{
		issuer:       issuer,
		idGen:        idGen,
		allowed:      allowed,
		passwordHash: []byte(cfg.PasswordHash),
		ttl:          ttl,
		recorder:     recorderOrNop(recorder),
		now:          time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks the credentials and returns a signed token for a new session.
func (uc *SessionUseCase) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	email = normalizeEmail(email)

	if err := uc.checkCredentials(email, password); err != nil {
		uc.recorder.ObserveLogin(false)
		return "", nil, err
	}

	now := uc.now().UTC()
	session := &domain.Session{
		ID:        uc.idGen.Generate(),
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now.Add(uc.ttl),
	}

	token, err := uc.issuer.Issue(session)
	if err != nil {
		uc.recorder.ObserveLogin(false)
		return "", nil, err
	}

	uc.recorder.ObserveLogin(true)
	return token, session, nil
}

func (uc *SessionUseCase) checkCredentials(email, password string) error {
	if len(uc.passwordHash) == 0 {
		return domain.ErrInvalidCredentials
	}
	// The hash is compared even for unknown emails so both paths cost the same.
	hashErr := bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(password))
	if !uc.allowed[email] || hashErr != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// Verify returns the session carried by token. Sessions of emails removed
// from the allow-list are rejected.
func (uc *SessionUseCase) Verify(ctx context.Context, token string) (*domain.Session, error) {
	session, err := uc.issuer.Verify(token)
	if err != nil {
		return nil, err
	}
	if session.Expired(uc.now()) {
		return nil, domain.ErrExpiredToken
	}
	if !uc.allowed[normalizeEmail(session.Email)] {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}
