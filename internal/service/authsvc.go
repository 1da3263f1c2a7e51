package service

import (
	"context"
	"strings"
	"time"

	"boostshop/internal/auth"
	"boostshop/internal/domain"
	"boostshop/internal/throttle"
)

// Characters rejected outright in submitted credentials, before anything
// downstream sees them.
const forbiddenCredentialChars = `"'=;`

type CredentialsStore interface {
	Load(ctx context.Context) ([]domain.Credential, error)
}

type LoginGuard interface {
	CheckBlocked(addr string, now time.Time) bool
	RecordFailedLogin(addr, username string, now time.Time) throttle.Outcome
	RecordSuccessfulLogin(addr, username string)
}

type AuthService struct {
	Credentials CredentialsStore
	Guard       LoginGuard
	Now         func() time.Time

	// Verify defaults to auth.VerifyCredential; swappable in tests.
	Verify func(stored, supplied string) (bool, error)
}

// Login runs the whole submission policy in order: forbidden-character check,
// captcha comparison, block gate, then credential lookup. The user list is
// read in full on every attempt.
func (s *AuthService) Login(ctx context.Context, ip, username, password, captcha, expectedCaptcha string) (domain.SessionUser, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	verify := auth.VerifyCredential
	if s.Verify != nil {
		verify = s.Verify
	}

	if strings.ContainsAny(username, forbiddenCredentialChars) ||
		strings.ContainsAny(password, forbiddenCredentialChars) {
		return domain.SessionUser{}, domain.ErrForbiddenCharacter
	}

	if !auth.MatchesChallenge(expectedCaptcha, captcha) {
		return domain.SessionUser{}, domain.ErrCaptchaMismatch
	}

	if s.Guard.CheckBlocked(ip, now()) {
		return domain.SessionUser{}, domain.ErrBlocked
	}

	users, err := s.Credentials.Load(ctx)
	if err != nil {
		return domain.SessionUser{}, err
	}

	for _, u := range users {
		if u.Username != username {
			continue
		}
		ok, err := verify(u.Password, password)
		if err != nil {
			return domain.SessionUser{}, err
		}
		if ok {
			s.Guard.RecordSuccessfulLogin(ip, username)
			return domain.SessionUser{
				Username:   u.Username,
				GivenName:  u.GivenName,
				FamilyName: u.FamilyName,
				Role:       u.Role,
			}, nil
		}
	}

	if s.Guard.RecordFailedLogin(ip, username, now()) == throttle.OutcomeBlocked {
		return domain.SessionUser{}, domain.ErrTooManyAttempts
	}
	return domain.SessionUser{}, domain.ErrInvalidCredentials
}
