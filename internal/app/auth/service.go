package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trippio/trippio-api/internal/domain"
	"github.com/trippio/trippio-api/internal/platform/securetoken"
	"github.com/trippio/trippio-api/internal/platform/token"
	clockport "github.com/trippio/trippio-api/internal/ports/out/clock"
	"github.com/trippio/trippio-api/internal/ports/out/mailer"
	"github.com/trippio/trippio-api/internal/ports/out/tokenrepo"
	"github.com/trippio/trippio-api/internal/ports/out/userrepo"
)

// Config carries the auth service's timing and link-building settings.
type Config struct {
	MagicLinkTTL    time.Duration
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// AppBaseURL is the client origin that magic links point at.
	AppBaseURL string

	// ExposeMagicLink echoes the minted link in the RequestLink result.
	// Development/test convenience; production keeps delivery out of band.
	ExposeMagicLink bool
}

type Service struct {
	users  userrepo.Repository
	tokens tokenrepo.Repository
	mail   mailer.Mailer
	clk    clockport.Clock
	signer *token.Service
	cfg    Config

	newUserID   func() domain.UserID
	newRawToken func() (string, error)
}

func NewService(users userrepo.Repository, tokens tokenrepo.Repository, mail mailer.Mailer, signer *token.Service, clk clockport.Clock, cfg Config) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		mail:   mail,
		clk:    clk,
		signer: signer,
		cfg:    cfg,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
		newRawToken: securetoken.New,
	}
}

// SetNewUserIDForTest overrides user ID generation for deterministic tests.
func (s *Service) SetNewUserIDForTest(fn func() domain.UserID) {
	if fn != nil {
		s.newUserID = fn
	}
}

// SetNewRawTokenForTest overrides opaque token generation for deterministic tests.
func (s *Service) SetNewRawTokenForTest(fn func() (string, error)) {
	if fn != nil {
		s.newRawToken = fn
	}
}

// RequestLink mints a single-use login token for the address and hands the
// link to the mailer. The result reports success whether or not the address
// maps to an existing account; request-link never leaks account existence.
func (s *Service) RequestLink(ctx context.Context, email string) (RequestLinkResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return RequestLinkResult{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid email",
			Details: map[string]any{"email": "must be non-empty"},
		}
	}
	if err := validateEmail(email); err != nil {
		return RequestLinkResult{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid email",
			Details: map[string]any{"email": err.Error()},
		}
	}

	raw, err := s.newRawToken()
	if err != nil {
		return RequestLinkResult{}, err
	}
	now := s.clk.Now()
	rec := tokenrepo.LoginToken{
		TokenHash: securetoken.Hash(raw),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.MagicLinkTTL),
	}
	if err := s.tokens.CreateLoginToken(ctx, rec); err != nil {
		return RequestLinkResult{}, err
	}

	link := fmt.Sprintf("%s/auth/verify?token=%s",
		strings.TrimRight(s.cfg.AppBaseURL, "/"), url.QueryEscape(raw))
	if err := s.mail.SendMagicLink(ctx, email, link); err != nil {
		return RequestLinkResult{}, err
	}

	out := RequestLinkResult{OK: true}
	if s.cfg.ExposeMagicLink {
		out.MagicLink = link
	}
	return out, nil
}

// Verify exchanges a single-use login token for a session. The first verified
// login for an email address provisions the user record.
//
// Expired, already-used, and unknown tokens are deliberately indistinguishable
// to the caller.
func (s *Service) Verify(ctx context.Context, rawToken string) (Session, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return Session{}, errLoginTokenInvalid()
	}

	now := s.clk.Now()
	rec, err := s.tokens.GetLoginToken(ctx, securetoken.Hash(rawToken))
	if err != nil {
		if errors.Is(err, tokenrepo.ErrNotFound) {
			return Session{}, errLoginTokenInvalid()
		}
		return Session{}, err
	}
	if rec.UsedAt != nil || now.After(rec.ExpiresAt) {
		return Session{}, errLoginTokenInvalid()
	}
	if err := s.tokens.MarkLoginTokenUsed(ctx, rec.TokenHash, now); err != nil {
		return Session{}, err
	}

	u, err := s.users.GetByEmail(ctx, rec.Email)
	if err != nil {
		if !errors.Is(err, userrepo.ErrNotFound) {
			return Session{}, err
		}
		u = domain.User{
			ID:        s.newUserID(),
			Email:     rec.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return Session{}, err
		}
	}

	return s.issueSession(ctx, u, now)
}

// Refresh rotates the refresh credential and issues a fresh access token.
// Any failure means "no valid session": callers translate it into a hard
// logout, never a partial state.
func (s *Service) Refresh(ctx context.Context, rawRefresh string) (Session, error) {
	if strings.TrimSpace(rawRefresh) == "" {
		return Session{}, errRefreshInvalid()
	}

	now := s.clk.Now()
	rec, err := s.tokens.GetRefreshToken(ctx, securetoken.Hash(rawRefresh))
	if err != nil {
		if errors.Is(err, tokenrepo.ErrNotFound) {
			return Session{}, errRefreshInvalid()
		}
		return Session{}, err
	}
	if rec.RevokedAt != nil || now.After(rec.ExpiresAt) {
		return Session{}, errRefreshInvalid()
	}

	u, err := s.users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return Session{}, errRefreshInvalid()
		}
		return Session{}, err
	}

	// Rotation: the superseded credential dies with the exchange.
	if err := s.tokens.RevokeRefreshToken(ctx, rec.TokenHash, now); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, u, now)
}

// Logout revokes the refresh credential. Unknown tokens are a no-op: the
// intent ("this session should not exist") is already satisfied.
func (s *Service) Logout(ctx context.Context, rawRefresh string) error {
	if strings.TrimSpace(rawRefresh) == "" {
		return nil
	}
	err := s.tokens.RevokeRefreshToken(ctx, securetoken.Hash(rawRefresh), s.clk.Now())
	if errors.Is(err, tokenrepo.ErrNotFound) {
		return nil
	}
	return err
}

func (s *Service) issueSession(ctx context.Context, u domain.User, now time.Time) (Session, error) {
	access, err := s.signer.MintAccessToken(u, s.cfg.AccessTokenTTL)
	if err != nil {
		return Session{}, err
	}

	rawRefresh, err := s.newRawToken()
	if err != nil {
		return Session{}, err
	}
	expires := now.Add(s.cfg.RefreshTokenTTL)
	rec := tokenrepo.RefreshToken{
		TokenHash: securetoken.Hash(rawRefresh),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: expires,
	}
	if err := s.tokens.CreateRefreshToken(ctx, rec); err != nil {
		return Session{}, err
	}

	return Session{
		User:             u,
		AccessToken:      access,
		RefreshToken:     rawRefresh,
		RefreshExpiresAt: expires,
	}, nil
}

func errLoginTokenInvalid() *Error {
	return &Error{
		Status:  401,
		Code:    "LOGIN_TOKEN_INVALID",
		Message: "This login link is invalid, expired, or already used.",
	}
}

func errRefreshInvalid() *Error {
	return &Error{
		Status:  401,
		Code:    "REFRESH_INVALID",
		Message: "No valid session.",
	}
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return err
	}
	// Ensure no "Name <email@x>" format sneaks in.
	if addr.Address != email {
		return errors.New("must be a bare email address")
	}
	return nil
}
