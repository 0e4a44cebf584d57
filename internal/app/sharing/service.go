package sharing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trippio/trippio-api/internal/domain"
	"github.com/trippio/trippio-api/internal/platform/securetoken"
	"github.com/trippio/trippio-api/internal/platform/token"
	clockport "github.com/trippio/trippio-api/internal/ports/out/clock"
	"github.com/trippio/trippio-api/internal/ports/out/triprepo"
	"github.com/trippio/trippio-api/internal/ports/out/userrepo"
)

// Config carries share-link timing and URL-building settings.
type Config struct {
	// ShareTokenTTL bounds minted share access tokens. A link's own expiry
	// caps it further when sooner.
	ShareTokenTTL time.Duration

	// AppBaseURL is the client origin share URLs point at.
	AppBaseURL string
}

type Service struct {
	trips  triprepo.Repository
	users  userrepo.Repository
	clk    clockport.Clock
	signer *token.Service
	cfg    Config

	newLinkID   func() domain.ShareLinkID
	newRawToken func() (string, error)
}

func NewService(trips triprepo.Repository, users userrepo.Repository, signer *token.Service, clk clockport.Clock, cfg Config) *Service {
	return &Service{
		trips:  trips,
		users:  users,
		clk:    clk,
		signer: signer,
		cfg:    cfg,
		newLinkID: func() domain.ShareLinkID {
			return domain.ShareLinkID(uuid.NewString())
		},
		newRawToken: securetoken.New,
	}
}

// SetNewLinkIDForTest overrides link ID generation for deterministic tests.
func (s *Service) SetNewLinkIDForTest(fn func() domain.ShareLinkID) {
	if fn != nil {
		s.newLinkID = fn
	}
}

// SetNewRawTokenForTest overrides opaque token generation for deterministic tests.
func (s *Service) SetNewRawTokenForTest(fn func() (string, error)) {
	if fn != nil {
		s.newRawToken = fn
	}
}

// CreateShareLink mints a link granting the requested role. Owner-only.
func (s *Service) CreateShareLink(ctx context.Context, caller domain.UserID, tripID domain.TripID, role domain.Role, expiresInDays *int) (ShareLinkCreated, error) {
	if err := s.requireOwner(ctx, caller, tripID); err != nil {
		return ShareLinkCreated{}, err
	}
	if !domain.ValidShareRole(role) {
		return ShareLinkCreated{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid role",
			Details: map[string]any{"role": "must be editor or viewer"},
		}
	}

	raw, err := s.newRawToken()
	if err != nil {
		return ShareLinkCreated{}, err
	}
	now := s.clk.Now()
	l := domain.ShareLink{
		ID:        s.newLinkID(),
		TripID:    tripID,
		Role:      role,
		TokenHash: securetoken.Hash(raw),
		CreatedAt: now,
	}
	if expiresInDays != nil {
		if *expiresInDays <= 0 {
			return ShareLinkCreated{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "invalid expiresInDays",
				Details: map[string]any{"expiresInDays": "must be positive"},
			}
		}
		exp := now.Add(time.Duration(*expiresInDays) * 24 * time.Hour)
		l.ExpiresAt = &exp
	}
	if err := s.trips.CreateShareLink(ctx, l); err != nil {
		return ShareLinkCreated{}, err
	}

	url := fmt.Sprintf("%s/share/%s", strings.TrimRight(s.cfg.AppBaseURL, "/"), raw)
	return ShareLinkCreated{URL: url, Link: l}, nil
}

// ListShareLinks returns the trip's links, active and revoked. Owner-only.
func (s *Service) ListShareLinks(ctx context.Context, caller domain.UserID, tripID domain.TripID) ([]domain.ShareLink, error) {
	if err := s.requireOwner(ctx, caller, tripID); err != nil {
		return nil, err
	}
	return s.trips.ListShareLinks(ctx, tripID)
}

// RevokeShareLink revokes a link. Owner-only. Revoking an already-revoked or
// unknown link succeeds: the access it named no longer exists either way.
func (s *Service) RevokeShareLink(ctx context.Context, caller domain.UserID, tripID domain.TripID, linkID domain.ShareLinkID) error {
	if err := s.requireOwner(ctx, caller, tripID); err != nil {
		return err
	}
	err := s.trips.RevokeShareLink(ctx, tripID, linkID, s.clk.Now())
	if errors.Is(err, triprepo.ErrShareLinkNotFound) {
		return nil
	}
	return err
}

// ListCollaborators returns the trip's collaborators. Owner-only.
func (s *Service) ListCollaborators(ctx context.Context, caller domain.UserID, tripID domain.TripID) ([]domain.Collaborator, error) {
	if err := s.requireOwner(ctx, caller, tripID); err != nil {
		return nil, err
	}
	return s.trips.ListCollaborators(ctx, tripID)
}

// UpdateCollaboratorRole switches a collaborator between editor and viewer.
// Owner-only; the owner role itself is immutable.
func (s *Service) UpdateCollaboratorRole(ctx context.Context, caller domain.UserID, tripID domain.TripID, target domain.UserID, role domain.Role) (domain.Collaborator, error) {
	if err := s.requireOwner(ctx, caller, tripID); err != nil {
		return domain.Collaborator{}, err
	}
	if !domain.ValidShareRole(role) {
		return domain.Collaborator{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid role",
			Details: map[string]any{"role": "must be editor or viewer"},
		}
	}

	c, err := s.trips.GetCollaborator(ctx, tripID, target)
	if err != nil {
		if errors.Is(err, triprepo.ErrCollaboratorNotFound) {
			return domain.Collaborator{}, errCollaboratorNotFound()
		}
		return domain.Collaborator{}, err
	}
	if c.Role == domain.RoleOwner {
		return domain.Collaborator{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "the owner role cannot be changed",
		}
	}
	if err := s.trips.UpdateCollaboratorRole(ctx, tripID, target, role); err != nil {
		return domain.Collaborator{}, err
	}
	c.Role = role
	return c, nil
}

// RemoveCollaborator removes a collaborator. Owner-only; the owner cannot be
// removed. Removing an already-absent collaborator succeeds.
func (s *Service) RemoveCollaborator(ctx context.Context, caller domain.UserID, tripID domain.TripID, target domain.UserID) error {
	if err := s.requireOwner(ctx, caller, tripID); err != nil {
		return err
	}

	c, err := s.trips.GetCollaborator(ctx, tripID, target)
	if err != nil {
		if errors.Is(err, triprepo.ErrCollaboratorNotFound) {
			return nil
		}
		return err
	}
	if c.Role == domain.RoleOwner {
		return &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "the trip owner cannot be removed",
		}
	}
	err = s.trips.RemoveCollaborator(ctx, tripID, target)
	if errors.Is(err, triprepo.ErrCollaboratorNotFound) {
		return nil
	}
	return err
}

// Resolve exchanges a plaintext share token for an outcome (see Resolution).
// authed is the caller's user identity when the request carried a valid user
// bearer; nil otherwise. Revoked, expired, and unknown tokens are collapsed
// into one classification.
func (s *Service) Resolve(ctx context.Context, rawToken string, authed *domain.UserID) (Resolution, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return Resolution{}, errShareLinkInvalid()
	}

	now := s.clk.Now()
	l, err := s.trips.GetShareLinkByTokenHash(ctx, securetoken.Hash(rawToken))
	if err != nil {
		if errors.Is(err, triprepo.ErrShareLinkNotFound) {
			return Resolution{}, errShareLinkInvalid()
		}
		return Resolution{}, err
	}
	if !l.Usable(now) {
		return Resolution{}, errShareLinkInvalid()
	}

	switch l.Role {
	case domain.RoleViewer:
		ttl := s.cfg.ShareTokenTTL
		if l.ExpiresAt != nil {
			if remaining := l.ExpiresAt.Sub(now); remaining < ttl {
				ttl = remaining
			}
		}
		shareToken, err := s.signer.MintShareToken(l.TripID, l.Role, l.ID, ttl)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{TripID: l.TripID, Role: l.Role, ShareAccessToken: shareToken}, nil

	case domain.RoleEditor:
		if authed == nil {
			return Resolution{TripID: l.TripID, Role: l.Role, RequiresAuth: true}, nil
		}
		if err := s.claimEditor(ctx, l.TripID, *authed, now); err != nil {
			return Resolution{}, err
		}
		return Resolution{TripID: l.TripID, Role: l.Role, Claimed: true}, nil

	default:
		return Resolution{}, errShareLinkInvalid()
	}
}

// claimEditor attaches the user to the trip as an editor. Idempotent: an
// existing owner or editor keeps their role; an existing viewer is upgraded.
func (s *Service) claimEditor(ctx context.Context, tripID domain.TripID, userID domain.UserID, now time.Time) error {
	c, err := s.trips.GetCollaborator(ctx, tripID, userID)
	if err == nil {
		if c.Role == domain.RoleViewer {
			return s.trips.UpdateCollaboratorRole(ctx, tripID, userID, domain.RoleEditor)
		}
		return nil
	}
	if !errors.Is(err, triprepo.ErrCollaboratorNotFound) {
		return err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	err = s.trips.AddCollaborator(ctx, domain.Collaborator{
		TripID:  tripID,
		UserID:  userID,
		Email:   u.Email,
		Role:    domain.RoleEditor,
		AddedAt: now,
	})
	if errors.Is(err, triprepo.ErrCollaboratorExists) {
		return nil
	}
	return err
}

func (s *Service) requireOwner(ctx context.Context, caller domain.UserID, tripID domain.TripID) error {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return err
	}
	c, err := s.trips.GetCollaborator(ctx, tripID, caller)
	if err != nil {
		if errors.Is(err, triprepo.ErrCollaboratorNotFound) {
			return errNotOwner()
		}
		return err
	}
	if c.Role != domain.RoleOwner {
		return errNotOwner()
	}
	return nil
}

func errNotOwner() *Error {
	return &Error{
		Status:  403,
		Code:    "NOT_TRIP_OWNER",
		Message: "Only the trip owner can manage sharing.",
	}
}

func errShareLinkInvalid() *Error {
	return &Error{
		Status:  401,
		Code:    "SHARE_LINK_INVALID",
		Message: "This share link has expired or been revoked.",
	}
}

func errCollaboratorNotFound() *Error {
	return &Error{
		Status:  404,
		Code:    "COLLABORATOR_NOT_FOUND",
		Message: "collaborator not found",
	}
}
