package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trippio/trippio-api/internal/domain"
	clockport "github.com/trippio/trippio-api/internal/ports/out/clock"
)

// ErrInvalid indicates a token that failed verification for any reason
// (signature, expiry, issuer, scope, malformed claims). Callers must not
// distinguish further; the reasons are deliberately collapsed.
var ErrInvalid = errors.New("invalid token")

const (
	scopeAccess = "access"
	scopeShare  = "share"

	// Leeway absorbs clock drift between issuing and verifying hosts.
	leeway = 30 * time.Second
)

// Grant is the verified content of a bearer token: either a user identity or
// a trip-scoped share grant. The two are distinct claim shapes and can never
// be confused for one another.
type Grant interface{ isGrant() }

// UserGrant is the result of verifying a user access token.
type UserGrant struct {
	UserID domain.UserID
	Email  string
}

// ShareGrant is the result of verifying a share access token. It is scoped to
// exactly one trip and one role and has no refresh mechanism. LinkID ties the
// grant back to the issuing share link so revocation is checked per request.
type ShareGrant struct {
	TripID domain.TripID
	Role   domain.Role
	LinkID domain.ShareLinkID
}

func (UserGrant) isGrant()  {}
func (ShareGrant) isGrant() {}

// Service mints and verifies HS256 bearer tokens.
type Service struct {
	secret []byte
	issuer string
	clk    clockport.Clock
}

func NewService(secret []byte, issuer string, clk clockport.Clock) *Service {
	return &Service{secret: secret, issuer: issuer, clk: clk}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Scope  string `json:"scope"`
	Email  string `json:"email,omitempty"`
	TripID string `json:"tripId,omitempty"`
	Role   string `json:"role,omitempty"`
	LinkID string `json:"linkId,omitempty"`
}

// MintAccessToken issues a short-lived user access token.
func (s *Service) MintAccessToken(u domain.User, ttl time.Duration) (string, error) {
	now := s.clk.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   string(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: scopeAccess,
		Email: u.Email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// MintShareToken issues a bearer token scoped to one trip and one role.
func (s *Service) MintShareToken(tripID domain.TripID, role domain.Role, linkID domain.ShareLinkID, ttl time.Duration) (string, error) {
	now := s.clk.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope:  scopeShare,
		TripID: string(tripID),
		Role:   string(role),
		LinkID: string(linkID),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, issuer, and time claims, then returns the grant the
// token carries.
func (s *Service) Verify(raw string) (Grant, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(s.clk.Now),
	)
	if err != nil {
		return nil, ErrInvalid
	}

	switch claims.Scope {
	case scopeAccess:
		if claims.Subject == "" {
			return nil, ErrInvalid
		}
		return UserGrant{UserID: domain.UserID(claims.Subject), Email: claims.Email}, nil
	case scopeShare:
		role := domain.Role(claims.Role)
		if claims.TripID == "" || claims.LinkID == "" || !domain.ValidShareRole(role) {
			return nil, ErrInvalid
		}
		return ShareGrant{
			TripID: domain.TripID(claims.TripID),
			Role:   role,
			LinkID: domain.ShareLinkID(claims.LinkID),
		}, nil
	default:
		return nil, ErrInvalid
	}
}
