package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/trippio/trippio-api/internal/domain"
	platformclock "github.com/trippio/trippio-api/internal/platform/clock"
	"github.com/trippio/trippio-api/internal/platform/token"
)

// Dev-only bearer token minter.
//
// Mints HS256 tokens signed with the same TOKEN_SECRET the API uses, so local
// curl sessions can skip the magic-link dance:
//
//	devtoken -user <uuid> -email dev@example.com
//	devtoken -share-trip <uuid> -share-role viewer -share-link <uuid>
func main() {
	var (
		userID    = flag.String("user", "", "mint a user access token for this user id")
		email     = flag.String("email", "dev@example.com", "email claim for user tokens")
		shareTrip = flag.String("share-trip", "", "mint a share token scoped to this trip id")
		shareRole = flag.String("share-role", "viewer", "role for share tokens (viewer|editor)")
		shareLink = flag.String("share-link", "", "issuing share link id for share tokens")
		ttl       = flag.Duration("ttl", 30*time.Minute, "token lifetime")
	)
	flag.Parse()

	secret := strings.TrimSpace(os.Getenv("TOKEN_SECRET"))
	if secret == "" {
		log.Fatal("TOKEN_SECRET is required")
	}
	issuer := os.Getenv("TOKEN_ISSUER")
	if issuer == "" {
		issuer = "trippio-api"
	}

	signer := token.NewService([]byte(secret), issuer, platformclock.NewSystemClock())

	switch {
	case *userID != "":
		raw, err := signer.MintAccessToken(domain.User{
			ID:    domain.UserID(*userID),
			Email: *email,
		}, *ttl)
		if err != nil {
			log.Fatalf("mint access token: %v", err)
		}
		fmt.Println(raw)
	case *shareTrip != "":
		if *shareLink == "" {
			log.Fatal("-share-link is required with -share-trip")
		}
		role := domain.Role(*shareRole)
		if !domain.ValidShareRole(role) {
			log.Fatalf("invalid share role %q", *shareRole)
		}
		raw, err := signer.MintShareToken(domain.TripID(*shareTrip), role, domain.ShareLinkID(*shareLink), *ttl)
		if err != nil {
			log.Fatalf("mint share token: %v", err)
		}
		fmt.Println(raw)
	default:
		flag.Usage()
		os.Exit(2)
	}
}
