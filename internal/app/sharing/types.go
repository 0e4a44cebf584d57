package sharing

import "github.com/trippio/trippio-api/internal/domain"

// ShareLinkCreated is the result of minting a share link. URL embeds the
// plaintext token; the link record holds only the hash.
type ShareLinkCreated struct {
	URL  string
	Link domain.ShareLink
}

// Resolution is the outcome of resolving a share token. Exactly one of the
// three outcomes holds:
//   - viewer link: ShareAccessToken is set (Role == viewer)
//   - editor link, unauthenticated caller: RequiresAuth
//   - editor link, authenticated caller: Claimed (collaboration attached)
type Resolution struct {
	TripID domain.TripID
	Role   domain.Role

	ShareAccessToken string
	RequiresAuth     bool
	Claimed          bool
}
