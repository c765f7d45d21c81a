package auth

import (
	"errors"
	"time"

	"github.com/gorilla/securecookie"
)

const identityName = "orbis_identity"

var ErrInvalidIdentity = errors.New("invalid identity token")

// Identity is the signed claim set the fronting CMS hands to the API.
// Posts, when set, limits the edit grant to those post ids.
type Identity struct {
	ExternalID   string   `json:"sub"`
	DisplayName  string   `json:"name,omitempty"`
	Capabilities []string `json:"caps,omitempty"`
	Posts        []int64  `json:"posts,omitempty"`
}

// IdentityVerifier decodes a bearer token into a verified Identity.
type IdentityVerifier interface {
	Verify(token string) (Identity, error)
}

// Identities signs and verifies identity tokens with a secret shared with
// the fronting CMS.
type Identities struct {
	codec *securecookie.SecureCookie
}

// NewIdentities creates an identity codec. Tokens older than ttl no longer
// verify. Without a secret a random key is used, so only tokens issued by
// this process verify.
func NewIdentities(secret []byte, ttl time.Duration) *Identities {
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	codec := securecookie.New(secret, nil)
	codec.MaxAge(int(ttl / time.Second))
	codec.SetSerializer(securecookie.JSONEncoder{})
	return &Identities{codec: codec}
}

// Issue signs id into a bearer token.
func (i *Identities) Issue(id Identity) (string, error) {
	if id.ExternalID == "" {
		return "", ErrInvalidIdentity
	}
	return i.codec.Encode(identityName, id)
}

// Verify checks the signature and age of token and returns its claims.
func (i *Identities) Verify(token string) (Identity, error) {
	var id Identity
	if token == "" {
		return id, ErrInvalidIdentity
	}
	if err := i.codec.Decode(identityName, token, &id); err != nil {
		return Identity{}, ErrInvalidIdentity
	}
	if id.ExternalID == "" {
		return Identity{}, ErrInvalidIdentity
	}
	return id, nil
}
