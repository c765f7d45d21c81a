package auth

import (
	"time"

	"github.com/gorilla/securecookie"
)

// Nonces issues and verifies signed, expiring tokens bound to an action,
// a user and a post.
type Nonces struct {
	codec *securecookie.SecureCookie
}

// NewNonces creates a nonce codec signing with secret. Tokens older than ttl
// no longer verify.
func NewNonces(secret []byte, ttl time.Duration) *Nonces {
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	codec := securecookie.New(secret, nil)
	codec.MaxAge(int(ttl / time.Second))
	codec.SetSerializer(securecookie.JSONEncoder{})
	return &Nonces{codec: codec}
}

type nonceClaims struct {
	UserID int64 `json:"u"`
	PostID int64 `json:"p"`
}

// Create returns a token for action by userID on postID.
func (n *Nonces) Create(action string, userID, postID int64) (string, error) {
	return n.codec.Encode(action, nonceClaims{UserID: userID, PostID: postID})
}

// Verify reports whether token was created for the same action, user and post
// and has not expired.
func (n *Nonces) Verify(token, action string, userID, postID int64) bool {
	if token == "" {
		return false
	}
	var claims nonceClaims
	if err := n.codec.Decode(action, token, &claims); err != nil {
		return false
	}
	return claims.UserID == userID && claims.PostID == postID
}
