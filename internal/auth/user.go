package auth

import "strings"

// CapEditPost is the capability to edit posts.
const CapEditPost = "edit_post"

// User is the acting user of a request.
type User struct {
	ID           int64
	ExternalID   string
	DisplayName  string
	Capabilities map[string]bool
	// Posts scopes the edit grant; nil means every post.
	Posts map[int64]bool
}

// NewUser creates a user holding the given capabilities.
func NewUser(id int64, displayName string, caps ...string) User {
	u := User{ID: id, DisplayName: displayName, Capabilities: make(map[string]bool, len(caps))}
	for _, c := range caps {
		if c = strings.TrimSpace(c); c != "" {
			u.Capabilities[c] = true
		}
	}
	return u
}

// Can reports whether the user holds capability.
func (u User) Can(capability string) bool {
	return u.Capabilities[capability]
}

// WithPosts returns a copy of u whose edit grant covers only postIDs.
func (u User) WithPosts(postIDs ...int64) User {
	u.Posts = make(map[int64]bool, len(postIDs))
	for _, id := range postIDs {
		u.Posts[id] = true
	}
	return u
}

// CanEdit reports whether the user may edit the post with postID.
func (u User) CanEdit(postID int64) bool {
	if !u.Can(CapEditPost) {
		return false
	}
	return u.Posts == nil || u.Posts[postID]
}

// ParseCapabilities splits a comma separated capability list.
func ParseCapabilities(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
