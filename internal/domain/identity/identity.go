// internal/domain/identity/identity.go
package identity

import "strings"

// Identity is the signal the auth provider hands to the storefront.
// A zero value is a guest.
type Identity struct {
	ID            string `json:"id"`
	Authenticated bool   `json:"authenticated"`
}

// Guest returns the anonymous identity.
func Guest() Identity { return Identity{} }

// User returns an authenticated identity for uid (guest if uid is blank).
func User(uid string) Identity {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return Guest()
	}
	return Identity{ID: uid, Authenticated: true}
}

// IsIdentified reports whether the identity carries a usable user id.
func (i Identity) IsIdentified() bool {
	return i.Authenticated && strings.TrimSpace(i.ID) != ""
}

// Same reports whether two identities select the same backend.
// Guests are all the same; users compare by id.
func (i Identity) Same(o Identity) bool {
	if !i.IsIdentified() && !o.IsIdentified() {
		return true
	}
	return i.IsIdentified() && o.IsIdentified() && strings.TrimSpace(i.ID) == strings.TrimSpace(o.ID)
}

// DocumentPath is the remote document that holds this user's collections.
func (i Identity) DocumentPath() string {
	if !i.IsIdentified() {
		return ""
	}
	return "users/" + strings.TrimSpace(i.ID)
}
