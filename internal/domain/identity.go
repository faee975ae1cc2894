package domain

// Identity models the caller of a public calendar endpoint: either an
// identified user or an anonymous visitor. Using an explicit variant type
// instead of a nullable user ID keeps the two code paths in the door gate
// (idempotent lookup vs. always-insert) visible at the call site.
type Identity struct {
	userID string
}

// IdentifiedUser returns an Identity for the given user ID.
func IdentifiedUser(userID string) Identity {
	return Identity{userID: userID}
}

// Anonymous returns the anonymous Identity.
func Anonymous() Identity {
	return Identity{}
}

// UserID returns the caller's user ID and true when identified.
func (i Identity) UserID() (string, bool) {
	if i.userID == "" {
		return "", false
	}
	return i.userID, true
}

// IsAnonymous reports whether the caller has no stable identity.
func (i Identity) IsAnonymous() bool {
	return i.userID == ""
}

// Owns reports whether the identified caller is the calendar's owner.
// Always false for anonymous callers.
func (i Identity) Owns(c *Calendar) bool {
	return i.userID != "" && i.userID == c.OwnerID
}
