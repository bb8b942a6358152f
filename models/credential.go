package models

import "time"

// Identity is the authenticated account record returned by the backend
// together with a token. It is informational on the client: authorization
// decisions are made server-side and surface as permission errors.
type Identity struct {
	// ID is the account record identifier.
	ID string `json:"id"`

	// Email is the login identifier used for password authentication.
	Email string `json:"email,omitempty"`

	// Name is the optional display name.
	Name string `json:"name,omitempty"`

	// CollectionName names the auth collection the identity belongs to.
	// The backend marks elevated accounts with a dedicated collection.
	CollectionName string `json:"collectionName,omitempty"`
}

// Elevated reports whether the identity belongs to the backend's superuser
// collection. This is a display hint only (e.g. whether to render upload
// and delete controls); the backend independently enforces permissions on
// every mutating call.
func (i Identity) Elevated() bool {
	return i.CollectionName == "_superusers"
}

// Credential couples a bearer token with the identity it was issued for.
// It is owned exclusively by the session store: created by login or
// restore, replaced by refresh, destroyed by logout.
type Credential struct {
	// Token is the opaque bearer token attached to authenticated calls.
	Token string `json:"token"`

	// Identity is the account the token was issued for.
	Identity Identity `json:"identity"`

	// IssuedAt records when the credential was obtained or last refreshed.
	IssuedAt time.Time `json:"timestamp"`
}

// IsZero reports whether the credential carries no token.
func (c Credential) IsZero() bool {
	return c.Token == ""
}
