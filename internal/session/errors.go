package session

import "errors"

// ErrNoCredential is returned by a credential store Load when no entry has
// been persisted. Callers treat it as "not authenticated", never as fatal.
var ErrNoCredential = errors.New("no persisted credential")
