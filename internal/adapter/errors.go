package adapter

import "errors"

// Sentinel errors classifying every failure the gateway can surface.
// Callers match with [errors.Is]; the concrete message carries the
// backend's response body for diagnostics.
var (
	// ErrAuth indicates bad credentials or an expired/revoked session.
	// The user must re-authenticate.
	ErrAuth = errors.New("authentication failed")

	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("invalid request data")

	// ErrPermission indicates the credential is authenticated but not
	// authorized for the operation. Non-retriable.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates the referenced record id does not exist,
	// typically meaning the local view is stale.
	ErrNotFound = errors.New("record not found")

	// ErrPayloadTooLarge indicates an attached file exceeds a size limit,
	// either the client-side ceiling or the server's.
	ErrPayloadTooLarge = errors.New("attached file too large")

	// ErrFetch covers transport failures, timeouts and unclassified
	// server errors. Retriable at the caller's discretion.
	ErrFetch = errors.New("backend request failed")
)
