package adapter

import (
	"context"

	"github.com/chapelworks/mediasync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/gateway_mock.go -package=mock

// CollectionGateway defines transport-agnostic access to the hosted
// collection backend. Implementations are responsible for serialisation,
// bearer-token header management, page exhaustion on listings, and mapping
// transport-level failures to the sentinel values defined in this package.
type CollectionGateway interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests. An empty token clears it.
	SetToken(token string)

	// Token returns the bearer token currently held by the gateway, or an
	// empty string if none has been set.
	Token() string

	// AuthWithPassword exchanges an identifier and secret for a bearer
	// token plus the identity it was issued for. On success the token is
	// stored via SetToken. Fails with [ErrAuth] on rejected credentials.
	AuthWithPassword(ctx context.Context, identifier, secret string) (models.AuthResponse, error)

	// AuthRefresh revalidates the currently held token against the
	// backend, returning a refreshed token and identity. Fails with
	// [ErrAuth] if the token is expired or revoked.
	AuthRefresh(ctx context.Context) (models.AuthResponse, error)

	// List returns all records of the collection matching filter, sorted
	// by ordering key descending. If the backend paginates, every page is
	// fetched before returning; the result is never silently truncated.
	List(ctx context.Context, collection string, filter models.ListFilter) ([]models.Record, error)

	// GetOne fetches a single record by id, joining the named relation
	// fields. Fails with [ErrNotFound] if the id does not exist.
	GetOne(ctx context.Context, collection, id string, expand ...string) (models.Record, error)

	// Create submits scalar fields plus attached files as one multipart
	// request and returns the server-confirmed record. Enforces the
	// configured cover-image ceiling before any bytes are sent.
	Create(ctx context.Context, collection string, payload models.CreatePayload) (models.Record, error)

	// Update patches the named scalar fields of an existing record and
	// returns the updated server version.
	Update(ctx context.Context, collection, id string, fields map[string]string) (models.Record, error)

	// Delete removes a record by id. Fails with [ErrPermission] when
	// unauthorized and [ErrNotFound] when the id does not exist.
	Delete(ctx context.Context, collection, id string) error

	// FileURL resolves the attached file stored under field to a
	// retrievable URL. Pure and synchronous; reports false if the record
	// has no file under that field.
	FileURL(record models.Record, field string) (string, bool)
}
