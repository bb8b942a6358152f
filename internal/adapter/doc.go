// Package adapter provides the transport layer for communicating with the
// hosted collection backend.
//
// The primary abstraction is [CollectionGateway], which decouples the rest
// of the client from the backend's REST protocol. The package ships an
// HTTP implementation ([NewHTTPGateway]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrPermission] for 403, [ErrNotFound] for 404).
// The gateway never swallows errors: it classifies and rethrows.
package adapter
