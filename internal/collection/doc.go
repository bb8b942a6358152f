// Package collection implements the synchronized collection client: one
// consistent, ordered view of a remotely stored collection assembled from
// an initial fetch, live change events, and locally initiated optimistic
// mutations.
//
// Every list surface (full archive, year view, admin dashboard) consumes
// the same [Client] so merge semantics exist exactly once. The view is
// strictly descending by date; records sharing a date keep their relative
// insertion order.
//
// Concurrency: the five mutation entry points (Initialize, Refresh,
// CreateItem, DeleteItem and the live-event callback) are serialized
// behind one mutex per Client instance. Suspension happens only at
// gateway calls; an in-memory merge always runs to completion before the
// next queued operation.
package collection
