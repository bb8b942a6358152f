// Package service wires the client's building blocks (session store,
// per-collection synchronized clients, contact submission and the
// background refresh job) into one aggregate the application and TUI
// consume.
package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/chapelworks/mediasync/internal/adapter"
	"github.com/chapelworks/mediasync/internal/collection"
	"github.com/chapelworks/mediasync/internal/logger"
	"github.com/chapelworks/mediasync/internal/realtime"
	"github.com/chapelworks/mediasync/internal/session"
	"github.com/chapelworks/mediasync/internal/store"
	"github.com/chapelworks/mediasync/models"
)

// ClientServices aggregates every long-lived client component. One
// instance per process; construct with [NewClientServices].
type ClientServices struct {
	Session  *session.Store
	Sermons  *collection.Client
	Events   *collection.Client
	Gallery  *collection.Client
	Contacts *ContactService

	RefreshJob *RefreshJob

	gateway adapter.CollectionGateway
	cache   store.SnapshotCache
	logger  *logger.Logger
}

// NewClientServices builds the service aggregate over the given transport
// and persistence. The refresh job is created but idle until Start.
func NewClientServices(
	gateway adapter.CollectionGateway,
	channel realtime.Channel,
	persist session.CredentialStore,
	cache store.SnapshotCache,
	log *logger.Logger,
) *ClientServices {
	sess := session.NewStore(gateway, persist, log)

	sermons := collection.New("sermons", gateway, channel, []string{"preacher"}, log)
	events := collection.New("events", gateway, channel, nil, log)
	gallery := collection.New("gallery", gateway, channel, nil, log)

	svcs := &ClientServices{
		Session:  sess,
		Sermons:  sermons,
		Events:   events,
		Gallery:  gallery,
		Contacts: NewContactService(gateway),
		gateway:  gateway,
		cache:    cache,
		logger:   log,
	}
	svcs.RefreshJob = NewRefreshJob(svcs.Clients(), cache, log)

	// credential transitions change what the backend will return (admin
	// feeds differ from public ones), so every transition forces a full
	// re-fetch
	sess.Subscribe(func(models.Credential) {
		svcs.RefreshJob.Kick()
	})

	return svcs
}

// Clients returns all synchronized collection clients.
func (s *ClientServices) Clients() []*collection.Client {
	return []*collection.Client{s.Sermons, s.Events, s.Gallery}
}

// WarmFromCache seeds each client's view from the local snapshot cache.
// Failures are logged and ignored: the cache is an optimization.
func (s *ClientServices) WarmFromCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, client := range s.Clients() {
		records, err := s.cache.Load(ctx, client.Collection())
		if err != nil {
			s.logger.Warn().Err(err).Str("collection", client.Collection()).Msg("snapshot cache load failed")
			continue
		}
		client.Prime(records)
	}
}

// InitializeAll runs Initialize on every collection client and joins the
// failures. A failed collection keeps its primed/previous view.
func (s *ClientServices) InitializeAll(ctx context.Context) error {
	var errs []error
	for _, client := range s.Clients() {
		if err := client.Initialize(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IncrementDownload bumps a sermon's download counter via read-modify-
// write. Lost increments under concurrency are acceptable for a
// popularity counter.
func (s *ClientServices) IncrementDownload(ctx context.Context, sermonID string) error {
	record, err := s.gateway.GetOne(ctx, "sermons", sermonID)
	if err != nil {
		return err
	}

	_, err = s.gateway.Update(ctx, "sermons", sermonID, map[string]string{
		"download_count": strconv.Itoa(record.DownloadCount + 1),
	})
	return err
}

// FileURL resolves an attached file of a record to a retrievable URL.
func (s *ClientServices) FileURL(record models.Record, field string) (string, bool) {
	return s.gateway.FileURL(record, field)
}

// Close stops background work and releases the cache.
func (s *ClientServices) Close() {
	s.RefreshJob.Stop()
	for _, client := range s.Clients() {
		client.Close()
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("close snapshot cache failed")
		}
	}
}

