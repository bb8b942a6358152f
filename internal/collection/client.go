package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/chapelworks/mediasync/internal/adapter"
	"github.com/chapelworks/mediasync/internal/logger"
	"github.com/chapelworks/mediasync/internal/realtime"
	"github.com/chapelworks/mediasync/models"
)

// ItemState tracks where a record is in its optimistic-mutation lifecycle.
type ItemState int

const (
	// StateConfirmed marks a record the server has acknowledged.
	StateConfirmed ItemState = iota

	// StatePendingCreate marks a provisional record inserted optimistically
	// and not yet confirmed. It carries a client-generated temporary id.
	StatePendingCreate

	// StatePendingDelete marks a record hidden from the view while its
	// delete is in flight. It is restored on failure.
	StatePendingDelete
)

func (s ItemState) String() string {
	switch s {
	case StatePendingCreate:
		return "pending-create"
	case StatePendingDelete:
		return "pending-delete"
	default:
		return "confirmed"
	}
}

// Item is one tracked entry of the view: the record plus its lifecycle
// state. The dashboard uses the state to render pending markers; read-only
// projections use Records instead.
type Item struct {
	Record models.Record
	State  ItemState
}

// Client is a synchronized collection client for a single collection.
// Construct with [New]; all methods are safe for concurrent use.
type Client struct {
	collection string
	gateway    adapter.CollectionGateway
	channel    realtime.Channel
	expand     []string
	logger     *logger.Logger

	runCtx context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	items      []Item
	appliedGen uint64
	fetchSeq   uint64
	handle     realtime.Handle

	initMu   sync.Mutex
	initWait chan struct{}
	initErr  error

	updates chan struct{}
}

// New constructs a client for the named collection. expand lists relation
// fields joined on every fetch (e.g. "preacher" for sermons); pass nil for
// none. The client is inert until Initialize.
func New(collection string, gateway adapter.CollectionGateway, channel realtime.Channel, expand []string, log *logger.Logger) *Client {
	runCtx, cancel := context.WithCancel(context.Background())
	return &Client{
		collection: collection,
		gateway:    gateway,
		channel:    channel,
		expand:     expand,
		logger:     log,
		runCtx:     runCtx,
		cancel:     cancel,
		updates:    make(chan struct{}, 1),
	}
}

// Collection returns the collection name the client synchronizes.
func (c *Client) Collection() string {
	return c.collection
}

// Updates returns a channel that receives a signal after every visible
// change to the view. Signals are coalesced; consumers re-read the
// snapshot rather than counting them.
func (c *Client) Updates() <-chan struct{} {
	return c.updates
}

// Initialize fetches the full collection, replaces the view with the
// result, and opens the live update channel. Concurrent calls are
// coalesced: while one fetch is in flight, later callers attach to its
// result instead of issuing a duplicate request. On failure the previous
// view (possibly empty) is left intact and the error is returned.
func (c *Client) Initialize(ctx context.Context) error {
	c.initMu.Lock()
	if wait := c.initWait; wait != nil {
		c.initMu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
		c.initMu.Lock()
		err := c.initErr
		c.initMu.Unlock()
		return err
	}
	wait := make(chan struct{})
	c.initWait = wait
	c.initMu.Unlock()

	err := c.fetchAndReconcile(ctx)

	c.initMu.Lock()
	c.initErr = err
	c.initWait = nil
	close(wait)
	c.initMu.Unlock()

	if err != nil {
		return err
	}

	c.openChannelOnce()
	return nil
}

// Prime seeds the view with records from the local snapshot cache so a
// restarted client has something to render while the first fetch runs.
// It is a no-op once any fetch has been applied; cached data never
// overrides server data.
func (c *Client) Prime(records []models.Record) {
	c.mu.Lock()
	if c.appliedGen > 0 || len(c.items) > 0 {
		c.mu.Unlock()
		return
	}
	for _, record := range records {
		c.items = append(c.items, Item{Record: record, State: StateConfirmed})
	}
	c.sortLocked()
	c.mu.Unlock()

	c.signalUpdate()
}

// Refresh re-fetches the collection and reconciles the view: records
// present remotely but absent locally are inserted, confirmed records
// absent remotely are removed, and records present in both are replaced
// with the remote version; the server is authoritative for confirmed
// data. Pending optimistic entries are preserved. A response belonging to
// an older fetch than one already applied is discarded (last fetch wins).
func (c *Client) Refresh(ctx context.Context) error {
	return c.fetchAndReconcile(ctx)
}

func (c *Client) fetchAndReconcile(ctx context.Context) error {
	c.mu.Lock()
	c.fetchSeq++
	gen := c.fetchSeq
	c.mu.Unlock()

	remote, err := c.gateway.List(ctx, c.collection, models.ListFilter{Expand: c.expand})
	if err != nil {
		return fmt.Errorf("fetch %s: %w", c.collection, err)
	}

	c.mu.Lock()
	if gen <= c.appliedGen {
		// a newer fetch already landed; this result is stale
		c.mu.Unlock()
		return nil
	}
	c.appliedGen = gen
	c.reconcileLocked(remote)
	c.mu.Unlock()

	c.signalUpdate()
	return nil
}

// reconcileLocked rebuilds the view from the remote listing while keeping
// local optimistic state. Caller holds c.mu.
func (c *Client) reconcileLocked(remote []models.Record) {
	pendingCreates := make([]Item, 0, 2)
	pendingDeletes := make(map[string]Item)
	for _, item := range c.items {
		switch item.State {
		case StatePendingCreate:
			pendingCreates = append(pendingCreates, item)
		case StatePendingDelete:
			pendingDeletes[item.Record.ID] = item
		}
	}

	next := make([]Item, 0, len(remote)+len(pendingCreates))
	for _, record := range remote {
		if deleting, ok := pendingDeletes[record.ID]; ok {
			// still deleting; keep it hidden rather than resurrecting it
			next = append(next, deleting)
			continue
		}
		if idx := matchProvisional(pendingCreates, record); idx >= 0 {
			// the created record already shows up remotely; this fetch is
			// its confirmation
			pendingCreates = append(pendingCreates[:idx], pendingCreates[idx+1:]...)
		}
		next = append(next, Item{Record: record, State: StateConfirmed})
	}
	next = append(next, pendingCreates...)

	c.items = next
	c.sortLocked()
}

// CreateItem optimistically inserts a provisional record built from
// payload, then issues the create. The provisional record carries a
// temporary id and is replaced by the server-confirmed record (matched by
// temporary id, since the id changes) when either the response or the
// corresponding live insert event arrives, whichever is first; the later
// of the two is a no-op. On failure the provisional record is removed and
// the error surfaced unchanged: no silent retry.
func (c *Client) CreateItem(ctx context.Context, payload models.CreatePayload) (models.Record, error) {
	provisional, err := c.provisionalRecord(payload)
	if err != nil {
		return models.Record{}, err
	}

	c.mu.Lock()
	c.insertLocked(Item{Record: provisional, State: StatePendingCreate})
	c.mu.Unlock()
	c.signalUpdate()

	confirmed, err := c.gateway.Create(ctx, c.collection, payload)

	c.mu.Lock()
	idx := c.indexOfLocked(provisional.ID)
	if err != nil {
		if idx >= 0 {
			c.removeAtLocked(idx)
		}
		c.mu.Unlock()
		c.signalUpdate()
		return models.Record{}, fmt.Errorf("create in %s: %w", c.collection, err)
	}

	if idx >= 0 && c.items[idx].State == StatePendingCreate {
		c.items[idx] = Item{Record: confirmed, State: StateConfirmed}
		c.sortLocked()
	}
	// else: a live insert event confirmed it first; nothing to do
	c.mu.Unlock()

	c.signalUpdate()
	return confirmed, nil
}

func (c *Client) provisionalRecord(payload models.CreatePayload) (models.Record, error) {
	date, err := models.ParseDateTime(payload.Field("date"))
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: unparsable date %q", adapter.ErrValidation, payload.Field("date"))
	}

	record := models.Record{
		ID:             "tmp_" + uuid.NewString(),
		CollectionName: c.collection,
		Date:           date,
		Title:          payload.Field("title"),
		Preacher:       payload.Field("preacher"),
		Description:    payload.Field("description"),
		Duration:       payload.Field("duration"),
		Location:       payload.Field("location"),
		TimeOfDay:      payload.Field("time"),
		Category:       payload.Field("category"),
		Caption:        payload.Field("caption"),
	}
	for _, file := range payload.Files {
		switch file.Field {
		case "audio":
			record.Audio = file.Name
		case "image":
			record.Image = file.Name
		}
	}
	return record, nil
}

// DeleteItem hides the record immediately and issues the delete. On
// success (or when the server reports the record already gone, which is
// the desired end state) the record is removed for good; on any other
// failure it is restored to the view and the error surfaced. Calling
// DeleteItem for an id already being deleted, or already removed, is a
// no-op.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	c.mu.Lock()
	idx := c.indexOfLocked(id)
	if idx < 0 || c.items[idx].State == StatePendingDelete {
		c.mu.Unlock()
		return nil
	}
	c.items[idx].State = StatePendingDelete
	c.mu.Unlock()
	c.signalUpdate()

	err := c.gateway.Delete(ctx, c.collection, id)

	c.mu.Lock()
	idx = c.indexOfLocked(id)
	if err != nil && !errors.Is(err, adapter.ErrNotFound) {
		if idx >= 0 && c.items[idx].State == StatePendingDelete {
			c.items[idx].State = StateConfirmed
		}
		c.mu.Unlock()
		c.signalUpdate()
		return fmt.Errorf("delete %s from %s: %w", id, c.collection, err)
	}
	if idx >= 0 {
		c.removeAtLocked(idx)
	}
	c.mu.Unlock()

	c.signalUpdate()
	return nil
}

// onLiveEvent merges one server-pushed change into the view.
func (c *Client) onLiveEvent(event models.LiveEvent) {
	c.mu.Lock()
	switch event.Action {
	case models.ActionCreate:
		c.applyInsertLocked(event.Record)
	case models.ActionUpdate:
		c.applyUpdateLocked(event.Record)
	case models.ActionDelete:
		// deleting an id we no longer hold is a no-op, not an error
		if idx := c.indexOfLocked(event.Record.ID); idx >= 0 {
			c.removeAtLocked(idx)
		}
	}
	c.mu.Unlock()

	c.signalUpdate()
}

func (c *Client) applyInsertLocked(record models.Record) {
	if idx := c.indexOfLocked(record.ID); idx >= 0 {
		// duplicate insert; keep the server version, no double entry
		state := c.items[idx].State
		c.items[idx] = Item{Record: record, State: state}
		c.sortLocked()
		return
	}

	if idx := matchProvisionalItems(c.items, record); idx >= 0 {
		// the event confirms a pendingCreate before the HTTP response did
		c.items[idx] = Item{Record: record, State: StateConfirmed}
		c.sortLocked()
		return
	}

	c.insertLocked(Item{Record: record, State: StateConfirmed})
}

func (c *Client) applyUpdateLocked(record models.Record) {
	idx := c.indexOfLocked(record.ID)
	if idx < 0 {
		// the create for this id was missed (reconnect gap); converge by
		// inserting instead of dropping the update
		c.insertLocked(Item{Record: record, State: StateConfirmed})
		return
	}

	dateChanged := !c.items[idx].Record.Date.Time().Equal(record.Date.Time())
	c.items[idx].Record = record
	if dateChanged {
		c.sortLocked()
	}
}

// Records returns the visible view: confirmed and provisionally created
// records in descending date order. Records being deleted are excluded.
func (c *Client) Records() []models.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]models.Record, 0, len(c.items))
	for _, item := range c.items {
		if item.State == StatePendingDelete {
			continue
		}
		records = append(records, item.Record)
	}
	return records
}

// Items returns the visible view with lifecycle states, for surfaces that
// render pending markers.
func (c *Client) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		if item.State == StatePendingDelete {
			continue
		}
		items = append(items, item)
	}
	return items
}

// Generation returns the generation of the most recently applied fetch.
func (c *Client) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appliedGen
}

// Close tears down the live channel and stops all background work. The
// view remains readable after Close.
func (c *Client) Close() {
	c.mu.Lock()
	handle := c.handle
	c.handle = nil
	c.mu.Unlock()

	if handle != nil {
		handle.Close()
	}
	c.cancel()
}

func (c *Client) openChannelOnce() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle != nil || c.channel == nil {
		return
	}
	c.handle = c.channel.Open(c.runCtx, c.collection, c.onLiveEvent)
}

// insertLocked places item per ordering key: before the first entry with
// a strictly older date, after all entries sharing its date.
func (c *Client) insertLocked(item Item) {
	pos := sort.Search(len(c.items), func(i int) bool {
		return c.items[i].Record.Date.Time().Before(item.Record.Date.Time())
	})

	c.items = append(c.items, Item{})
	copy(c.items[pos+1:], c.items[pos:])
	c.items[pos] = item
}

// sortLocked restores descending date order. The sort is stable so
// records sharing a date keep their relative insertion order.
func (c *Client) sortLocked() {
	sort.SliceStable(c.items, func(i, j int) bool {
		return c.items[i].Record.Date.Time().After(c.items[j].Record.Date.Time())
	})
}

func (c *Client) indexOfLocked(id string) int {
	for i := range c.items {
		if c.items[i].Record.ID == id {
			return i
		}
	}
	return -1
}

func (c *Client) removeAtLocked(idx int) {
	c.items = append(c.items[:idx], c.items[idx+1:]...)
}

func (c *Client) signalUpdate() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// matchProvisional finds a provisional item whose content matches the
// server record. The backend echoes no client correlation token, so
// matching is by equal title and ordering key.
func matchProvisional(pending []Item, record models.Record) int {
	for i, item := range pending {
		if item.Record.Title == record.Title && item.Record.Date.Time().Equal(record.Date.Time()) {
			return i
		}
	}
	return -1
}

func matchProvisionalItems(items []Item, record models.Record) int {
	for i, item := range items {
		if item.State != StatePendingCreate {
			continue
		}
		if item.Record.Title == record.Title && item.Record.Date.Time().Equal(record.Date.Time()) {
			return i
		}
	}
	return -1
}
