package collection

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/chapelworks/mediasync/internal/adapter"
	"github.com/chapelworks/mediasync/internal/logger"
	"github.com/chapelworks/mediasync/internal/mock"
	"github.com/chapelworks/mediasync/internal/realtime"
	"github.com/chapelworks/mediasync/models"
)

func rec(t *testing.T, id, title, date string) models.Record {
	t.Helper()
	parsed, err := models.ParseDateTime(date)
	require.NoError(t, err)
	return models.Record{ID: id, CollectionName: "sermons", Title: title, Date: parsed}
}

func recordIDs(records []models.Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

// newTestClient builds a client over mocks. The channel expectation
// captures the live event callback so tests can push events.
func newTestClient(t *testing.T, ctrl *gomock.Controller) (*Client, *mock.MockCollectionGateway, *mock.MockChannel) {
	t.Helper()
	gw := mock.NewMockCollectionGateway(ctrl)
	ch := mock.NewMockChannel(ctrl)
	return New("sermons", gw, ch, []string{"preacher"}, logger.Nop()), gw, ch
}

// initialize runs a successful first fetch and returns the captured live
// event callback.
func initialize(t *testing.T, c *Client, gw *mock.MockCollectionGateway, ch *mock.MockChannel, remote []models.Record) func(models.LiveEvent) {
	t.Helper()

	var onEvent func(models.LiveEvent)
	gw.EXPECT().
		List(gomock.Any(), "sermons", models.ListFilter{Expand: []string{"preacher"}}).
		Return(remote, nil)
	ch.EXPECT().
		Open(gomock.Any(), "sermons", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, cb func(models.LiveEvent)) realtime.Handle {
			onEvent = cb
			return nil
		})

	require.NoError(t, c.Initialize(context.Background()))
	require.NotNil(t, onEvent)
	return onEvent
}

func TestClient_Initialize_SortsDescendingByDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	remote := []models.Record{
		rec(t, "a", "Oldest", "2024-01-07"),
		rec(t, "b", "Newest", "2026-03-01"),
		rec(t, "c", "Middle", "2025-06-15"),
	}
	initialize(t, c, gw, ch, remote)

	assert.Equal(t, []string{"b", "c", "a"}, recordIDs(c.Records()))
	assert.Equal(t, uint64(1), c.Generation())
}

func TestClient_Initialize_FailureKeepsViewEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, _ := newTestClient(t, ctrl)
	gw.EXPECT().
		List(gomock.Any(), "sermons", gomock.Any()).
		Return(nil, adapter.ErrFetch)

	err := c.Initialize(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrFetch)
	assert.Empty(t, c.Records())
	assert.Equal(t, uint64(0), c.Generation())
}

func TestClient_Initialize_CoalescesConcurrentCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)

	entered := make(chan struct{})
	release := make(chan struct{})
	gw.EXPECT().
		List(gomock.Any(), "sermons", gomock.Any()).
		DoAndReturn(func(context.Context, string, models.ListFilter) ([]models.Record, error) {
			close(entered)
			<-release
			return []models.Record{rec(t, "a", "Only", "2026-01-04")}, nil
		}).
		Times(1)
	ch.EXPECT().Open(gomock.Any(), "sermons", gomock.Any()).Return(nil).Times(1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = c.Initialize(context.Background())
	}()
	<-entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[1] = c.Initialize(context.Background())
	}()
	// let the second caller attach to the in-flight fetch
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Len(t, c.Records(), 1)
}

func TestClient_CreateItem_ShowsProvisionalThenConfirms(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	initialize(t, c, gw, ch, []models.Record{rec(t, "a", "Existing", "2025-01-05")})

	confirmed := rec(t, "srv1", "New Sermon", "2026-02-01")
	gw.EXPECT().
		Create(gomock.Any(), "sermons", gomock.Any()).
		DoAndReturn(func(context.Context, string, models.CreatePayload) (models.Record, error) {
			// while the request is in flight the provisional entry is visible
			items := c.Items()
			require.Len(t, items, 2)
			assert.Equal(t, StatePendingCreate, items[0].State)
			assert.True(t, strings.HasPrefix(items[0].Record.ID, "tmp_"))
			return confirmed, nil
		})

	payload := models.CreatePayload{Fields: map[string]string{
		"title": "New Sermon",
		"date":  "2026-02-01",
	}}
	got, err := c.CreateItem(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "srv1", got.ID)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "srv1", items[0].Record.ID)
	assert.Equal(t, StateConfirmed, items[0].State)
}

func TestClient_CreateItem_FailureRemovesProvisional(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	initialize(t, c, gw, ch, nil)

	gw.EXPECT().
		Create(gomock.Any(), "sermons", gomock.Any()).
		Return(models.Record{}, adapter.ErrPermission)

	payload := models.CreatePayload{Fields: map[string]string{
		"title": "Denied",
		"date":  "2026-02-01",
	}}
	_, err := c.CreateItem(context.Background(), payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrPermission)
	assert.Empty(t, c.Records())
}

func TestClient_CreateItem_RejectsUnparsableDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, _, _ := newTestClient(t, ctrl)

	payload := models.CreatePayload{Fields: map[string]string{
		"title": "Bad Date",
		"date":  "next sunday",
	}}
	_, err := c.CreateItem(context.Background(), payload)
	assert.ErrorIs(t, err, adapter.ErrValidation)
}

func TestClient_CreateItem_LiveEventConfirmsBeforeResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	onEvent := initialize(t, c, gw, ch, nil)

	confirmed := rec(t, "srv1", "New Sermon", "2026-02-01")
	gw.EXPECT().
		Create(gomock.Any(), "sermons", gomock.Any()).
		DoAndReturn(func(context.Context, string, models.CreatePayload) (models.Record, error) {
			// the subscription delivers the insert before the HTTP response
			onEvent(models.LiveEvent{Action: models.ActionCreate, Record: confirmed})
			return confirmed, nil
		})

	payload := models.CreatePayload{Fields: map[string]string{
		"title": "New Sermon",
		"date":  "2026-02-01",
	}}
	_, err := c.CreateItem(context.Background(), payload)
	require.NoError(t, err)

	// confirmed exactly once, no duplicate from the late response
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "srv1", items[0].Record.ID)
	assert.Equal(t, StateConfirmed, items[0].State)
}

func TestClient_DeleteItem_RemovesOnSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	initialize(t, c, gw, ch, []models.Record{
		rec(t, "a", "Keep", "2026-01-04"),
		rec(t, "b", "Drop", "2025-01-05"),
	})

	gw.EXPECT().Delete(gomock.Any(), "sermons", "b").Return(nil)

	require.NoError(t, c.DeleteItem(context.Background(), "b"))
	assert.Equal(t, []string{"a"}, recordIDs(c.Records()))
}

func TestClient_DeleteItem_NotFoundIsSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	initialize(t, c, gw, ch, []models.Record{rec(t, "a", "Gone Already", "2026-01-04")})

	gw.EXPECT().Delete(gomock.Any(), "sermons", "a").Return(adapter.ErrNotFound)

	require.NoError(t, c.DeleteItem(context.Background(), "a"))
	assert.Empty(t, c.Records())
}

func TestClient_DeleteItem_FailureRestoresRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	initialize(t, c, gw, ch, []models.Record{rec(t, "a", "Protected", "2026-01-04")})

	gw.EXPECT().Delete(gomock.Any(), "sermons", "a").Return(adapter.ErrPermission)

	err := c.DeleteItem(context.Background(), "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrPermission)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, StateConfirmed, items[0].State)
}

func TestClient_DeleteItem_UnknownIDIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	initialize(t, c, gw, ch, nil)

	// no Delete expectation: the gateway must not be called
	require.NoError(t, c.DeleteItem(context.Background(), "missing"))
}

func TestClient_Refresh_PreservesPendingCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	initialize(t, c, gw, ch, []models.Record{rec(t, "a", "Existing", "2025-01-05")})

	release := make(chan struct{})
	confirmed := rec(t, "srv1", "In Flight", "2026-02-01")
	gw.EXPECT().
		Create(gomock.Any(), "sermons", gomock.Any()).
		DoAndReturn(func(context.Context, string, models.CreatePayload) (models.Record, error) {
			<-release
			return confirmed, nil
		})

	done := make(chan error, 1)
	go func() {
		_, err := c.CreateItem(context.Background(), models.CreatePayload{Fields: map[string]string{
			"title": "In Flight",
			"date":  "2026-02-01",
		}})
		done <- err
	}()

	require.Eventually(t, func() bool {
		return len(c.Items()) == 2
	}, time.Second, 5*time.Millisecond)

	// a refresh that does not include the in-flight record keeps it
	gw.EXPECT().
		List(gomock.Any(), "sermons", gomock.Any()).
		Return([]models.Record{rec(t, "a", "Existing", "2025-01-05")}, nil)
	require.NoError(t, c.Refresh(context.Background()))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, StatePendingCreate, items[0].State)

	close(release)
	require.NoError(t, <-done)
}

func TestClient_Refresh_ConfirmsPendingCreateByContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	initialize(t, c, gw, ch, nil)

	release := make(chan struct{})
	confirmed := rec(t, "srv1", "In Flight", "2026-02-01")
	gw.EXPECT().
		Create(gomock.Any(), "sermons", gomock.Any()).
		DoAndReturn(func(context.Context, string, models.CreatePayload) (models.Record, error) {
			<-release
			return confirmed, nil
		})

	done := make(chan error, 1)
	go func() {
		_, err := c.CreateItem(context.Background(), models.CreatePayload{Fields: map[string]string{
			"title": "In Flight",
			"date":  "2026-02-01",
		}})
		done <- err
	}()

	require.Eventually(t, func() bool {
		return len(c.Items()) == 1
	}, time.Second, 5*time.Millisecond)

	// the record already shows up in a listing: that fetch is its confirmation
	gw.EXPECT().
		List(gomock.Any(), "sermons", gomock.Any()).
		Return([]models.Record{confirmed}, nil)
	require.NoError(t, c.Refresh(context.Background()))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "srv1", items[0].Record.ID)
	assert.Equal(t, StateConfirmed, items[0].State)

	close(release)
	require.NoError(t, <-done)
}

func TestClient_Refresh_LastFetchWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	initialize(t, c, gw, ch, nil)

	staleEntered := make(chan struct{})
	staleRelease := make(chan struct{})
	stale := []models.Record{rec(t, "old", "Stale Listing", "2025-01-05")}
	fresh := []models.Record{rec(t, "new", "Fresh Listing", "2026-01-04")}

	first := gw.EXPECT().
		List(gomock.Any(), "sermons", gomock.Any()).
		DoAndReturn(func(context.Context, string, models.ListFilter) ([]models.Record, error) {
			close(staleEntered)
			<-staleRelease
			return stale, nil
		})
	gw.EXPECT().
		List(gomock.Any(), "sermons", gomock.Any()).
		Return(fresh, nil).
		After(first)

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()
	<-staleEntered

	// the newer fetch starts later but lands first
	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, []string{"new"}, recordIDs(c.Records()))

	close(staleRelease)
	require.NoError(t, <-done)

	// the stale response was discarded, not applied
	assert.Equal(t, []string{"new"}, recordIDs(c.Records()))
	assert.Equal(t, uint64(3), c.Generation())
}

func TestClient_LiveEvents_ConvergeView(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	onEvent := initialize(t, c, gw, ch, []models.Record{rec(t, "a", "First", "2025-01-05")})

	// create inserts in order
	onEvent(models.LiveEvent{Action: models.ActionCreate, Record: rec(t, "b", "Second", "2026-01-04")})
	assert.Equal(t, []string{"b", "a"}, recordIDs(c.Records()))

	// update for a missed create inserts instead of dropping
	onEvent(models.LiveEvent{Action: models.ActionUpdate, Record: rec(t, "c", "Missed", "2024-06-01")})
	assert.Equal(t, []string{"b", "a", "c"}, recordIDs(c.Records()))

	// update that changes the date resorts
	onEvent(models.LiveEvent{Action: models.ActionUpdate, Record: rec(t, "c", "Missed", "2026-12-01")})
	assert.Equal(t, []string{"c", "b", "a"}, recordIDs(c.Records()))

	// duplicate create replaces rather than duplicating
	onEvent(models.LiveEvent{Action: models.ActionCreate, Record: rec(t, "b", "Second Edited", "2026-01-04")})
	records := c.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "Second Edited", records[1].Title)

	// delete removes, deleting the same id again is a no-op
	onEvent(models.LiveEvent{Action: models.ActionDelete, Record: rec(t, "b", "", "2026-01-04")})
	onEvent(models.LiveEvent{Action: models.ActionDelete, Record: rec(t, "b", "", "2026-01-04")})
	assert.Equal(t, []string{"c", "a"}, recordIDs(c.Records()))
}

func TestClient_Prime_SeedsOnlyBeforeFirstFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)

	c.Prime([]models.Record{
		rec(t, "cached-old", "Cached Old", "2024-01-07"),
		rec(t, "cached-new", "Cached New", "2025-06-15"),
	})
	assert.Equal(t, []string{"cached-new", "cached-old"}, recordIDs(c.Records()))

	initialize(t, c, gw, ch, []models.Record{rec(t, "srv", "Server Truth", "2026-01-04")})

	// server data replaced the seed, and a late prime cannot override it
	c.Prime([]models.Record{rec(t, "cached-old", "Cached Old", "2024-01-07")})
	assert.Equal(t, []string{"srv"}, recordIDs(c.Records()))
}

func TestClient_StableOrderForEqualDates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	onEvent := initialize(t, c, gw, ch, []models.Record{
		rec(t, "a", "Morning", "2026-01-04"),
		rec(t, "b", "Evening", "2026-01-04"),
	})

	// equal ordering keys keep listing order, and an insert with the same
	// date lands after the existing entries
	onEvent(models.LiveEvent{Action: models.ActionCreate, Record: rec(t, "c", "Midweek", "2026-01-04")})
	assert.Equal(t, []string{"a", "b", "c"}, recordIDs(c.Records()))

	gw.EXPECT().
		List(gomock.Any(), "sermons", gomock.Any()).
		Return([]models.Record{
			rec(t, "a", "Morning", "2026-01-04"),
			rec(t, "b", "Evening", "2026-01-04"),
			rec(t, "c", "Midweek", "2026-01-04"),
		}, nil)
	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, []string{"a", "b", "c"}, recordIDs(c.Records()))
}

func TestClient_Close_ClosesChannelHandle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw := mock.NewMockCollectionGateway(ctrl)
	ch := mock.NewMockChannel(ctrl)
	handle := mock.NewMockHandle(ctrl)
	c := New("sermons", gw, ch, nil, logger.Nop())

	gw.EXPECT().List(gomock.Any(), "sermons", gomock.Any()).Return(nil, nil)
	ch.EXPECT().Open(gomock.Any(), "sermons", gomock.Any()).Return(handle)
	handle.EXPECT().Close().Times(1)

	require.NoError(t, c.Initialize(context.Background()))
	c.Close()
	c.Close()
}

func TestClient_Updates_SignalsAreCoalesced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, gw, ch := newTestClient(t, ctrl)
	onEvent := initialize(t, c, gw, ch, nil)

	// several changes without a reader collapse into one pending signal
	onEvent(models.LiveEvent{Action: models.ActionCreate, Record: rec(t, "a", "One", "2026-01-04")})
	onEvent(models.LiveEvent{Action: models.ActionCreate, Record: rec(t, "b", "Two", "2026-01-05")})

	select {
	case <-c.Updates():
	default:
		t.Fatal("expected a pending update signal")
	}
	select {
	case <-c.Updates():
		t.Fatal("signals must be coalesced")
	default:
	}
}
