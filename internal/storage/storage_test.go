package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"antesala/pkg/cache"
	"antesala/pkg/logger"
)

type doc struct {
	ID   string `json:"id"`
	Date string `json:"eventDate"`
	Note string `json:"note"`
}

func (d doc) DocumentID() string      { return d.ID }
func (d doc) DocumentSortKey() string { return d.Date }

type failingGateway struct {
	err error
}

func (f failingGateway) LoadAll(context.Context) ([]doc, error) { return nil, f.err }
func (f failingGateway) SaveAll(context.Context, []doc) error   { return f.err }

func newRedisCache(t *testing.T) cache.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewService(client)
}

func newSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&DocumentRecord{}))
	return db
}

func TestMemoryStore_CopiesOnSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[doc]()

	items := []doc{{ID: "a"}}
	require.NoError(t, store.SaveAll(ctx, items))
	items[0].Note = "mutated"

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []doc{{ID: "a"}}, loaded)
	assert.Equal(t, 1, store.Saves())
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewRedisStore[doc](newRedisCache(t), "antesalaReservations")

	empty, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	want := []doc{{ID: "1", Date: "2026-03-01"}, {ID: "2", Date: "2026-01-15"}}
	require.NoError(t, store.SaveAll(ctx, want))

	got, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.SaveAll(ctx, nil))
	got, err = store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDocumentStore_ReplacesAllAndOrdersByDate(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore[doc](newSQLite(t))

	require.NoError(t, store.SaveAll(ctx, []doc{
		{ID: "late", Date: "2026-12-01"},
		{ID: "early", Date: "2026-02-01"},
		{ID: "gone", Date: "2026-05-01"},
	}))
	require.NoError(t, store.SaveAll(ctx, []doc{
		{ID: "late", Date: "2026-12-01", Note: "updated"},
		{ID: "early", Date: "2026-02-01"},
	}))

	got, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].ID)
	assert.Equal(t, "updated", got[1].Note)

	require.NoError(t, store.SaveAll(ctx, nil))
	got, err = store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFallbackGateway_SaveFallsBackAndReportsStale(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryStore[doc]()
	gw := NewFallbackGateway[doc](failingGateway{err: errors.New("unreachable")}, local, "postgres", logger.Discard())

	err := gw.SaveAll(ctx, []doc{{ID: "x"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyncStale)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "save", perr.Op)

	saved, _ := local.LoadAll(ctx)
	assert.Equal(t, []doc{{ID: "x"}}, saved)

	loaded, err := gw.LoadAll(ctx)
	assert.ErrorIs(t, err, ErrSyncStale)
	assert.Equal(t, []doc{{ID: "x"}}, loaded)
}

func TestFallbackGateway_RemoteSuccessSkipsLocal(t *testing.T) {
	ctx := context.Background()
	remote := NewMemoryStore[doc]()
	local := NewMemoryStore[doc]()
	gw := NewFallbackGateway[doc](remote, local, "postgres", logger.Discard())

	require.NoError(t, gw.SaveAll(ctx, []doc{{ID: "x"}}))
	assert.Equal(t, 1, remote.Saves())
	assert.Equal(t, 0, local.Saves())

	_, err := gw.Subscribe(ctx, func([]doc) {})
	assert.ErrorIs(t, err, ErrNoSubscriber)
}

func TestFallbackGateway_BothFailIsNotStale(t *testing.T) {
	gw := NewFallbackGateway[doc](failingGateway{err: errors.New("remote down")}, failingGateway{err: errors.New("disk full")}, "postgres", logger.Discard())

	err := gw.SaveAll(context.Background(), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSyncStale)
}

func TestUnavailableGateway_EveryOperationIsServedLocally(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("connection refused")
	local := NewMemoryStore[doc]()
	gw := NewFallbackGateway[doc](NewUnavailableGateway[doc](cause), local, "postgres", logger.Discard())

	loaded, err := gw.LoadAll(ctx)
	assert.ErrorIs(t, err, ErrSyncStale)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, loaded)

	err = gw.SaveAll(ctx, []doc{{ID: "x"}})
	assert.ErrorIs(t, err, ErrSyncStale)
	assert.Equal(t, 1, local.Saves())
}

func TestChangeFeed_PublishSendsSnapshotWithOrigin(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		require.Len(t, msg.Headers, 1)
		assert.Equal(t, "instance-a", string(msg.Headers[0].Value))
		assert.Equal(t, "antesala.reservations", msg.Topic)
		return nil
	})

	feedCfg := DefaultChangeFeedConfig()
	feedCfg.Origin = "instance-a"
	feed := NewChangeFeedWithProducer[doc](producer, nil, feedCfg, logger.Discard())

	require.NoError(t, feed.Publish(context.Background(), []doc{{ID: "1"}}))
	require.NoError(t, feed.Close())

	_, err := feed.Subscribe(context.Background(), func([]doc) {})
	assert.ErrorIs(t, err, ErrNoSubscriber)
}

func TestChangeFeed_DecodeSkipsOwnSnapshots(t *testing.T) {
	feedCfg := DefaultChangeFeedConfig()
	feedCfg.Origin = "me"
	feed := NewChangeFeedWithProducer[doc](nil, nil, feedCfg, logger.Discard())

	own := &sarama.ConsumerMessage{
		Headers: []*sarama.RecordHeader{{Key: []byte("origin"), Value: []byte("me")}},
		Value:   []byte(`{"origin":"me","items":[]}`),
	}
	_, skip, err := feed.decode(own)
	require.NoError(t, err)
	assert.True(t, skip)

	other := &sarama.ConsumerMessage{
		Headers: []*sarama.RecordHeader{{Key: []byte("origin"), Value: []byte("them")}},
		Value:   []byte(`{"origin":"them","items":[{"id":"9","eventDate":"2026-07-04"}]}`),
	}
	snap, skip, err := feed.decode(other)
	require.NoError(t, err)
	assert.False(t, skip)
	assert.Equal(t, []doc{{ID: "9", Date: "2026-07-04"}}, snap.Items)

	_, _, err = feed.decode(&sarama.ConsumerMessage{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestPublishingGateway_PublishFailureIsStale(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	feed := NewChangeFeedWithProducer[doc](producer, nil, DefaultChangeFeedConfig(), logger.Discard())
	inner := NewMemoryStore[doc]()
	gw := NewPublishingGateway[doc](inner, feed)

	err := gw.SaveAll(context.Background(), []doc{{ID: "1"}})
	assert.ErrorIs(t, err, ErrSyncStale)
	assert.Equal(t, 1, inner.Saves())
}

func TestPublishingGateway_InnerFailureSkipsPublish(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)

	feed := NewChangeFeedWithProducer[doc](producer, nil, DefaultChangeFeedConfig(), logger.Discard())
	gw := NewPublishingGateway[doc](failingGateway{err: errors.New("down")}, feed)

	err := gw.SaveAll(context.Background(), []doc{{ID: "1"}})
	require.Error(t, err)
	require.NoError(t, producer.Close())
}
