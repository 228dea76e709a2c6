package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"foodiego/internal/domain"
	"foodiego/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Apply(ctx context.Context, writes ...storage.Write) error
}

func newRedisStore(t *testing.T, ttl time.Duration) (*storage.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return storage.NewRedisStore(client, ttl), mr
}

func TestKeyValueStores_Contract(t *testing.T) {
	redisStore, _ := newRedisStore(t, 0)

	stores := []struct {
		name  string
		store kvStore
	}{
		{"memory", storage.NewMemoryStore()},
		{"redis", redisStore},
	}

	for _, testCase := range stores {
		t.Run(testCase.name, func(t *testing.T) {
			ctx := context.Background()
			s := testCase.store

			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, storage.ErrKeyNotFound)

			require.NoError(t, s.Set(ctx, "cart", []byte(`[]`)))
			got, err := s.Get(ctx, "cart")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[]`), got)

			require.NoError(t, s.Apply(ctx,
				storage.Put("orders", []byte(`[{"id":"1"}]`)),
				storage.Remove("cart"),
			))
			_, err = s.Get(ctx, "cart")
			assert.ErrorIs(t, err, storage.ErrKeyNotFound)
			got, err = s.Get(ctx, "orders")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[{"id":"1"}]`), got)

			require.NoError(t, s.Delete(ctx, "orders"))
			require.NoError(t, s.Delete(ctx, "orders"))
			_, err = s.Get(ctx, "orders")
			assert.ErrorIs(t, err, storage.ErrKeyNotFound)
		})
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryStore_ApplyHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := storage.NewMemoryStore()
	assert.ErrorIs(t, s.Set(ctx, "k", []byte("v")), context.Canceled)
	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestRedisStore_TTL(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, storage.Put("foodiego-cart", []byte("[]"))))
	assert.Equal(t, time.Minute, mr.TTL("foodiego-cart"))

	mr.FastForward(2 * time.Minute)
	_, err := s.Get(ctx, "foodiego-cart")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestRedisStore_Unavailable(t *testing.T) {
	s, mr := newRedisStore(t, 0)
	mr.Close()

	_, err := s.Get(context.Background(), "foodiego-cart")
	require.Error(t, err)
	assert.False(t, errors.Is(err, storage.ErrKeyNotFound))
	assert.Error(t, s.Apply(context.Background(), storage.Remove("foodiego-cart")))
}

func newPostgresStore(t *testing.T) (*storage.PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewPostgresStore(db), mock
}

func TestPostgresStore_Get(t *testing.T) {
	tests := []struct {
		name         string
		prepareMocks func(mock sqlmock.Sqlmock)
		want         []byte
		wantErr      error
	}{
		{
			name: "found",
			prepareMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1")).
					WithArgs("foodiego-cart").
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"menuItemId":1,"quantity":2}]`)))
			},
			want: []byte(`[{"menuItemId":1,"quantity":2}]`),
		},
		{
			name: "missing",
			prepareMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries")).
					WithArgs("foodiego-cart").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: storage.ErrKeyNotFound,
		},
		{
			name: "db_error",
			prepareMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries")).
					WithArgs("foodiego-cart").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			s, mock := newPostgresStore(t)
			testCase.prepareMocks(mock)

			got, err := s.Get(context.Background(), "foodiego-cart")
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, testCase.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_SetAndDelete(t *testing.T) {
	s, mock := newPostgresStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries")).
		WithArgs("foodiego-cart", []byte("[]")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries WHERE key = $1")).
		WithArgs("foodiego-cart").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(context.Background(), "foodiego-cart", []byte("[]")))
	require.NoError(t, s.Delete(context.Background(), "foodiego-cart"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Apply(t *testing.T) {
	t.Run("commits the batch", func(t *testing.T) {
		s, mock := newPostgresStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries")).
			WithArgs("foodiego-orders", []byte("[]")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries")).
			WithArgs("foodiego-cart").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := s.Apply(context.Background(),
			storage.Put("foodiego-orders", []byte("[]")),
			storage.Remove("foodiego-cart"),
		)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		s, mock := newPostgresStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries")).
			WithArgs("foodiego-orders", []byte("[]")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries")).
			WithArgs("foodiego-cart").
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := s.Apply(context.Background(),
			storage.Put("foodiego-orders", []byte("[]")),
			storage.Remove("foodiego-cart"),
		)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	s, mock := newPostgresStore(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv_entries")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

func TestKafkaPublisher_PublishOrder(t *testing.T) {
	writer := &recordingWriter{}
	publisher := storage.NewKafkaPublisher(writer)

	event := domain.OrderEvent{
		Type:         "order_placed",
		OrderID:      "1700000000000",
		RestaurantID: 4,
		Total:        31.5,
		ItemCount:    3,
		Timestamp:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, publisher.PublishOrder(context.Background(), event))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, []byte("4"), writer.messages[0].Key)
	assert.JSONEq(t, `{
		"type":"order_placed","orderId":"1700000000000","restaurantId":4,
		"total":31.5,"itemCount":3,"timestamp":"2024-01-02T03:04:05Z"
	}`, string(writer.messages[0].Value))

	writer.err = errors.New("broker down")
	assert.EqualError(t, publisher.PublishOrder(context.Background(), event), "broker down")
}

func TestJSONCodec(t *testing.T) {
	var codec storage.Codec = storage.JSONCodec{}

	data, err := codec.Marshal([]domain.CartLine{{MenuItemID: 3, Quantity: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"menuItemId":3,"quantity":2}]`, string(data))

	var lines []domain.CartLine
	assert.Error(t, codec.Unmarshal([]byte("{not json"), &lines))
}
