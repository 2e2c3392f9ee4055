package state

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, KeyLastAnnounced)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, KeyLastAnnounced, "a:live"))
	v, err := kv.Get(ctx, KeyLastAnnounced)
	require.NoError(t, err)
	assert.Equal(t, "a:live", v)

	require.NoError(t, kv.Set(ctx, KeyLastAnnounced, "a:published"))
	v, err = kv.Get(ctx, KeyLastAnnounced)
	require.NoError(t, err)
	assert.Equal(t, "a:published", v)
}

func TestFileKV(t *testing.T) {
	dir := t.TempDir()
	kv, err := OpenFile(dir)
	require.NoError(t, err)
	defer kv.Close()

	exerciseKV(t, kv)

	data, err := os.ReadFile(filepath.Join(dir, KeyLastAnnounced))
	require.NoError(t, err)
	assert.Equal(t, "a:published", string(data))

	_, err = os.Stat(filepath.Join(dir, KeyLastAnnounced+".tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileKV_RejectsPathKeys(t *testing.T) {
	kv, err := OpenFile(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, kv.Set(context.Background(), "../escape", "x"))
	_, err = kv.Get(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestSQLiteKV(t *testing.T) {
	kv, err := Open(context.Background(), Config{Driver: "sqlite", Dir: t.TempDir()})
	require.NoError(t, err)
	defer kv.Close()

	exerciseKV(t, kv)
}

func TestRedisKV(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := NewRedis(client, "test:")
	defer kv.Close()

	exerciseKV(t, kv)

	got, err := mr.Get("test:" + KeyLastAnnounced)
	require.NoError(t, err)
	assert.Equal(t, "a:published", got)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	kv, err := Open(context.Background(), Config{Driver: "redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set(context.Background(), KeyRunMode, "normal"))
	assert.True(t, mr.Exists(defaultRedisPrefix+KeyRunMode))
}

func TestPostgresKV(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS " + stateTable)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM " + stateTable + " WHERE key = $1")).
		WithArgs(KeyLastAnnounced).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO " + stateTable)).
		WithArgs(KeyLastAnnounced, "a:live").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM " + stateTable + " WHERE key = $1")).
		WithArgs(KeyLastAnnounced).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("a:live"))
	mock.ExpectClose()

	ctx := context.Background()
	kv, err := newSQLKV(ctx, db, postgresQueries)
	require.NoError(t, err)

	_, err = kv.Get(ctx, KeyLastAnnounced)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, KeyLastAnnounced, "a:live"))

	v, err := kv.Get(ctx, KeyLastAnnounced)
	require.NoError(t, err)
	assert.Equal(t, "a:live", v)

	require.NoError(t, kv.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "etcd"})
	assert.Error(t, err)
}

func TestOpenPostgres_RequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "postgres"})
	assert.Error(t, err)
}
