package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tendersdz/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// failingStore отказывает в записи
type failingStore struct {
	session.MemoryStore
}

func (f *failingStore) Write(ctx context.Context, state session.State) error {
	return errors.New("disk full")
}

func TestSessionSetAndClear(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	sess, err := session.Load(ctx, store)
	require.NoError(t, err)
	require.False(t, sess.Authenticated())

	require.NoError(t, sess.Set(ctx, "tok-1", "ops@example.com"))
	require.True(t, sess.Authenticated())
	require.Equal(t, "tok-1", sess.Token())
	require.Equal(t, "ops@example.com", sess.Identifier())

	st, err := store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, session.State{Token: "tok-1", Identifier: "ops@example.com"}, st)

	require.NoError(t, sess.Clear(ctx))
	require.False(t, sess.Authenticated())
	require.Empty(t, sess.Identifier())

	st, err = store.Read(ctx)
	require.NoError(t, err)
	require.True(t, st.Empty())
	require.Equal(t, 2, store.Writes())
}

func TestSessionNoIdentifierWithoutToken(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	sess, err := session.Load(ctx, store)
	require.NoError(t, err)

	require.NoError(t, sess.Set(ctx, "  ", "ops@example.com"))
	require.Empty(t, sess.Identifier())

	st, _ := store.Read(ctx)
	require.Equal(t, session.State{}, st)
}

func TestSessionKeepsStateWhenPersistFails(t *testing.T) {
	ctx := context.Background()
	sess, err := session.Load(ctx, &failingStore{})
	require.NoError(t, err)

	err = sess.Set(ctx, "tok", "user")
	require.Error(t, err)
	require.False(t, sess.Authenticated())
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := session.NewFileStore(path)

	st, err := store.Read(ctx)
	require.NoError(t, err)
	require.True(t, st.Empty())

	require.NoError(t, store.Write(ctx, session.State{Token: "abc", Identifier: "user@example.com"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"tendersdz_token": "abc"`)

	// новая сессия в "новом процессе" видит сохраненное состояние
	sess, err := session.Load(ctx, session.NewFileStore(path))
	require.NoError(t, err)
	require.Equal(t, "abc", sess.Token())
	require.Equal(t, "user@example.com", sess.Identifier())

	require.NoError(t, sess.Clear(ctx))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := session.NewFileStore(path).Read(context.Background())
	require.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := session.NewRedisStore(client, "tendersdz:")

	st, err := store.Read(ctx)
	require.NoError(t, err)
	require.True(t, st.Empty())

	require.NoError(t, store.Write(ctx, session.State{Token: "redis-token", Identifier: "ops"}))
	got, err := mr.Get("tendersdz:" + session.TokenKey)
	require.NoError(t, err)
	require.Equal(t, "redis-token", got)

	st, err = store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, session.State{Token: "redis-token", Identifier: "ops"}, st)

	require.NoError(t, store.Write(ctx, session.State{}))
	require.False(t, mr.Exists("tendersdz:"+session.TokenKey))
	require.False(t, mr.Exists("tendersdz:"+session.IdentifierKey))
}
