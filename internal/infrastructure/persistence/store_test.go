package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/movable/backend/internal/domain/music"
	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/movable/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	return testutil.NewSQLiteDB(t)
}

func intPtr(v int) *int { return &v }

func saveMusic(t *testing.T, store *GormStore[*music.Music, models.MusicModel], name string, position int, owner string) *music.Music {
	t.Helper()
	m := &music.Music{Name: name, MediaCount: 1, Position: intPtr(position)}
	if owner != "" {
		m.Audit = shared.NewAudit(owner, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	saved, err := store.Save(context.Background(), m)
	require.NoError(t, err)
	return saved
}

func TestGormStore_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewMusicStore(setupTestDB(t))

	saved := saveMusic(t, store, "Kind of Blue", 0, "alice")
	require.NotNil(t, saved.ID)
	assert.Equal(t, "Kind of Blue", saved.Name)

	found, err := store.FindByID(ctx, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kind of Blue", found.Name)
	require.NotNil(t, found.Audit)
	assert.Equal(t, "alice", found.Audit.CreatedBy)
	assert.True(t, found.Audit.CreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	found.Name = "Blue Train"
	updated, err := store.Save(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, *saved.ID, *updated.ID)

	again, err := store.FindByID(ctx, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Train", again.Name)
}

func TestGormStore_UnauditedRecord(t *testing.T) {
	store := NewMusicStore(setupTestDB(t))

	saved := saveMusic(t, store, "Anonymous", 0, "")
	found, err := store.FindByID(context.Background(), *saved.ID)
	require.NoError(t, err)
	assert.Nil(t, found.Audit)
}

func TestGormStore_FindByID_NotFound(t *testing.T) {
	store := NewMusicStore(setupTestDB(t))

	_, err := store.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormStore_FindAll_OrderedByPositionThenID(t *testing.T) {
	ctx := context.Background()
	store := NewMusicStore(setupTestDB(t))

	saveMusic(t, store, "c", 2, "alice")
	saveMusic(t, store, "a", 0, "alice")
	saveMusic(t, store, "b", 2, "bob")

	items, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, "c", items[1].Name)
	assert.Equal(t, "b", items[2].Name)

	own, err := store.FindAllForAccount(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "b", own[0].Name)
}

func TestGormStore_SaveAll(t *testing.T) {
	ctx := context.Background()
	store := NewMusicStore(setupTestDB(t))

	a := saveMusic(t, store, "a", 0, "alice")
	b := saveMusic(t, store, "b", 1, "alice")
	a.SetPosition(1)
	b.SetPosition(0)

	saved, err := store.SaveAll(ctx, []*music.Music{a, b})
	require.NoError(t, err)
	require.Len(t, saved, 2)

	items, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", items[0].Name)
	assert.Equal(t, "a", items[1].Name)
}

func TestGormStore_DeleteCascadesToSongs(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	musicStore := NewMusicStore(db)
	songStore := NewSongStore(db)

	kept := saveMusic(t, musicStore, "kept", 0, "alice")
	removed := saveMusic(t, musicStore, "removed", 1, "alice")
	for _, parent := range []*music.Music{kept, removed} {
		_, err := songStore.Save(ctx, &music.Song{MusicID: *parent.ID, Name: "song", Length: 60, Position: intPtr(0)})
		require.NoError(t, err)
	}

	require.NoError(t, musicStore.Delete(ctx, removed))

	_, err := musicStore.FindByID(ctx, *removed.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	songs, err := songStore.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, *kept.ID, songs[0].MusicID)
}

func TestGormStore_DeleteWithoutID(t *testing.T) {
	store := NewMusicStore(setupTestDB(t))
	assert.ErrorIs(t, store.Delete(context.Background(), &music.Music{}), shared.ErrNotFound)
}

func TestGormStore_DeleteAll(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	musicStore := NewMusicStore(db)
	songStore := NewSongStore(db)

	parent := saveMusic(t, musicStore, "a", 0, "alice")
	saveMusic(t, musicStore, "b", 1, "bob")
	_, err := songStore.Save(ctx, &music.Song{MusicID: *parent.ID, Name: "song", Position: intPtr(0)})
	require.NoError(t, err)

	require.NoError(t, musicStore.DeleteAll(ctx))

	items, err := musicStore.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	songs, err := songStore.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, songs)
}

func TestGormStore_DeleteAllForAccount(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	musicStore := NewMusicStore(db)
	songStore := NewSongStore(db)

	alice := saveMusic(t, musicStore, "alice's", 0, "alice")
	bob := saveMusic(t, musicStore, "bob's", 1, "bob")
	for _, parent := range []*music.Music{alice, bob} {
		_, err := songStore.Save(ctx, &music.Song{MusicID: *parent.ID, Name: "song", Position: intPtr(0)})
		require.NoError(t, err)
	}

	require.NoError(t, musicStore.DeleteAllForAccount(ctx, "alice"))

	items, err := musicStore.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bob's", items[0].Name)

	songs, err := songStore.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, *bob.ID, songs[0].MusicID)
}
