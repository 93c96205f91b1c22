package music

import (
	"context"
	"testing"

	"github.com/movable/backend/internal/application/movable"
	"github.com/movable/backend/internal/domain/music"
	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/domain/shared/result"
	"github.com/movable/backend/internal/infrastructure/cache"
	"github.com/movable/backend/internal/infrastructure/persistence"
	"github.com/movable/backend/internal/infrastructure/provider"
	"github.com/movable/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	alice = testutil.Alice
	bob   = testutil.Bob
	admin = testutil.Admin
)

type catalogFixture struct {
	catalog *Catalog
	db      *gorm.DB
}

func newCatalogFixture(t *testing.T, opts ...Option) *catalogFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	catalog := NewCatalog(
		Stores{Music: persistence.NewMusicStore(db), Songs: persistence.NewSongStore(db)},
		Caches{Music: cache.NewMemoryListCache[*music.Music](0), Songs: cache.NewMemoryListCache[*music.Song](0)},
		provider.NewContextAccountProvider(),
		testutil.DefaultClock,
		opts...,
	)
	return &catalogFixture{catalog: catalog, db: db}
}

func as(account shared.Account) context.Context {
	return testutil.As(account)
}

func keys[T any](r *result.Result[T]) []string {
	out := make([]string, 0)
	for _, e := range r.Events() {
		out = append(out, e.Key)
	}
	return out
}

func mustData[T any](t *testing.T, r *result.Result[T]) T {
	t.Helper()
	require.True(t, r.IsOk(), "events: %v", r.Events())
	data, ok := r.Data()
	require.True(t, ok)
	return data
}

func (f *catalogFixture) addMusic(t *testing.T, ctx context.Context, name string) *MusicData {
	t.Helper()
	r, err := f.catalog.Music.Add(ctx, &MusicData{Name: name, MediaCount: 1})
	require.NoError(t, err)
	return mustData(t, r)
}

func (f *catalogFixture) addSong(t *testing.T, ctx context.Context, parent *MusicData, name string, length int) *SongData {
	t.Helper()
	r, err := f.catalog.Songs.Add(ctx, parent, &SongData{Name: name, Length: length})
	require.NoError(t, err)
	return mustData(t, r)
}

func names[T interface{ *MusicData | *SongData }](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := any(item).(type) {
		case *MusicData:
			out = append(out, v.Name)
		case *SongData:
			out = append(out, v.Name)
		}
	}
	return out
}

func TestCatalog_AddAndGetAll(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := as(alice)

	first := f.addMusic(t, ctx, "Abbey Road")
	second := f.addMusic(t, ctx, "Revolver")

	require.NotNil(t, first.ID)
	assert.Equal(t, *first.ID-1, *first.Position)
	assert.Equal(t, *second.ID-1, *second.Position)
	require.NotNil(t, first.Audit)
	assert.Equal(t, "alice", first.Audit.CreatedBy)

	r, err := f.catalog.Music.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Abbey Road", "Revolver"}, names(mustData(t, r)))
}

func TestCatalog_AddRejectsInvalidMusic(t *testing.T) {
	f := newCatalogFixture(t)

	r, err := f.catalog.Music.Add(as(alice), &MusicData{WikiEnURL: "not a url"})
	require.NoError(t, err)

	assert.True(t, r.IsError())
	assert.False(t, r.HasData())
	assert.Equal(t, []string{"MUSIC_NAME_EMPTY", "MUSIC_WIKI_EN_INVALID", "MUSIC_MEDIA_COUNT_NOT_POSITIVE"}, keys(r))
}

func TestCatalog_GetMissingMusic(t *testing.T) {
	f := newCatalogFixture(t)

	r, err := f.catalog.Music.Get(as(alice), 99)
	require.NoError(t, err)
	assert.True(t, r.IsNotFound())
	assert.Equal(t, []string{"MUSIC_NOT_EXIST"}, keys(r))
}

func TestCatalog_MoveMusic(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := as(alice)

	f.addMusic(t, ctx, "a")
	b := f.addMusic(t, ctx, "b")
	f.addMusic(t, ctx, "c")

	r, err := f.catalog.Music.MoveUp(ctx, b)
	require.NoError(t, err)
	require.True(t, r.IsOk(), "events: %v", r.Events())

	all, err := f.catalog.Music.GetAll(ctx)
	require.NoError(t, err)
	items := mustData(t, all)
	assert.Equal(t, []string{"b", "a", "c"}, names(items))

	r, err = f.catalog.Music.MoveUp(ctx, items[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"MUSIC_NOT_MOVABLE"}, keys(r))
}

func TestCatalog_SongsUnderMusic(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := as(alice)

	abbey := f.addMusic(t, ctx, "Abbey Road")
	revolver := f.addMusic(t, ctx, "Revolver")
	f.addSong(t, ctx, abbey, "Come Together", 259)
	something := f.addSong(t, ctx, abbey, "Something", 182)
	f.addSong(t, ctx, revolver, "Taxman", 159)

	found, err := f.catalog.Songs.Find(ctx, abbey)
	require.NoError(t, err)
	assert.Equal(t, []string{"Come Together", "Something"}, names(mustData(t, found)))

	r, err := f.catalog.Songs.MoveUp(ctx, something)
	require.NoError(t, err)
	require.True(t, r.IsOk(), "events: %v", r.Events())

	found, err = f.catalog.Songs.Find(ctx, abbey)
	require.NoError(t, err)
	assert.Equal(t, []string{"Something", "Come Together"}, names(mustData(t, found)))

	other, err := f.catalog.Songs.Find(ctx, revolver)
	require.NoError(t, err)
	assert.Equal(t, []string{"Taxman"}, names(mustData(t, other)))
}

func TestCatalog_AddSongToMissingMusic(t *testing.T) {
	f := newCatalogFixture(t)
	missing := 42

	r, err := f.catalog.Songs.Add(as(alice), &MusicData{ID: &missing, Name: "ghost", MediaCount: 1}, &SongData{Name: ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"MUSIC_NOT_EXIST", "SONG_NAME_EMPTY"}, keys(r))
}

func TestCatalog_RemoveMusicRemovesSongs(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := as(alice)

	abbey := f.addMusic(t, ctx, "Abbey Road")
	revolver := f.addMusic(t, ctx, "Revolver")
	f.addSong(t, ctx, abbey, "Come Together", 259)
	f.addSong(t, ctx, revolver, "Taxman", 159)

	// populate the song cache before the cascade
	stats, err := f.catalog.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, mustData(t, stats).SongCount)

	r, err := f.catalog.Music.Remove(ctx, abbey)
	require.NoError(t, err)
	require.True(t, r.IsOk(), "events: %v", r.Events())

	stats, err = f.catalog.Statistics(ctx)
	require.NoError(t, err)
	s := mustData(t, stats)
	assert.Equal(t, 1, s.MusicCount)
	assert.Equal(t, 1, s.SongCount)
	assert.Equal(t, 159, s.TotalLength)
}

func TestCatalog_Statistics(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := as(alice)

	abbey := f.addMusic(t, ctx, "Abbey Road")
	f.addSong(t, ctx, abbey, "Come Together", 259)
	f.addSong(t, ctx, abbey, "The End", 3600)

	r, err := f.catalog.Statistics(ctx)
	require.NoError(t, err)
	s := mustData(t, r)
	assert.Equal(t, Statistics{MusicCount: 1, MediaCount: 1, SongCount: 2, TotalLength: 3859}, s)
	assert.Equal(t, "1:04:19", s.FormattedLength())
}

func TestCatalog_DuplicateMusic(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := as(alice)

	original := f.addMusic(t, ctx, "Abbey Road")
	r, err := f.catalog.Music.Duplicate(ctx, original)
	require.NoError(t, err)
	copied := mustData(t, r)

	assert.NotEqual(t, *original.ID, *copied.ID)
	assert.Equal(t, "Abbey Road", copied.Name)

	all, err := f.catalog.Music.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, mustData(t, all), 2)
}

func TestCatalog_AccountScope(t *testing.T) {
	f := newCatalogFixture(t, WithAccountScope(true), WithPositionPolicy(movable.PositionAppendLast))

	f.addMusic(t, as(alice), "alice's")
	f.addMusic(t, as(bob), "bob's")

	r, err := f.catalog.Music.GetAll(as(alice))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice's"}, names(mustData(t, r)))

	r, err = f.catalog.Music.GetAll(as(admin))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice's", "bob's"}, names(mustData(t, r)))

	reset, err := f.catalog.Music.NewData(as(bob))
	require.NoError(t, err)
	require.True(t, reset.IsOk())

	r, err = f.catalog.Music.GetAll(as(admin))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice's"}, names(mustData(t, r)))
}

func TestCatalog_AddWithoutAccount(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.catalog.Music.Add(context.Background(), &MusicData{Name: "x", MediaCount: 1})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
