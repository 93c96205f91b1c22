// Package music assembles the movable engine for the music catalog: music entries and their songs.
package music

import (
	"context"

	"github.com/movable/backend/internal/application/movable"
	"github.com/movable/backend/internal/domain/music"
	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/domain/shared/result"
	"go.uber.org/zap"
)

// Cache keys of the catalog collections
const (
	MusicKey = "music"
	SongsKey = "songs"
)

// Stores are the backing stores of the catalog
type Stores struct {
	Music shared.Store[*music.Music]
	Songs shared.Store[*music.Song]
}

// Caches are the list caches of the catalog, one namespace per collection
type Caches struct {
	Music shared.ListCache[*music.Music]
	Songs shared.ListCache[*music.Song]
}

// Option is a functional option for configuring the catalog
type Option func(*options)

type options struct {
	logger       *zap.Logger
	policy       movable.PositionPolicy
	accountScope bool
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPositionPolicy sets how added records are positioned
func WithPositionPolicy(policy movable.PositionPolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithAccountScope keeps each account's records apart. Admins see everything.
func WithAccountScope(enabled bool) Option {
	return func(o *options) {
		o.accountScope = enabled
	}
}

// Catalog holds the music and song facades wired to their services
type Catalog struct {
	Music *movable.ParentFacade[*MusicData, *music.Music]
	Songs *movable.ChildFacade[*SongData, *music.Song, *MusicData]

	music *movable.Service[*music.Music]
	songs *movable.Service[*music.Song]
}

// NewCatalog creates a new catalog
func NewCatalog(
	stores Stores,
	caches Caches,
	accounts shared.AccountProvider,
	clock shared.TimeProvider,
	opts ...Option,
) *Catalog {
	o := options{logger: zap.NewNop(), policy: movable.PositionIDOffset}
	for _, opt := range opts {
		opt(&o)
	}

	auditor := movable.NewAuditor(accounts, clock)
	musicOpts := []movable.ServiceOption[*music.Music]{
		movable.WithLogger[*music.Music](o.logger),
		movable.WithAuditor[*music.Music](auditor),
		movable.WithPositionPolicy[*music.Music](o.policy),
		movable.WithClone((*music.Music).Clone),
	}
	songOpts := []movable.ServiceOption[*music.Song]{
		movable.WithLogger[*music.Song](o.logger),
		movable.WithAuditor[*music.Song](auditor),
		movable.WithPositionPolicy[*music.Song](o.policy),
		movable.WithParent(songParent),
		movable.WithClone((*music.Song).Clone),
	}
	if o.accountScope {
		musicOpts = append(musicOpts, movable.WithAccountScope[*music.Music](accounts))
		songOpts = append(songOpts, movable.WithAccountScope[*music.Song](accounts))
	}

	musicService := movable.NewService(MusicKey, stores.Music, caches.Music, (*music.Music).Copy, musicOpts...)
	songService := movable.NewService(SongsKey, stores.Songs, caches.Songs, (*music.Song).Copy, songOpts...)

	musicValidator := movable.NewValidator("Music", musicService, movable.NewTagRules[*MusicData]("MUSIC").Rule())
	songValidator := movable.NewValidator("Song", songService, movable.NewTagRules[*SongData]("SONG").Rule())

	return &Catalog{
		Music: movable.NewParentFacade(musicService, musicValidator, MusicMapper,
			movable.WithFacadeLogger(o.logger),
			movable.WithFacadeAuditor(auditor),
			movable.WithDependents(songService),
		),
		Songs: movable.NewChildFacade(songService, songValidator, musicValidator, SongMapper,
			songParent,
			func(s *music.Song, parent int) { s.MusicID = parent },
			movable.WithFacadeLogger(o.logger),
			movable.WithFacadeAuditor(auditor),
		),
		music: musicService,
		songs: songService,
	}
}

func songParent(s *music.Song) int {
	return s.MusicID
}

// Statistics sums up the music visible to the caller and their songs
func (c *Catalog) Statistics(ctx context.Context) (*result.Result[Statistics], error) {
	entries, err := c.music.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	songs, err := c.songs.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := Statistics{MusicCount: len(entries), SongCount: len(songs)}
	for _, m := range entries {
		stats.MediaCount += m.MediaCount
	}
	for _, s := range songs {
		stats.TotalLength += s.Length
	}
	return result.Of(stats), nil
}

// Invalidate drops every cached list of the catalog
func (c *Catalog) Invalidate(ctx context.Context) error {
	if err := c.music.Invalidate(ctx); err != nil {
		return err
	}
	return c.songs.Invalidate(ctx)
}
