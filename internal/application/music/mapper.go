package music

import (
	"github.com/movable/backend/internal/application/movable"
	"github.com/movable/backend/internal/domain/music"
)

// MusicMapper converts between MusicData and the stored music entity.
// Audits travel only outward; MapBack never carries a client supplied audit.
var MusicMapper movable.Mapper[*MusicData, *music.Music] = movable.MapperFuncs[*MusicData, *music.Music]{
	To: func(m *music.Music) *MusicData {
		return &MusicData{
			ID:         m.ID,
			Name:       m.Name,
			WikiEnURL:  m.WikiEnURL,
			WikiCzURL:  m.WikiCzURL,
			MediaCount: m.MediaCount,
			Note:       m.Note,
			Position:   m.Position,
			Audit:      auditView(m.Audit),
		}
	},
	From: func(d *MusicData) *music.Music {
		return &music.Music{
			ID:         d.ID,
			Name:       d.Name,
			WikiEnURL:  d.WikiEnURL,
			WikiCzURL:  d.WikiCzURL,
			MediaCount: d.MediaCount,
			Note:       d.Note,
			Position:   d.Position,
		}
	},
}

// SongMapper converts between SongData and the stored song entity.
// The music a song belongs to is set by the child facade, not by the client.
var SongMapper movable.Mapper[*SongData, *music.Song] = movable.MapperFuncs[*SongData, *music.Song]{
	To: func(s *music.Song) *SongData {
		return &SongData{
			ID:       s.ID,
			Name:     s.Name,
			Length:   s.Length,
			Note:     s.Note,
			Position: s.Position,
			Audit:    auditView(s.Audit),
		}
	},
	From: func(d *SongData) *music.Song {
		return &music.Song{
			ID:       d.ID,
			Name:     d.Name,
			Length:   d.Length,
			Note:     d.Note,
			Position: d.Position,
		}
	},
}
