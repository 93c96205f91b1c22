package music

import (
	"time"

	"github.com/movable/backend/internal/domain/music"
	"github.com/movable/backend/internal/domain/shared"
)

// MusicData represents a music entry in API requests and responses.
// The validate tags are the deep checks run before a mutation.
type MusicData struct {
	ID         *int   `json:"id"`
	Name       string `json:"name" validate:"required"`
	WikiEnURL  string `json:"wiki_en_url" validate:"omitempty,url" key:"WIKI_EN" label:"URL to english Wikipedia page about music"`
	WikiCzURL  string `json:"wiki_cz_url" validate:"omitempty,url" key:"WIKI_CZ" label:"URL to czech Wikipedia page about music"`
	MediaCount int    `json:"media_count" validate:"gt=0" label:"Count of media"`
	Note       string `json:"note" validate:"max=1000" severity:"warn"`
	Position   *int   `json:"position"`
	Audit      *Audit `json:"audit,omitempty" validate:"-"`
}

// GetID returns the music ID
func (d *MusicData) GetID() *int { return d.ID }

// SetID sets the music ID
func (d *MusicData) SetID(id int) { d.ID = &id }

// GetPosition returns the music position
func (d *MusicData) GetPosition() *int { return d.Position }

// SetPosition sets the music position
func (d *MusicData) SetPosition(position int) { d.Position = &position }

// SongData represents a song in API requests and responses
type SongData struct {
	ID       *int   `json:"id"`
	Name     string `json:"name" validate:"required"`
	Length   int    `json:"length" validate:"gte=0" label:"Length of song"`
	Note     string `json:"note" validate:"max=1000" severity:"warn"`
	Position *int   `json:"position"`
	Audit    *Audit `json:"audit,omitempty" validate:"-"`
}

// GetID returns the song ID
func (d *SongData) GetID() *int { return d.ID }

// SetID sets the song ID
func (d *SongData) SetID(id int) { d.ID = &id }

// GetPosition returns the song position
func (d *SongData) GetPosition() *int { return d.Position }

// SetPosition sets the song position
func (d *SongData) SetPosition(position int) { d.Position = &position }

// Audit is the read-only audit view returned to clients. Values sent by clients are ignored.
type Audit struct {
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedBy string    `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

func auditView(a *shared.Audit) *Audit {
	if a == nil {
		return nil
	}
	return &Audit{
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		UpdatedBy: a.UpdatedBy,
		UpdatedAt: a.UpdatedAt,
	}
}

// Statistics summarizes the music catalog
type Statistics struct {
	MusicCount  int `json:"music_count"`
	MediaCount  int `json:"media_count"`
	SongCount   int `json:"song_count"`
	TotalLength int `json:"total_length"`
}

// FormattedLength renders the total length of all songs as H:MM:SS
func (s Statistics) FormattedLength() string {
	return music.Length(s.TotalLength).String()
}
