package music

import (
	"github.com/movable/backend/internal/domain/shared"
)

// Music is an ordered entry of the music catalog.
// Songs belong to a music entry and are ordered among its siblings.
type Music struct {
	ID         *int
	Name       string
	WikiEnURL  string
	WikiCzURL  string
	MediaCount int
	Note       string
	Position   *int
	Audit      *shared.Audit
}

// GetID returns the music ID
func (m *Music) GetID() *int { return m.ID }

// SetID sets the music ID
func (m *Music) SetID(id int) { m.ID = &id }

// GetPosition returns the music position
func (m *Music) GetPosition() *int { return m.Position }

// SetPosition sets the music position
func (m *Music) SetPosition(position int) { m.Position = &position }

// GetAudit returns the audit record
func (m *Music) GetAudit() *shared.Audit { return m.Audit }

// SetAudit sets the audit record
func (m *Music) SetAudit(audit *shared.Audit) { m.Audit = audit }

// Copy returns a copy without identity or audit, ready to be stored as a new record.
// The position is kept.
func (m *Music) Copy() *Music {
	return &Music{
		Name:       m.Name,
		WikiEnURL:  m.WikiEnURL,
		WikiCzURL:  m.WikiCzURL,
		MediaCount: m.MediaCount,
		Note:       m.Note,
		Position:   clonePtr(m.Position),
	}
}

// Clone returns an independent copy keeping identity and audit
func (m *Music) Clone() *Music {
	c := *m
	c.ID = clonePtr(m.ID)
	c.Position = clonePtr(m.Position)
	c.Audit = cloneAudit(m.Audit)
	return &c
}

// Song is a track of a music entry
type Song struct {
	ID       *int
	MusicID  int
	Name     string
	Length   int
	Note     string
	Position *int
	Audit    *shared.Audit
}

// GetID returns the song ID
func (s *Song) GetID() *int { return s.ID }

// SetID sets the song ID
func (s *Song) SetID(id int) { s.ID = &id }

// GetPosition returns the song position
func (s *Song) GetPosition() *int { return s.Position }

// SetPosition sets the song position
func (s *Song) SetPosition(position int) { s.Position = &position }

// GetAudit returns the audit record
func (s *Song) GetAudit() *shared.Audit { return s.Audit }

// SetAudit sets the audit record
func (s *Song) SetAudit(audit *shared.Audit) { s.Audit = audit }

// ParentID returns the music the song belongs to
func (s *Song) ParentID() int { return s.MusicID }

// Copy returns a copy without identity or audit under the same music
func (s *Song) Copy() *Song {
	return &Song{
		MusicID:  s.MusicID,
		Name:     s.Name,
		Length:   s.Length,
		Note:     s.Note,
		Position: clonePtr(s.Position),
	}
}

// Clone returns an independent copy keeping identity and audit
func (s *Song) Clone() *Song {
	c := *s
	c.ID = clonePtr(s.ID)
	c.Position = clonePtr(s.Position)
	c.Audit = cloneAudit(s.Audit)
	return &c
}

func cloneAudit(a *shared.Audit) *shared.Audit {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func clonePtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
