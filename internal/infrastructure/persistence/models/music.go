package models

import (
	"github.com/movable/backend/internal/domain/music"
)

// MusicModel is the persistence model for the Music domain entity
type MusicModel struct {
	ID         int    `gorm:"primaryKey;autoIncrement"`
	Name       string `gorm:"type:varchar(255);not null"`
	WikiEnURL  string `gorm:"column:wiki_en;type:varchar(255)"`
	WikiCzURL  string `gorm:"column:wiki_cz;type:varchar(255)"`
	MediaCount int    `gorm:"not null;default:0"`
	Note       string `gorm:"type:text"`
	Position   int    `gorm:"not null;default:0;index"`
	AuditColumns
}

// TableName returns the table name for GORM
func (MusicModel) TableName() string {
	return "music"
}

// ToDomain converts the persistence model to a Music entity
func (m *MusicModel) ToDomain() *music.Music {
	position := m.Position
	return &music.Music{
		ID:         idPtr(m.ID),
		Name:       m.Name,
		WikiEnURL:  m.WikiEnURL,
		WikiCzURL:  m.WikiCzURL,
		MediaCount: m.MediaCount,
		Note:       m.Note,
		Position:   &position,
		Audit:      m.AuditColumns.ToDomain(),
	}
}

// MusicModelFromDomain creates the persistence model of a Music entity
func MusicModelFromDomain(m *music.Music) *MusicModel {
	return &MusicModel{
		ID:           deref(m.ID),
		Name:         m.Name,
		WikiEnURL:    m.WikiEnURL,
		WikiCzURL:    m.WikiCzURL,
		MediaCount:   m.MediaCount,
		Note:         m.Note,
		Position:     deref(m.Position),
		AuditColumns: AuditFromDomain(m.Audit),
	}
}

// SongModel is the persistence model for the Song domain entity
type SongModel struct {
	ID       int    `gorm:"primaryKey;autoIncrement"`
	MusicID  int    `gorm:"not null;index"`
	Name     string `gorm:"type:varchar(255);not null"`
	Length   int    `gorm:"not null;default:0"`
	Note     string `gorm:"type:text"`
	Position int    `gorm:"not null;default:0"`
	AuditColumns
}

// TableName returns the table name for GORM
func (SongModel) TableName() string {
	return "songs"
}

// ToDomain converts the persistence model to a Song entity
func (m *SongModel) ToDomain() *music.Song {
	position := m.Position
	return &music.Song{
		ID:       idPtr(m.ID),
		MusicID:  m.MusicID,
		Name:     m.Name,
		Length:   m.Length,
		Note:     m.Note,
		Position: &position,
		Audit:    m.AuditColumns.ToDomain(),
	}
}

// SongModelFromDomain creates the persistence model of a Song entity
func SongModelFromDomain(s *music.Song) *SongModel {
	return &SongModel{
		ID:           deref(s.ID),
		MusicID:      s.MusicID,
		Name:         s.Name,
		Length:       s.Length,
		Note:         s.Note,
		Position:     deref(s.Position),
		AuditColumns: AuditFromDomain(s.Audit),
	}
}

// All returns every model for schema migration in tests and development
func All() []any {
	return []any{&MusicModel{}, &SongModel{}}
}
