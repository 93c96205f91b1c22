package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/movable/backend/internal/domain/music"
	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStore implements shared.AccountStore for any movable entity through its persistence model M.
// Records are owned by their audit creator.
type GormStore[T shared.Movable, M any] struct {
	db         *gorm.DB
	toDomain   func(*M) T
	fromDomain func(T) *M
	cascades   []cascade
}

// cascade deletes the child rows referencing a deleted record
type cascade struct {
	model  any
	column string
}

// StoreOption configures a GormStore
type StoreOption func(*storeOptions)

type storeOptions struct {
	cascades []cascade
}

// WithCascade deletes rows of child whose column references a deleted record
func WithCascade(child any, column string) StoreOption {
	return func(o *storeOptions) {
		o.cascades = append(o.cascades, cascade{model: child, column: column})
	}
}

// NewGormStore creates a store mapping entities with toDomain and fromDomain
func NewGormStore[T shared.Movable, M any](db *gorm.DB, toDomain func(*M) T, fromDomain func(T) *M, opts ...StoreOption) *GormStore[T, M] {
	var o storeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &GormStore[T, M]{
		db:         db,
		toDomain:   toDomain,
		fromDomain: fromDomain,
		cascades:   o.cascades,
	}
}

// NewMusicStore creates the store of the music collection. Removing music removes its songs.
func NewMusicStore(db *gorm.DB) *GormStore[*music.Music, models.MusicModel] {
	return NewGormStore(db, (*models.MusicModel).ToDomain, models.MusicModelFromDomain,
		WithCascade(&models.SongModel{}, "music_id"))
}

// NewSongStore creates the store of the song collection
func NewSongStore(db *gorm.DB) *GormStore[*music.Song, models.SongModel] {
	return NewGormStore(db, (*models.SongModel).ToDomain, models.SongModelFromDomain)
}

func (s *GormStore[T, M]) mapAll(rows []M) []T {
	items := make([]T, len(rows))
	for i := range rows {
		items[i] = s.toDomain(&rows[i])
	}
	return items
}

// FindAll returns every record ordered by position and id
func (s *GormStore[T, M]) FindAll(ctx context.Context) ([]T, error) {
	var rows []M
	if err := s.db.WithContext(ctx).Order("position, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.mapAll(rows), nil
}

// FindAllForAccount returns the records created by owner ordered by position and id
func (s *GormStore[T, M]) FindAllForAccount(ctx context.Context, owner string) ([]T, error) {
	var rows []M
	if err := s.db.WithContext(ctx).
		Where("created_by = ?", owner).
		Order("position, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.mapAll(rows), nil
}

// FindByID finds a record by its ID
func (s *GormStore[T, M]) FindByID(ctx context.Context, id int) (T, error) {
	var row M
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		var zero T
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, shared.ErrNotFound
		}
		return zero, err
	}
	return s.toDomain(&row), nil
}

// Save inserts a record without id and updates one with id
func (s *GormStore[T, M]) Save(ctx context.Context, entity T) (T, error) {
	row := s.fromDomain(entity)
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		var zero T
		return zero, err
	}
	return s.toDomain(row), nil
}

// SaveAll saves every entity in one transaction
func (s *GormStore[T, M]) SaveAll(ctx context.Context, entities []T) ([]T, error) {
	saved := make([]T, 0, len(entities))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entity := range entities {
			row := s.fromDomain(entity)
			if err := tx.Save(row).Error; err != nil {
				return err
			}
			saved = append(saved, s.toDomain(row))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Delete removes the record and its cascaded children
func (s *GormStore[T, M]) Delete(ctx context.Context, entity T) error {
	id := entity.GetID()
	if id == nil {
		return shared.ErrNotFound
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range s.cascades {
			if err := tx.Where(c.column+" = ?", *id).Delete(c.model).Error; err != nil {
				return fmt.Errorf("delete children: %w", err)
			}
		}
		return tx.Where("id = ?", *id).Delete(new(M)).Error
	})
}

// DeleteAll removes every record and every cascaded child
func (s *GormStore[T, M]) DeleteAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, c := range s.cascades {
			if err := all.Delete(c.model).Error; err != nil {
				return fmt.Errorf("delete children: %w", err)
			}
		}
		return all.Delete(new(M)).Error
	})
}

// DeleteAllForAccount removes the records created by owner and their cascaded children
func (s *GormStore[T, M]) DeleteAllForAccount(ctx context.Context, owner string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range s.cascades {
			owned := tx.Model(new(M)).Select("id").Where("created_by = ?", owner)
			if err := tx.Where(c.column+" IN (?)", owned).Delete(c.model).Error; err != nil {
				return fmt.Errorf("delete children: %w", err)
			}
		}
		return tx.Where("created_by = ?", owner).Delete(new(M)).Error
	})
}

var (
	_ shared.AccountStore[*music.Music] = (*GormStore[*music.Music, models.MusicModel])(nil)
	_ shared.AccountStore[*music.Song]  = (*GormStore[*music.Song, models.SongModel])(nil)
)
