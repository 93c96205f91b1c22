// Package movable implements a cache-coherent engine for ordered collections of movable entities.
package movable

import (
	"context"
	"fmt"
	"slices"

	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PositionPolicy decides the position of a freshly added record
type PositionPolicy string

const (
	// PositionIDOffset sets position = id - 1. It assumes store identities are a dense increasing sequence.
	PositionIDOffset PositionPolicy = "id_offset"
	// PositionAppendLast sets position = max(position) + 1 over the current collection
	PositionAppendLast PositionPolicy = "append"
)

// IsValid checks if the policy is known
func (p PositionPolicy) IsValid() bool {
	return p == PositionIDOffset || p == PositionAppendLast
}

// Service owns the ordered view of one collection and keeps a ListCache in step with its Store.
// Each cache key is either absent or holds the complete list sorted by (position, id).
// Writes hit the store first; the cached list is then patched in place or evicted.
// Service provides no mutual exclusion: one writer per key at a time is the caller's duty.
type Service[T shared.Movable] struct {
	key      string
	store    shared.Store[T]
	cache    shared.ListCache[T]
	copyFn   func(T) T
	cloneFn  func(T) T
	logger   *zap.Logger
	accounts shared.AccountProvider
	auditor  *Auditor
	parentOf func(T) int
	policy   PositionPolicy
}

// ServiceOption is a functional option for configuring the service
type ServiceOption[T shared.Movable] func(*Service[T])

// WithLogger sets the logger
func WithLogger[T shared.Movable](logger *zap.Logger) ServiceOption[T] {
	return func(s *Service[T]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAccountScope scopes the collection by owning account.
// The store must implement shared.AccountStore.
func WithAccountScope[T shared.Movable](accounts shared.AccountProvider) ServiceOption[T] {
	return func(s *Service[T]) {
		s.accounts = accounts
	}
}

// WithAuditor stamps audits on records the service creates or reorders
func WithAuditor[T shared.Movable](auditor *Auditor) ServiceOption[T] {
	return func(s *Service[T]) {
		s.auditor = auditor
	}
}

// WithParent partitions the collection by parent. Moves and lookups by order then
// happen among siblings sharing the same parent.
func WithParent[T shared.Movable](parentOf func(T) int) ServiceOption[T] {
	return func(s *Service[T]) {
		s.parentOf = parentOf
	}
}

// WithPositionPolicy sets the position policy used by Add
func WithPositionPolicy[T shared.Movable](policy PositionPolicy) ServiceOption[T] {
	return func(s *Service[T]) {
		if policy.IsValid() {
			s.policy = policy
		}
	}
}

// WithClone sets how a cached record is copied before the service changes it.
// Without it, records are changed in place and caches that share elements
// expose the change before the store write completes.
func WithClone[T shared.Movable](cloneFn func(T) T) ServiceOption[T] {
	return func(s *Service[T]) {
		s.cloneFn = cloneFn
	}
}

// NewService creates a new service for the collection cached under key.
// copyFn produces an unsaved copy of a record for Duplicate.
func NewService[T shared.Movable](
	key string,
	store shared.Store[T],
	cache shared.ListCache[T],
	copyFn func(T) T,
	opts ...ServiceOption[T],
) *Service[T] {
	s := &Service[T]{
		key:    key,
		store:  store,
		cache:  cache,
		copyFn: copyFn,
		logger: zap.NewNop(),
		policy: PositionIDOffset,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With(zap.String("collection", key))
	return s
}

// Key returns the base cache key of the collection
func (s *Service[T]) Key() string {
	return s.key
}

// scope is the slice of the collection visible to the current caller
type scope struct {
	key   string
	owner string
	all   bool
}

func (s *Service[T]) resolveScope(ctx context.Context) (scope, error) {
	if s.accounts == nil {
		return scope{key: s.key, all: true}, nil
	}
	account, err := s.accounts.GetAccount(ctx)
	if err != nil {
		return scope{}, fmt.Errorf("resolve account: %w", err)
	}
	if account.IsAdmin() {
		return scope{key: s.key, all: true}, nil
	}
	return scope{key: s.key + ":" + account.UUID, owner: account.UUID}, nil
}

// relatedKeys returns the cache keys of other scopes that contain items
func (s *Service[T]) relatedKeys(sc scope, items ...T) []string {
	if s.accounts == nil {
		return nil
	}
	if !sc.all {
		return []string{s.key}
	}
	var keys []string
	for _, item := range items {
		if owner := ownerOf(item); owner != "" {
			key := s.key + ":" + owner
			if !slices.Contains(keys, key) {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

func ownerOf[T shared.Movable](item T) string {
	auditable, ok := any(item).(shared.Auditable)
	if !ok || auditable.GetAudit() == nil {
		return ""
	}
	return auditable.GetAudit().CreatedBy
}

func (s *Service[T]) accountStore() (shared.AccountStore[T], error) {
	store, ok := s.store.(shared.AccountStore[T])
	if !ok {
		return nil, shared.ErrNotScoped
	}
	return store, nil
}

// load returns the cached list for the scope, populating it from the store on a miss
func (s *Service[T]) load(ctx context.Context, sc scope) ([]T, error) {
	items, found, err := s.cache.Get(ctx, sc.key)
	if err != nil {
		s.logger.Warn("Failed to read cache, falling back to store",
			zap.String("key", sc.key),
			zap.Error(err))
		found = false
	}
	if found {
		return items, nil
	}

	s.logger.Debug("Cache miss", zap.String("key", sc.key))

	if sc.all {
		items, err = s.store.FindAll(ctx)
	} else {
		var store shared.AccountStore[T]
		if store, err = s.accountStore(); err == nil {
			items, err = store.FindAllForAccount(ctx, sc.owner)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}

	shared.SortMovables(items)
	if err := s.cache.Put(ctx, sc.key, items); err != nil {
		s.logger.Warn("Failed to populate cache",
			zap.String("key", sc.key),
			zap.Error(err))
	} else {
		s.logger.Debug("Cache populated", zap.String("key", sc.key), zap.Int("count", len(items)))
	}
	return items, nil
}

// evict drops cached lists. A failed eviction would leave a stale list behind, so it is returned.
func (s *Service[T]) evict(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := s.cache.Evict(ctx, key); err != nil {
			return fmt.Errorf("evict cache %s: %w", key, err)
		}
		s.logger.Debug("Cache evicted", zap.String("key", key))
	}
	return nil
}

// patch applies fn to the cached list of key, keeping it sorted.
// An absent list stays absent; a list fn cannot patch is evicted.
func (s *Service[T]) patch(ctx context.Context, key string, fn func([]T) ([]T, bool)) error {
	items, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to read cache for patch", zap.String("key", key), zap.Error(err))
		return s.evict(ctx, key)
	}
	if !found {
		return nil
	}

	patched, ok := fn(slices.Clone(items))
	if !ok {
		return s.evict(ctx, key)
	}
	shared.SortMovables(patched)
	return s.replace(ctx, key, patched)
}

// replace stores items under key, evicting it when the put fails
func (s *Service[T]) replace(ctx context.Context, key string, items []T) error {
	if err := s.cache.Put(ctx, key, items); err != nil {
		s.logger.Warn("Failed to update cache, evicting",
			zap.String("key", key),
			zap.Error(err))
		return s.evict(ctx, key)
	}
	return nil
}

// abort evicts the scope and any related keys after a failed store write
// so a partially mutated list is never served
func (s *Service[T]) abort(ctx context.Context, sc scope, err error, related ...string) error {
	for _, key := range append([]string{sc.key}, related...) {
		if evictErr := s.evict(ctx, key); evictErr != nil {
			s.logger.Error("Failed to evict cache after store failure",
				zap.String("key", key),
				zap.Error(evictErr))
		}
	}
	return err
}

func (s *Service[T]) clone(item T) T {
	if s.cloneFn == nil {
		return item
	}
	return s.cloneFn(item)
}

func (s *Service[T]) stamp(ctx context.Context, items ...T) error {
	if s.auditor == nil {
		return nil
	}
	for _, item := range items {
		if err := s.auditor.Stamp(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service[T]) siblings(items []T, of T) []T {
	if s.parentOf == nil {
		return items
	}
	parent := s.parentOf(of)
	siblings := make([]T, 0, len(items))
	for _, item := range items {
		if s.parentOf(item) == parent {
			siblings = append(siblings, item)
		}
	}
	return siblings
}

// GetAll returns the whole collection visible to the caller, sorted by (position, id)
func (s *Service[T]) GetAll(ctx context.Context) ([]T, error) {
	sc, err := s.resolveScope(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.load(ctx, sc)
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

// Get returns the record with the id. found is false when no such record is visible.
func (s *Service[T]) Get(ctx context.Context, id int) (item T, found bool, err error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return item, false, err
	}
	if i := shared.IndexOf(items, id); i >= 0 {
		return items[i], true, nil
	}
	return item, false, nil
}

// Contains reports whether a record with the id is visible
func (s *Service[T]) Contains(ctx context.Context, id int) (bool, error) {
	_, found, err := s.Get(ctx, id)
	return found, err
}

// Find returns the children of parent in order. Without WithParent it returns nothing.
func (s *Service[T]) Find(ctx context.Context, parent int) ([]T, error) {
	if s.parentOf == nil {
		return nil, nil
	}
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	children := make([]T, 0)
	for _, item := range items {
		if s.parentOf(item) == parent {
			children = append(children, item)
		}
	}
	return children, nil
}

// OrderOf returns the index of the record among its siblings and the sibling count.
// index is -1 when the record is not visible.
func (s *Service[T]) OrderOf(ctx context.Context, id int) (index, count int, err error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return -1, 0, err
	}
	i := shared.IndexOf(items, id)
	if i < 0 {
		return -1, 0, nil
	}
	siblings := s.siblings(items, items[i])
	return shared.IndexOf(siblings, id), len(siblings), nil
}

// Add stores a new record and assigns its position by the configured policy.
// The scope's cached list is evicted because the cardinality changed.
func (s *Service[T]) Add(ctx context.Context, data T) (T, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, s.key, "add")
	defer span.End()

	var zero T
	sc, err := s.resolveScope(ctx)
	if err != nil {
		return zero, err
	}

	saved, err := s.add(ctx, sc, data)
	if err != nil {
		// the first save may have inserted the row before a later step failed
		telemetry.RecordError(span, err)
		return zero, s.abort(ctx, sc, err, s.relatedKeys(sc, data)...)
	}

	if err := s.evict(ctx, append([]string{sc.key}, s.relatedKeys(sc, saved)...)...); err != nil {
		return zero, err
	}
	if id := saved.GetID(); id != nil {
		telemetry.SetAttribute(span, "id", *id)
	}
	return saved, nil
}

func (s *Service[T]) add(ctx context.Context, sc scope, data T) (T, error) {
	var zero T
	if s.policy == PositionAppendLast {
		items, err := s.load(ctx, sc)
		if err != nil {
			return zero, err
		}
		data.SetPosition(nextPosition(items))
		saved, err := s.store.Save(ctx, data)
		if err != nil {
			return zero, fmt.Errorf("save %s: %w", s.key, err)
		}
		return saved, nil
	}

	data.SetPosition(0)
	saved, err := s.store.Save(ctx, data)
	if err != nil {
		return zero, fmt.Errorf("save %s: %w", s.key, err)
	}
	if saved.GetID() == nil {
		return zero, fmt.Errorf("save %s: store returned no id", s.key)
	}
	saved.SetPosition(*saved.GetID() - 1)
	saved, err = s.store.Save(ctx, saved)
	if err != nil {
		return zero, fmt.Errorf("save %s position: %w", s.key, err)
	}
	return saved, nil
}

func nextPosition[T shared.Movable](items []T) int {
	next := 0
	for _, item := range items {
		if p := item.GetPosition(); p != nil && *p >= next {
			next = *p + 1
		}
	}
	return next
}

// Update stores the record as-is and patches it into the cached list
func (s *Service[T]) Update(ctx context.Context, data T) (T, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, s.key, "update")
	defer span.End()

	var zero T
	if data.GetID() == nil {
		return zero, shared.ErrInvalidInput
	}
	sc, err := s.resolveScope(ctx)
	if err != nil {
		return zero, err
	}

	saved, err := s.store.Save(ctx, data)
	if err != nil {
		telemetry.RecordError(span, err)
		return zero, s.abort(ctx, sc, fmt.Errorf("save %s: %w", s.key, err))
	}

	id := *data.GetID()
	err = s.patch(ctx, sc.key, func(items []T) ([]T, bool) {
		i := shared.IndexOf(items, id)
		if i < 0 {
			return nil, false
		}
		items[i] = saved
		return items, true
	})
	if err != nil {
		return zero, err
	}
	if err := s.evict(ctx, s.relatedKeys(sc, saved)...); err != nil {
		return zero, err
	}
	return saved, nil
}

// Remove deletes the record and drops it from the cached list. Positions are not compacted.
func (s *Service[T]) Remove(ctx context.Context, data T) error {
	ctx, span := telemetry.StartServiceSpan(ctx, s.key, "remove")
	defer span.End()

	if data.GetID() == nil {
		return shared.ErrInvalidInput
	}
	sc, err := s.resolveScope(ctx)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, data); err != nil {
		telemetry.RecordError(span, err)
		return s.abort(ctx, sc, fmt.Errorf("delete %s: %w", s.key, err))
	}

	id := *data.GetID()
	err = s.patch(ctx, sc.key, func(items []T) ([]T, bool) {
		i := shared.IndexOf(items, id)
		if i < 0 {
			return nil, false
		}
		return slices.Delete(items, i, i+1), true
	})
	if err != nil {
		return err
	}
	return s.evict(ctx, s.relatedKeys(sc, data)...)
}

// Duplicate stores a copy of the record as a new record
func (s *Service[T]) Duplicate(ctx context.Context, data T) (T, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, s.key, "duplicate")
	defer span.End()

	var zero T
	sc, err := s.resolveScope(ctx)
	if err != nil {
		return zero, err
	}

	copied := s.copyFn(data)
	if s.auditor != nil {
		if err := s.auditor.Fresh(ctx, copied); err != nil {
			return zero, err
		}
	}

	saved, err := s.store.Save(ctx, copied)
	if err != nil {
		telemetry.RecordError(span, err)
		return zero, fmt.Errorf("save %s copy: %w", s.key, err)
	}

	if err := s.evict(ctx, append([]string{sc.key}, s.relatedKeys(sc, saved)...)...); err != nil {
		return zero, err
	}
	return saved, nil
}

// MoveUp swaps the record's position with its preceding sibling
func (s *Service[T]) MoveUp(ctx context.Context, data T) error {
	return s.move(ctx, data, -1, "move_up")
}

// MoveDown swaps the record's position with its following sibling
func (s *Service[T]) MoveDown(ctx context.Context, data T) error {
	return s.move(ctx, data, 1, "move_down")
}

func (s *Service[T]) move(ctx context.Context, data T, step int, method string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, s.key, method)
	defer span.End()

	if data.GetID() == nil {
		return shared.ErrInvalidInput
	}
	id := *data.GetID()

	sc, err := s.resolveScope(ctx)
	if err != nil {
		return err
	}
	items, err := s.load(ctx, sc)
	if err != nil {
		return err
	}

	i := shared.IndexOf(items, id)
	if i < 0 {
		return shared.ErrNotFound
	}
	siblings := s.siblings(items, items[i])
	at := shared.IndexOf(siblings, id)
	if at+step < 0 || at+step >= len(siblings) {
		return shared.NewDomainError("NOT_MOVABLE", fmt.Sprintf("%s %d can't be moved", s.key, id))
	}
	current, other := s.clone(siblings[at]), s.clone(siblings[at+step])
	if current.GetPosition() == nil || other.GetPosition() == nil {
		return shared.NewDomainError("INVALID_STATE", "Position is not assigned")
	}

	currentPosition, otherPosition := *current.GetPosition(), *other.GetPosition()
	current.SetPosition(otherPosition)
	other.SetPosition(currentPosition)
	if err := s.stamp(ctx, current, other); err != nil {
		return s.abort(ctx, sc, err)
	}

	saved, err := s.store.SaveAll(ctx, []T{current, other})
	if err != nil {
		telemetry.RecordError(span, err)
		return s.abort(ctx, sc, fmt.Errorf("save %s positions: %w", s.key, err))
	}

	err = s.patch(ctx, sc.key, func(items []T) ([]T, bool) {
		for _, item := range saved {
			j := shared.IndexOf(items, *item.GetID())
			if j < 0 {
				return nil, false
			}
			items[j] = item
		}
		return items, true
	})
	if err != nil {
		return err
	}
	return s.evict(ctx, s.relatedKeys(sc, saved...)...)
}

// UpdatePositions renumbers the visible collection to 0..n-1 in its current order
func (s *Service[T]) UpdatePositions(ctx context.Context) error {
	ctx, span := telemetry.StartServiceSpan(ctx, s.key, "update_positions")
	defer span.End()

	sc, err := s.resolveScope(ctx)
	if err != nil {
		return err
	}
	items, err := s.load(ctx, sc)
	if err != nil {
		return err
	}

	cloned := make([]T, 0, len(items))
	for _, item := range items {
		cloned = append(cloned, s.clone(item))
	}
	items = cloned
	shared.SortMovables(items)
	for i, item := range items {
		item.SetPosition(i)
	}
	if err := s.stamp(ctx, items...); err != nil {
		return s.abort(ctx, sc, err)
	}

	saved, err := s.store.SaveAll(ctx, items)
	if err != nil {
		telemetry.RecordError(span, err)
		return s.abort(ctx, sc, fmt.Errorf("save %s positions: %w", s.key, err))
	}

	shared.SortMovables(saved)
	if err := s.replace(ctx, sc.key, saved); err != nil {
		return err
	}
	telemetry.SetAttribute(span, "count", len(saved))
	return s.evict(ctx, s.relatedKeys(sc, saved...)...)
}

// NewData deletes every visible record and resets the cache.
// Scoped non-admin callers only lose their own records.
func (s *Service[T]) NewData(ctx context.Context) error {
	ctx, span := telemetry.StartServiceSpan(ctx, s.key, "new_data")
	defer span.End()

	sc, err := s.resolveScope(ctx)
	if err != nil {
		return err
	}

	if sc.all {
		if err := s.store.DeleteAll(ctx); err != nil {
			telemetry.RecordError(span, err)
			return s.abort(ctx, sc, fmt.Errorf("delete all %s: %w", s.key, err))
		}
		return s.Invalidate(ctx)
	}

	store, err := s.accountStore()
	if err != nil {
		return err
	}
	if err := store.DeleteAllForAccount(ctx, sc.owner); err != nil {
		telemetry.RecordError(span, err)
		return s.abort(ctx, sc, fmt.Errorf("delete all %s for account: %w", s.key, err))
	}
	return s.evict(ctx, sc.key, s.key)
}

// Invalidate drops every cached list of the collection
func (s *Service[T]) Invalidate(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache %s: %w", s.key, err)
	}
	s.logger.Debug("Cache cleared")
	return nil
}
