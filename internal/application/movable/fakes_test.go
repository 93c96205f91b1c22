package movable

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/movable/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// widget is the stored shape used by the engine tests
type widget struct {
	ID       *int
	Parent   int
	Name     string
	Position *int
	Audit    *shared.Audit
}

func (w *widget) GetID() *int                  { return w.ID }
func (w *widget) SetID(id int)                 { w.ID = &id }
func (w *widget) GetPosition() *int            { return w.Position }
func (w *widget) SetPosition(position int)     { w.Position = &position }
func (w *widget) GetAudit() *shared.Audit      { return w.Audit }
func (w *widget) SetAudit(audit *shared.Audit) { w.Audit = audit }

func (w *widget) clone() *widget {
	c := *w
	if w.ID != nil {
		c.SetID(*w.ID)
	}
	if w.Position != nil {
		c.SetPosition(*w.Position)
	}
	if w.Audit != nil {
		a := *w.Audit
		c.Audit = &a
	}
	return &c
}

func cloneWidget(w *widget) *widget {
	return w.clone()
}

func copyWidget(w *widget) *widget {
	c := w.clone()
	c.ID = nil
	c.Audit = nil
	return c
}

func intPtr(v int) *int { return &v }

func newWidget(id, position int) *widget {
	return &widget{ID: intPtr(id), Name: "widget", Position: intPtr(position)}
}

// widgetData is the API shape used by the facade tests
type widgetData struct {
	ID       *int
	Name     string `validate:"required"`
	Note     string `validate:"max=10" severity:"warn"`
	Count    int    `validate:"gte=0" label:"Count of parts"`
	Position *int
}

func (w *widgetData) GetID() *int              { return w.ID }
func (w *widgetData) SetID(id int)             { w.ID = &id }
func (w *widgetData) GetPosition() *int        { return w.Position }
func (w *widgetData) SetPosition(position int) { w.Position = &position }

var widgetMapper Mapper[*widgetData, *widget] = MapperFuncs[*widgetData, *widget]{
	To: func(w *widget) *widgetData {
		return &widgetData{ID: w.ID, Name: w.Name, Position: w.Position}
	},
	From: func(d *widgetData) *widget {
		return &widget{ID: d.ID, Name: d.Name, Position: d.Position}
	},
}

// memoryStore is a Store with sequence ids. It keeps its own copies of every record.
type memoryStore struct {
	mu       sync.Mutex
	nextID   int
	rows     map[int]*widget
	loads    int
	saves    int
	failSave error
	// failNth fails only the nth call to save, counting from 1
	failNth int
	calls   int
}

func newMemoryStore(items ...*widget) *memoryStore {
	s := &memoryStore{rows: make(map[int]*widget)}
	for _, item := range items {
		s.rows[*item.ID] = item.clone()
		s.nextID = max(s.nextID, *item.ID)
	}
	return s
}

func (s *memoryStore) FindAll(_ context.Context) ([]*widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	return s.filter(func(*widget) bool { return true }), nil
}

func (s *memoryStore) FindByID(_ context.Context, id int) (*widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return row.clone(), nil
}

func (s *memoryStore) Save(_ context.Context, entity *widget) (*widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(entity)
}

func (s *memoryStore) save(entity *widget) (*widget, error) {
	s.calls++
	if s.failSave != nil {
		return nil, s.failSave
	}
	if s.failNth > 0 && s.calls == s.failNth {
		return nil, errStore
	}
	s.saves++
	row := entity.clone()
	if row.ID == nil {
		s.nextID++
		row.SetID(s.nextID)
	}
	s.rows[*row.ID] = row
	return row.clone(), nil
}

func (s *memoryStore) SaveAll(_ context.Context, entities []*widget) ([]*widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := make([]*widget, 0, len(entities))
	for _, entity := range entities {
		row, err := s.save(entity)
		if err != nil {
			return nil, err
		}
		saved = append(saved, row)
	}
	return saved, nil
}

func (s *memoryStore) Delete(_ context.Context, entity *widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, *entity.ID)
	return nil
}

func (s *memoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.rows)
	return nil
}

func (s *memoryStore) FindAllForAccount(_ context.Context, owner string) ([]*widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	return s.filter(func(w *widget) bool { return w.Audit != nil && w.Audit.CreatedBy == owner }), nil
}

func (s *memoryStore) DeleteAllForAccount(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.rows {
		if w.Audit != nil && w.Audit.CreatedBy == owner {
			delete(s.rows, id)
		}
	}
	return nil
}

func (s *memoryStore) filter(keep func(*widget) bool) []*widget {
	out := make([]*widget, 0, len(s.rows))
	for _, row := range s.rows {
		if keep(row) {
			out = append(out, row.clone())
		}
	}
	// map order is random; callers must not depend on store order
	slices.SortFunc(out, func(a, b *widget) int { return *b.ID - *a.ID })
	return out
}

func (s *memoryStore) row(id int) *widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[id]
}

// mapCache is a ListCache over a map
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]*widget
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]*widget)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]*widget, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, ok := c.entries[key]
	return slices.Clone(items), ok, nil
}

func (c *mapCache) Put(_ context.Context, key string, items []*widget) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = slices.Clone(items)
	return nil
}

func (c *mapCache) Evict(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *mapCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// MockListCache is a mock implementation of shared.ListCache
type MockListCache struct {
	mock.Mock
}

func (m *MockListCache) Get(ctx context.Context, key string) ([]*widget, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*widget), args.Bool(1), args.Error(2)
}

func (m *MockListCache) Put(ctx context.Context, key string, items []*widget) error {
	args := m.Called(ctx, key, items)
	return args.Error(0)
}

func (m *MockListCache) Evict(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockListCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// fixedAccount returns the same account for every context
type fixedAccount struct {
	account shared.Account
	err     error
}

func (f *fixedAccount) GetAccount(context.Context) (shared.Account, error) {
	return f.account, f.err
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var errStore = errors.New("store unavailable")

func ids(items []*widget) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, *item.ID)
	}
	return out
}

func positions(items []*widget) map[int]int {
	out := make(map[int]int, len(items))
	for _, item := range items {
		out[*item.ID] = *item.Position
	}
	return out
}
