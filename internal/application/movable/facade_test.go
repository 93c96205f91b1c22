package movable

import (
	"context"
	"testing"
	"time"

	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/domain/shared/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widgetFixture struct {
	store    *memoryStore
	cache    *mapCache
	service  *Service[*widget]
	facade   *ParentFacade[*widgetData, *widget]
	accounts *fixedAccount
	clock    fixedClock
}

func newWidgetFixture(t *testing.T, opts ...FacadeOption) *widgetFixture {
	t.Helper()
	f := &widgetFixture{
		store:    newMemoryStore(newWidget(1, 0), newWidget(2, 1), newWidget(3, 2)),
		cache:    newMapCache(),
		accounts: &fixedAccount{account: shared.Account{UUID: "alice"}},
		clock:    fixedClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.service = NewService[*widget]("widgets", f.store, f.cache, copyWidget)
	f.facade = NewParentFacade(f.service, newWidgetValidator(f.service), widgetMapper, opts...)
	return f
}

func dataIDs(items []*widgetData) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, *item.ID)
	}
	return out
}

func TestParentFacade_GetAll(t *testing.T) {
	f := newWidgetFixture(t)

	r, err := f.facade.GetAll(context.Background())

	require.NoError(t, err)
	data, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, dataIDs(data))
}

func TestParentFacade_Get(t *testing.T) {
	f := newWidgetFixture(t)
	ctx := context.Background()

	r, err := f.facade.Get(ctx, 2)
	require.NoError(t, err)
	data, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, 2, *data.ID)

	r, err = f.facade.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, r.HasData())
	assert.True(t, r.IsNotFound())
	assert.True(t, r.HasKey("WIDGET_NOT_EXIST"))
}

func TestParentFacade_Add(t *testing.T) {
	t.Run("rejected data never reaches the store", func(t *testing.T) {
		f := newWidgetFixture(t)

		r, err := f.facade.Add(context.Background(), &widgetData{ID: intPtr(5), Name: "name"})

		require.NoError(t, err)
		assert.Equal(t, result.StatusError, r.Status())
		assert.False(t, r.HasData())
		require.Len(t, r.Events(), 1)
		assert.Equal(t, 0, f.store.saves)
	})

	t.Run("valid data is stored with a fresh audit", func(t *testing.T) {
		f := newWidgetFixture(t)
		f.facade = NewParentFacade(f.service, newWidgetValidator(f.service), widgetMapper,
			WithFacadeAuditor(NewAuditor(f.accounts, f.clock)))

		r, err := f.facade.Add(context.Background(), &widgetData{Name: "name", Note: "a rather long note"})

		require.NoError(t, err)
		assert.Equal(t, result.StatusWarn, r.Status())
		data, ok := r.Data()
		require.True(t, ok)
		assert.Equal(t, 4, *data.ID)
		assert.Equal(t, 3, *data.Position)
		assert.Equal(t, shared.NewAudit("alice", f.clock.now), f.store.row(4).Audit)
	})
}

func TestParentFacade_Update(t *testing.T) {
	t.Run("keeps the stored audit creator", func(t *testing.T) {
		f := newWidgetFixture(t)
		created := f.clock.now.Add(-24 * time.Hour)
		stored := newWidget(4, 3)
		stored.Audit = shared.NewAudit("bob", created)
		f.store = newMemoryStore(newWidget(1, 0), stored)
		f.service = NewService[*widget]("widgets", f.store, f.cache, copyWidget)
		f.facade = NewParentFacade(f.service, newWidgetValidator(f.service), widgetMapper,
			WithFacadeAuditor(NewAuditor(f.accounts, f.clock)))

		r, err := f.facade.Update(context.Background(), &widgetData{ID: intPtr(4), Position: intPtr(3), Name: "renamed"})

		require.NoError(t, err)
		assert.True(t, r.IsOk())
		row := f.store.row(4)
		assert.Equal(t, "renamed", row.Name)
		assert.Equal(t, &shared.Audit{CreatedBy: "bob", CreatedAt: created, UpdatedBy: "alice", UpdatedAt: f.clock.now}, row.Audit)
	})

	t.Run("missing record", func(t *testing.T) {
		f := newWidgetFixture(t)

		r, err := f.facade.Update(context.Background(), &widgetData{ID: intPtr(9), Position: intPtr(0), Name: "x"})

		require.NoError(t, err)
		assert.True(t, r.IsNotFound())
		assert.Equal(t, 0, f.store.saves)
	})
}

func TestParentFacade_Remove(t *testing.T) {
	dependent := newMapCache()
	dependent.entries["children"] = []*widget{newWidget(7, 0)}
	dependents := NewService[*widget]("children", newMemoryStore(), dependent, copyWidget)
	f := newWidgetFixture(t, WithDependents(dependents))
	ctx := context.Background()

	r, err := f.facade.Remove(ctx, &widgetData{ID: intPtr(2)})
	require.NoError(t, err)
	assert.True(t, r.IsOk())
	assert.Nil(t, f.store.row(2))
	assert.False(t, dependent.has("children"))

	r, err = f.facade.Remove(ctx, &widgetData{ID: intPtr(2)})
	require.NoError(t, err)
	assert.True(t, r.IsNotFound())
}

func TestParentFacade_Duplicate(t *testing.T) {
	f := newWidgetFixture(t)

	r, err := f.facade.Duplicate(context.Background(), &widgetData{ID: intPtr(1)})

	require.NoError(t, err)
	data, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, 4, *data.ID)
	all, err := f.facade.GetAll(context.Background())
	require.NoError(t, err)
	items, _ := all.Data()
	assert.Len(t, items, 4)
}

func TestParentFacade_Move(t *testing.T) {
	f := newWidgetFixture(t)
	ctx := context.Background()

	r, err := f.facade.MoveUp(ctx, &widgetData{ID: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"WIDGET_NOT_MOVABLE"}, eventKeys(r))

	r, err = f.facade.MoveDown(ctx, &widgetData{ID: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, []string{"WIDGET_NOT_MOVABLE"}, eventKeys(r))
	assert.Equal(t, 0, f.store.saves)

	r, err = f.facade.MoveDown(ctx, &widgetData{ID: intPtr(1)})
	require.NoError(t, err)
	assert.True(t, r.IsOk())
	assert.Equal(t, 1, *f.store.row(1).Position)
	assert.Equal(t, 0, *f.store.row(2).Position)
}

func TestParentFacade_UpdatePositionsAndNewData(t *testing.T) {
	f := newWidgetFixture(t)
	ctx := context.Background()
	_, err := f.facade.Remove(ctx, &widgetData{ID: intPtr(1)})
	require.NoError(t, err)

	r, err := f.facade.UpdatePositions(ctx)
	require.NoError(t, err)
	assert.True(t, r.IsOk())
	assert.Equal(t, 0, *f.store.row(2).Position)
	assert.Equal(t, 1, *f.store.row(3).Position)

	r, err = f.facade.NewData(ctx)
	require.NoError(t, err)
	assert.True(t, r.IsOk())
	assert.Empty(t, f.store.rows)
}

func newChildFixture(t *testing.T) (*ChildFacade[*widgetData, *widget, *widgetData], *memoryStore) {
	t.Helper()
	parents := NewService[*widget]("parents", newMemoryStore(newWidget(10, 0), newWidget(20, 1)), newMapCache(), copyWidget)
	c1, c2, other := newWidget(1, 0), newWidget(2, 1), newWidget(3, 2)
	c1.Parent, c2.Parent, other.Parent = 10, 10, 20
	store := newMemoryStore(c1, c2, other)
	parentOf := func(w *widget) int { return w.Parent }
	children := NewService[*widget]("children", store, newMapCache(), copyWidget, WithParent(parentOf))

	facade := NewChildFacade(
		children,
		NewValidator("Child", children, NewTagRules[*widgetData]("CHILD").Rule()),
		NewValidator[*widgetData]("Parent", parents),
		widgetMapper,
		parentOf,
		func(w *widget, parent int) { w.Parent = parent },
	)
	return facade, store
}

func TestChildFacade_Find(t *testing.T) {
	facade, _ := newChildFixture(t)
	ctx := context.Background()

	r, err := facade.Find(ctx, &widgetData{ID: intPtr(10)})
	require.NoError(t, err)
	data, _ := r.Data()
	assert.Equal(t, []int{1, 2}, dataIDs(data))

	r, err = facade.Find(ctx, &widgetData{ID: intPtr(99)})
	require.NoError(t, err)
	assert.Equal(t, []string{"PARENT_NOT_EXIST"}, eventKeys(result.Merge[result.Unit](r)))
}

func TestChildFacade_Add(t *testing.T) {
	t.Run("parent events come before child events", func(t *testing.T) {
		facade, store := newChildFixture(t)

		r, err := facade.Add(context.Background(), &widgetData{ID: intPtr(99)}, &widgetData{ID: intPtr(1)})

		require.NoError(t, err)
		assert.Equal(t, []string{"PARENT_NOT_EXIST", "CHILD_ID_NOT_NULL", "CHILD_NAME_EMPTY"}, eventKeys(result.Merge[result.Unit](r)))
		assert.Equal(t, 0, store.saves)
	})

	t.Run("stores the child under the parent", func(t *testing.T) {
		facade, store := newChildFixture(t)

		r, err := facade.Add(context.Background(), &widgetData{ID: intPtr(20)}, &widgetData{Name: "child"})

		require.NoError(t, err)
		data, ok := r.Data()
		require.True(t, ok)
		assert.Equal(t, 20, store.row(*data.ID).Parent)
	})
}

func TestChildFacade_UpdateKeepsParent(t *testing.T) {
	facade, store := newChildFixture(t)

	r, err := facade.Update(context.Background(), &widgetData{ID: intPtr(2), Position: intPtr(1), Name: "renamed"})

	require.NoError(t, err)
	assert.True(t, r.IsOk())
	assert.Equal(t, 10, store.row(2).Parent)
	assert.Equal(t, "renamed", store.row(2).Name)
}

func TestChildFacade_MoveAmongSiblings(t *testing.T) {
	facade, store := newChildFixture(t)
	ctx := context.Background()

	r, err := facade.MoveDown(ctx, &widgetData{ID: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, []string{"CHILD_NOT_MOVABLE"}, eventKeys(r))

	r, err = facade.MoveUp(ctx, &widgetData{ID: intPtr(2)})
	require.NoError(t, err)
	assert.True(t, r.IsOk())
	assert.Equal(t, 0, *store.row(2).Position)
	assert.Equal(t, 1, *store.row(1).Position)
}
