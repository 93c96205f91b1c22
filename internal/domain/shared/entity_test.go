package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type item struct {
	id       *int
	position *int
}

func (i *item) GetID() *int              { return i.id }
func (i *item) SetID(id int)             { i.id = &id }
func (i *item) GetPosition() *int        { return i.position }
func (i *item) SetPosition(position int) { i.position = &position }

func newItem(id, position int) *item {
	return &item{id: &id, position: &position}
}

func ids(items []*item) []int {
	out := make([]int, 0, len(items))
	for _, i := range items {
		if i.id == nil {
			out = append(out, -1)
			continue
		}
		out = append(out, *i.id)
	}
	return out
}

func TestSortMovables(t *testing.T) {
	t.Run("orders by position then id", func(t *testing.T) {
		items := []*item{newItem(3, 1), newItem(1, 2), newItem(2, 1), newItem(4, 0)}

		SortMovables(items)

		assert.Equal(t, []int{4, 2, 3, 1}, ids(items))
		assert.True(t, IsSorted(items))
	})

	t.Run("unset values sort first", func(t *testing.T) {
		noPosition := &item{}
		noPosition.SetID(9)
		items := []*item{newItem(1, 0), noPosition, {}}

		SortMovables(items)

		assert.Equal(t, []int{-1, 9, 1}, ids(items))
	})

	t.Run("empty list", func(t *testing.T) {
		var items []*item
		SortMovables(items)
		assert.True(t, IsSorted(items))
	})
}

func TestIndexOf(t *testing.T) {
	items := []*item{newItem(1, 0), newItem(2, 1), {}}

	assert.Equal(t, 0, IndexOf(items, 1))
	assert.Equal(t, 1, IndexOf(items, 2))
	assert.Equal(t, -1, IndexOf(items, 3))
}

func TestModify(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	t.Run("initializes all fields when no audit exists", func(t *testing.T) {
		audit := Modify(nil, "alice", updated)

		assert.Equal(t, &Audit{CreatedBy: "alice", CreatedAt: updated, UpdatedBy: "alice", UpdatedAt: updated}, audit)
	})

	t.Run("keeps the created pair", func(t *testing.T) {
		existing := NewAudit("alice", created)

		audit := Modify(existing, "bob", updated)

		assert.Equal(t, "alice", audit.CreatedBy)
		assert.Equal(t, created, audit.CreatedAt)
		assert.Equal(t, "bob", audit.UpdatedBy)
		assert.Equal(t, updated, audit.UpdatedAt)
		// the original is untouched
		assert.Equal(t, "alice", existing.UpdatedBy)
		assert.Equal(t, created, existing.UpdatedAt)
	})
}

func TestAccount_IsAdmin(t *testing.T) {
	assert.True(t, Account{Roles: []string{"ROLE_USER", RoleAdmin}}.IsAdmin())
	assert.False(t, Account{Roles: []string{"ROLE_USER"}}.IsAdmin())
	assert.False(t, Account{}.IsAdmin())
}
