package shared

import (
	"cmp"
	"slices"
)

// Identifiable is an entity with an optional store-assigned identity.
// GetID returns nil until the entity has been persisted.
type Identifiable interface {
	GetID() *int
	SetID(id int)
}

// Movable is an identifiable entity with a sequence position inside its collection
type Movable interface {
	Identifiable
	GetPosition() *int
	SetPosition(position int)
}

// Auditable is an entity carrying an audit record
type Auditable interface {
	GetAudit() *Audit
	SetAudit(audit *Audit)
}

// CompareMovables orders movables by (position, id). Unset values sort first.
func CompareMovables[T Movable](a, b T) int {
	if c := compareOptional(a.GetPosition(), b.GetPosition()); c != 0 {
		return c
	}
	return compareOptional(a.GetID(), b.GetID())
}

// SortMovables sorts items in place by (position, id)
func SortMovables[T Movable](items []T) {
	slices.SortStableFunc(items, CompareMovables[T])
}

// IsSorted reports whether items are ordered by (position, id)
func IsSorted[T Movable](items []T) bool {
	return slices.IsSortedFunc(items, CompareMovables[T])
}

// IndexOf returns the index of the item with the given id, or -1
func IndexOf[T Movable](items []T, id int) int {
	return slices.IndexFunc(items, func(item T) bool {
		return SameID(item.GetID(), id)
	})
}

// SameID reports whether an optional id equals id
func SameID(candidate *int, id int) bool {
	return candidate != nil && *candidate == id
}

func compareOptional(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}
