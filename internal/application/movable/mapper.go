package movable

// Mapper converts between the API shape A and the storage shape S
type Mapper[A, S any] interface {
	Map(source S) A
	MapBack(source A) S
}

// MapperFuncs adapts a pair of functions to Mapper
type MapperFuncs[A, S any] struct {
	To   func(S) A
	From func(A) S
}

// Map converts a stored value to its API shape
func (m MapperFuncs[A, S]) Map(source S) A {
	return m.To(source)
}

// MapBack converts an API value to its storage shape
func (m MapperFuncs[A, S]) MapBack(source A) S {
	return m.From(source)
}

// MapList maps every stored value, keeping order
func MapList[A, S any](m Mapper[A, S], items []S) []A {
	out := make([]A, 0, len(items))
	for _, item := range items {
		out = append(out, m.Map(item))
	}
	return out
}

// MapBackList maps every API value back, keeping order
func MapBackList[A, S any](m Mapper[A, S], items []A) []S {
	out := make([]S, 0, len(items))
	for _, item := range items {
		out = append(out, m.MapBack(item))
	}
	return out
}
