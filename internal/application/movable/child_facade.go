package movable

import (
	"context"

	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/domain/shared/result"
)

// ChildFacade exposes a collection partitioned by parent.
// The parent reference is validated with EXISTS before the child itself.
type ChildFacade[A, S, P shared.Movable] struct {
	facade[A, S]
	parents  *Validator[P]
	parentOf func(S) int
	link     func(item S, parent int)
}

// NewChildFacade creates a new child facade.
// parentOf reads the parent id of a stored child, link sets it.
func NewChildFacade[A, S, P shared.Movable](
	service *Service[S],
	validator *Validator[A],
	parents *Validator[P],
	mapper Mapper[A, S],
	parentOf func(S) int,
	link func(item S, parent int),
	opts ...FacadeOption,
) *ChildFacade[A, S, P] {
	return &ChildFacade[A, S, P]{
		facade: facade[A, S]{
			service:      service,
			validator:    validator,
			mapper:       mapper,
			facadeConfig: newFacadeConfig(opts),
		},
		parents:  parents,
		parentOf: parentOf,
		link:     link,
	}
}

// Find returns the children of parent in order
func (f *ChildFacade[A, S, P]) Find(ctx context.Context, parent P) (*result.Result[[]A], error) {
	r, err := f.parents.Validate(ctx, parent, ValidationExists)
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return rejected[[]A](f.facadeConfig, "find", r), nil
	}

	items, err := f.service.Find(ctx, *parent.GetID())
	if err != nil {
		return nil, err
	}
	return result.Of(MapList(f.mapper, items)), nil
}

// Add validates parent as EXISTS and data as NEW, then stores data under parent
func (f *ChildFacade[A, S, P]) Add(ctx context.Context, parent P, data A) (*result.Result[A], error) {
	parentResult, err := f.parents.Validate(ctx, parent, ValidationExists)
	if err != nil {
		return nil, err
	}
	childResult, err := f.validator.Validate(ctx, data, ValidationNew)
	if err != nil {
		return nil, err
	}
	r := result.Merge[result.Unit](parentResult, childResult)
	if r.IsError() {
		return rejected[A](f.facadeConfig, "add", r), nil
	}

	item := f.mapper.MapBack(data)
	f.link(item, *parent.GetID())
	if f.auditor != nil {
		if err := f.auditor.Fresh(ctx, item); err != nil {
			return nil, err
		}
	}
	saved, err := f.service.Add(ctx, item)
	if err != nil {
		return nil, err
	}
	return withEvents(f.mapper.Map(saved), r), nil
}

// Update validates data as UPDATE and stores it under its current parent
func (f *ChildFacade[A, S, P]) Update(ctx context.Context, data A) (*result.Result[result.Unit], error) {
	return f.update(ctx, data, func(item, stored S) {
		f.link(item, f.parentOf(stored))
	})
}
