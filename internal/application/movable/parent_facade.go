package movable

import (
	"context"

	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/domain/shared/result"
)

// ParentFacade exposes a top-level collection as validate-then-act operations
type ParentFacade[A, S shared.Movable] struct {
	facade[A, S]
}

// NewParentFacade creates a new parent facade
func NewParentFacade[A, S shared.Movable](
	service *Service[S],
	validator *Validator[A],
	mapper Mapper[A, S],
	opts ...FacadeOption,
) *ParentFacade[A, S] {
	return &ParentFacade[A, S]{
		facade: facade[A, S]{
			service:      service,
			validator:    validator,
			mapper:       mapper,
			facadeConfig: newFacadeConfig(opts),
		},
	}
}

// GetAll returns the whole collection in order
func (f *ParentFacade[A, S]) GetAll(ctx context.Context) (*result.Result[[]A], error) {
	items, err := f.service.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return result.Of(MapList(f.mapper, items)), nil
}

// NewData deletes the collection together with its dependents' cached state
func (f *ParentFacade[A, S]) NewData(ctx context.Context) (*result.Result[result.Unit], error) {
	if err := f.service.NewData(ctx); err != nil {
		return nil, err
	}
	if err := f.invalidateDependents(ctx); err != nil {
		return nil, err
	}
	return result.New[result.Unit](), nil
}

// Add validates data as NEW and stores it
func (f *ParentFacade[A, S]) Add(ctx context.Context, data A) (*result.Result[A], error) {
	r, err := f.validator.Validate(ctx, data, ValidationNew)
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return rejected[A](f.facadeConfig, "add", r), nil
	}

	item := f.mapper.MapBack(data)
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

// Update validates data as UPDATE and stores it over the existing record
func (f *ParentFacade[A, S]) Update(ctx context.Context, data A) (*result.Result[result.Unit], error) {
	return f.update(ctx, data, nil)
}

// UpdatePositions renumbers the collection to 0..n-1
func (f *ParentFacade[A, S]) UpdatePositions(ctx context.Context) (*result.Result[result.Unit], error) {
	if err := f.service.UpdatePositions(ctx); err != nil {
		return nil, err
	}
	return result.New[result.Unit](), nil
}
