package movable

import (
	"context"

	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/domain/shared/result"
	"go.uber.org/zap"
)

// Invalidator drops cached state derived from another collection
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// FacadeOption is a functional option shared by parent and child facades
type FacadeOption func(*facadeConfig)

type facadeConfig struct {
	logger     *zap.Logger
	auditor    *Auditor
	dependents []Invalidator
}

// WithFacadeLogger sets the logger
func WithFacadeLogger(logger *zap.Logger) FacadeOption {
	return func(c *facadeConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFacadeAuditor stamps audits on added and updated records
func WithFacadeAuditor(auditor *Auditor) FacadeOption {
	return func(c *facadeConfig) {
		c.auditor = auditor
	}
}

// WithDependents registers collections whose records are removed together with this one's
func WithDependents(dependents ...Invalidator) FacadeOption {
	return func(c *facadeConfig) {
		c.dependents = append(c.dependents, dependents...)
	}
}

func newFacadeConfig(opts []FacadeOption) facadeConfig {
	c := facadeConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// facade holds the validate-then-act operations common to parent and child facades.
// A mutation reaches the service only when validation produced no ERROR event.
type facade[A, S shared.Movable] struct {
	service   *Service[S]
	validator *Validator[A]
	mapper    Mapper[A, S]
	facadeConfig
}

// rejected logs and converts a failed validation into the operation's result type
func rejected[T any](f facadeConfig, op string, r *result.Result[result.Unit]) *result.Result[T] {
	keys := make([]string, 0, len(r.Events()))
	for _, e := range r.Events() {
		keys = append(keys, e.Key)
	}
	f.logger.Debug("Operation rejected by validation",
		zap.String("operation", op),
		zap.Strings("events", keys))
	return result.Merge[T](r)
}

// withEvents wraps data and keeps the non-blocking events of validation
func withEvents[T any](data T, r *result.Result[result.Unit]) *result.Result[T] {
	out := result.Of(data)
	out.AddEvents(r.Events()...)
	return out
}

func (f *facade[A, S]) notExist() *result.Result[result.Unit] {
	return result.Error[result.Unit](f.validator.Prefix()+"_"+result.NotExistKey, f.validator.name+" doesn't exist.")
}

// stored validates data with EXISTS plus extra checks and loads the stored record
func (f *facade[A, S]) stored(ctx context.Context, op string, data A, extra ...ValidationType) (S, *result.Result[result.Unit], error) {
	var zero S
	r, err := f.validator.Validate(ctx, data, append([]ValidationType{ValidationExists}, extra...)...)
	if err != nil {
		return zero, nil, err
	}
	if r.IsError() {
		return zero, rejected[result.Unit](f.facadeConfig, op, r), nil
	}
	item, found, err := f.service.Get(ctx, *data.GetID())
	if err != nil {
		return zero, nil, err
	}
	if !found {
		return zero, f.notExist(), nil
	}
	return item, r, nil
}

func (f *facade[A, S]) invalidateDependents(ctx context.Context) error {
	for _, dependent := range f.dependents {
		if err := dependent.Invalidate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the record with the id, or a NOT_EXIST error result
func (f *facade[A, S]) Get(ctx context.Context, id int) (*result.Result[A], error) {
	item, found, err := f.service.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return result.Merge[A](f.notExist()), nil
	}
	return result.Of(f.mapper.Map(item)), nil
}

// update stores data over the existing record, keeping fields fix may restore from it
func (f *facade[A, S]) update(ctx context.Context, data A, fix func(item, stored S)) (*result.Result[result.Unit], error) {
	r, err := f.validator.Validate(ctx, data, ValidationUpdate)
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return rejected[result.Unit](f.facadeConfig, "update", r), nil
	}

	stored, found, err := f.service.Get(ctx, *data.GetID())
	if err != nil {
		return nil, err
	}
	if !found {
		return f.notExist(), nil
	}

	item := f.mapper.MapBack(data)
	if fix != nil {
		fix(item, stored)
	}
	if f.auditor != nil {
		if err := f.auditor.Carry(ctx, item, stored); err != nil {
			return nil, err
		}
	}
	if _, err := f.service.Update(ctx, item); err != nil {
		return nil, err
	}
	return r, nil
}

// Remove deletes the record
func (f *facade[A, S]) Remove(ctx context.Context, data A) (*result.Result[result.Unit], error) {
	stored, r, err := f.stored(ctx, "remove", data)
	if err != nil || r.IsError() {
		return r, err
	}
	if err := f.service.Remove(ctx, stored); err != nil {
		return nil, err
	}
	if err := f.invalidateDependents(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Duplicate stores a copy of the record and returns it
func (f *facade[A, S]) Duplicate(ctx context.Context, data A) (*result.Result[A], error) {
	stored, r, err := f.stored(ctx, "duplicate", data)
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return result.Merge[A](r), nil
	}
	copied, err := f.service.Duplicate(ctx, stored)
	if err != nil {
		return nil, err
	}
	return withEvents(f.mapper.Map(copied), r), nil
}

// MoveUp swaps the record with its preceding sibling
func (f *facade[A, S]) MoveUp(ctx context.Context, data A) (*result.Result[result.Unit], error) {
	stored, r, err := f.stored(ctx, "move_up", data, ValidationUp)
	if err != nil || r.IsError() {
		return r, err
	}
	if err := f.service.MoveUp(ctx, stored); err != nil {
		return nil, err
	}
	return r, nil
}

// MoveDown swaps the record with its following sibling
func (f *facade[A, S]) MoveDown(ctx context.Context, data A) (*result.Result[result.Unit], error) {
	stored, r, err := f.stored(ctx, "move_down", data, ValidationDown)
	if err != nil || r.IsError() {
		return r, err
	}
	if err := f.service.MoveDown(ctx, stored); err != nil {
		return nil, err
	}
	return r, nil
}
