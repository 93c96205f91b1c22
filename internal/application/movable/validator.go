package movable

import (
	"context"
	"reflect"
	"slices"
	"strings"

	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/domain/shared/result"
)

// ValidationType selects the checks a Validator runs
type ValidationType string

const (
	// ValidationNew checks a record about to be created. Implies ValidationDeep.
	ValidationNew ValidationType = "NEW"
	// ValidationUpdate checks a record about to be updated. Implies ValidationExists and ValidationDeep.
	ValidationUpdate ValidationType = "UPDATE"
	// ValidationExists checks that the record is stored
	ValidationExists ValidationType = "EXISTS"
	// ValidationDeep runs the entity specific rules
	ValidationDeep ValidationType = "DEEP"
	// ValidationUp checks that the record has a preceding sibling
	ValidationUp ValidationType = "UP"
	// ValidationDown checks that the record has a following sibling
	ValidationDown ValidationType = "DOWN"
)

// Source is the read-only lookup a Validator checks existence and order against
type Source interface {
	Contains(ctx context.Context, id int) (bool, error)
	OrderOf(ctx context.Context, id int) (index, count int, err error)
}

// Rule adds entity specific events to r.
// An error is reserved for infrastructure failures and aborts validation.
type Rule[T any] func(ctx context.Context, data T, r *result.Result[result.Unit]) error

// Validator decides whether a movable may be created, updated, referenced or moved.
// Every requested check runs and contributes to the same result; nothing short-circuits except a nil value.
type Validator[T shared.Movable] struct {
	name   string
	prefix string
	source Source
	rules  []Rule[T]
}

// NewValidator creates a new validator. name is used in messages, its upper-cased form prefixes event keys.
func NewValidator[T shared.Movable](name string, source Source, rules ...Rule[T]) *Validator[T] {
	return &Validator[T]{
		name:   name,
		prefix: strings.ToUpper(strings.ReplaceAll(name, " ", "_")),
		source: source,
		rules:  rules,
	}
}

// Prefix returns the event key prefix
func (v *Validator[T]) Prefix() string {
	return v.prefix
}

// Validate runs the checks implied by types in the order structural, existence, deep, move.
func (v *Validator[T]) Validate(ctx context.Context, data T, types ...ValidationType) (*result.Result[result.Unit], error) {
	r := result.New[result.Unit]()
	if isNil(data) {
		r.AddEvent(result.NewEvent(result.SeverityError, v.prefix+"_NULL", v.name+" mustn't be null."))
		return r, nil
	}

	checks := expand(types)

	if slices.Contains(checks, ValidationNew) {
		if data.GetID() != nil {
			r.AddEvent(v.event("_ID_NOT_NULL", "ID must be null."))
		}
		if data.GetPosition() != nil {
			r.AddEvent(v.event("_POSITION_NOT_NULL", "Position must be null."))
		}
	}
	if slices.Contains(checks, ValidationUpdate) {
		if data.GetID() == nil {
			r.AddEvent(v.event("_ID_NULL", "ID mustn't be null."))
		}
		if data.GetPosition() == nil {
			r.AddEvent(v.event("_POSITION_NULL", "Position mustn't be null."))
		}
	}

	exists := false
	if slices.Contains(checks, ValidationExists) {
		if data.GetID() == nil {
			if !r.HasKey(v.prefix + "_ID_NULL") {
				r.AddEvent(v.event("_ID_NULL", "ID mustn't be null."))
			}
		} else {
			found, err := v.source.Contains(ctx, *data.GetID())
			if err != nil {
				return nil, err
			}
			if !found {
				r.AddEvent(v.event("_"+result.NotExistKey, v.name+" doesn't exist."))
			}
			exists = found
		}
	}

	if slices.Contains(checks, ValidationDeep) {
		for _, rule := range v.rules {
			if err := rule(ctx, data, r); err != nil {
				return nil, err
			}
		}
	}

	up, down := slices.Contains(checks, ValidationUp), slices.Contains(checks, ValidationDown)
	if (up || down) && data.GetID() != nil && (exists || !slices.Contains(checks, ValidationExists)) {
		index, count, err := v.source.OrderOf(ctx, *data.GetID())
		if err != nil {
			return nil, err
		}
		if up && index <= 0 {
			r.AddEvent(v.event("_NOT_MOVABLE", v.name+" can't be moved up."))
		}
		if down && (index < 0 || index >= count-1) {
			r.AddEvent(v.event("_NOT_MOVABLE", v.name+" can't be moved down."))
		}
	}

	return r, nil
}

func (v *Validator[T]) event(suffix, message string) result.Event {
	return result.NewEvent(result.SeverityError, v.prefix+suffix, message)
}

// expand adds the checks implied by NEW and UPDATE
func expand(types []ValidationType) []ValidationType {
	checks := slices.Clone(types)
	add := func(t ValidationType) {
		if !slices.Contains(checks, t) {
			checks = append(checks, t)
		}
	}
	if slices.Contains(types, ValidationNew) {
		add(ValidationDeep)
	}
	if slices.Contains(types, ValidationUpdate) {
		add(ValidationExists)
		add(ValidationDeep)
	}
	return checks
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
