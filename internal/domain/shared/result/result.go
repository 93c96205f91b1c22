// Package result carries validation outcomes and their aggregate status.
package result

import "strings"

// Severity represents the severity of an event
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

// String returns the severity name
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Status represents the aggregate status of a result
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusError
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarn:
		return "WARN"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// NotExistKey is the key fragment marking not-found events
const NotExistKey = "NOT_EXIST"

// Event is a single validation outcome. It is a value type and never changes once built.
type Event struct {
	Severity Severity `json:"severity"`
	Key      string   `json:"key"`
	Message  string   `json:"message"`
}

// NewEvent creates a new event
func NewEvent(severity Severity, key, message string) Event {
	return Event{Severity: severity, Key: key, Message: message}
}

// Unit is the payload of results that carry only events
type Unit struct{}

// Result holds optional data and an ordered list of events
type Result[T any] struct {
	data    T
	hasData bool
	events  []Event
}

// New creates an empty result
func New[T any]() *Result[T] {
	return &Result[T]{}
}

// Of creates a result holding data and no events
func Of[T any](data T) *Result[T] {
	return &Result[T]{data: data, hasData: true}
}

// Error creates a result without data and with one ERROR event
func Error[T any](key, message string) *Result[T] {
	r := New[T]()
	r.AddEvent(NewEvent(SeverityError, key, message))
	return r
}

// Merge creates a result holding the events of all given results, in order
func Merge[T any, U any](results ...*Result[U]) *Result[T] {
	r := New[T]()
	for _, other := range results {
		if other != nil {
			r.AddEvents(other.events...)
		}
	}
	return r
}

// AddEvent appends an event
func (r *Result[T]) AddEvent(event Event) {
	r.events = append(r.events, event)
}

// AddEvents appends events, preserving their order
func (r *Result[T]) AddEvents(events ...Event) {
	r.events = append(r.events, events...)
}

// Events returns a copy of the events
func (r *Result[T]) Events() []Event {
	events := make([]Event, len(r.events))
	copy(events, r.events)
	return events
}

// Data returns the data and whether it is present
func (r *Result[T]) Data() (T, bool) {
	return r.data, r.hasData
}

// HasData reports whether the result carries data
func (r *Result[T]) HasData() bool {
	return r.hasData
}

// Status returns the highest severity among events, OK when there are none.
func (r *Result[T]) Status() Status {
	status := StatusOK
	for _, e := range r.events {
		switch e.Severity {
		case SeverityError:
			return StatusError
		case SeverityWarn:
			status = StatusWarn
		}
	}
	return status
}

// IsOk reports whether the result carries no ERROR event
func (r *Result[T]) IsOk() bool {
	return r.Status() != StatusError
}

// IsError reports whether the result carries an ERROR event
func (r *Result[T]) IsError() bool {
	return r.Status() == StatusError
}

// IsNotFound reports whether any ERROR event signals a missing record
func (r *Result[T]) IsNotFound() bool {
	for _, e := range r.events {
		if e.Severity == SeverityError && strings.Contains(e.Key, NotExistKey) {
			return true
		}
	}
	return false
}

// HasKey reports whether an event with the key exists
func (r *Result[T]) HasKey(key string) bool {
	for _, e := range r.events {
		if e.Key == key {
			return true
		}
	}
	return false
}
