package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_Status(t *testing.T) {
	tests := []struct {
		name     string
		events   []Event
		expected Status
	}{
		{
			name:     "empty result is OK",
			expected: StatusOK,
		},
		{
			name:     "info only is OK",
			events:   []Event{NewEvent(SeverityInfo, "KEY", "info")},
			expected: StatusOK,
		},
		{
			name: "warn without error is WARN",
			events: []Event{
				NewEvent(SeverityInfo, "KEY", "info"),
				NewEvent(SeverityWarn, "KEY", "warn"),
			},
			expected: StatusWarn,
		},
		{
			name: "error wins regardless of order",
			events: []Event{
				NewEvent(SeverityError, "KEY", "error"),
				NewEvent(SeverityWarn, "KEY", "warn"),
				NewEvent(SeverityInfo, "KEY", "info"),
			},
			expected: StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New[Unit]()
			r.AddEvents(tt.events...)

			assert.Equal(t, tt.expected, r.Status())
			assert.Equal(t, tt.expected != StatusError, r.IsOk())
			assert.Equal(t, tt.expected == StatusError, r.IsError())
		})
	}
}

func TestResult_StatusFollowsEvents(t *testing.T) {
	r := Of(42)
	assert.Equal(t, StatusOK, r.Status())

	r.AddEvent(NewEvent(SeverityWarn, "W", "warn"))
	assert.Equal(t, StatusWarn, r.Status())

	r.AddEvent(NewEvent(SeverityError, "E", "error"))
	assert.Equal(t, StatusError, r.Status())
}

func TestOf(t *testing.T) {
	r := Of("data")

	data, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, "data", data)
	assert.Empty(t, r.Events())
	assert.True(t, r.IsOk())
}

func TestError(t *testing.T) {
	r := Error[Unit]("MUSIC_NOT_EXIST", "Music doesn't exist.")

	assert.False(t, r.HasData())
	require.Len(t, r.Events(), 1)
	assert.Equal(t, NewEvent(SeverityError, "MUSIC_NOT_EXIST", "Music doesn't exist."), r.Events()[0])
	assert.True(t, r.IsNotFound())
}

func TestResult_AddEventKeepsOrderAndDuplicates(t *testing.T) {
	r := New[Unit]()
	first := NewEvent(SeverityError, "A", "a")
	second := NewEvent(SeverityInfo, "B", "b")

	r.AddEvent(first)
	r.AddEvent(second)
	r.AddEvent(first)

	assert.Equal(t, []Event{first, second, first}, r.Events())
}

func TestResult_EventsReturnsCopy(t *testing.T) {
	r := New[Unit]()
	r.AddEvent(NewEvent(SeverityError, "A", "a"))

	events := r.Events()
	events[0] = NewEvent(SeverityInfo, "B", "b")

	assert.Equal(t, "A", r.Events()[0].Key)
	assert.True(t, r.IsError())
}

func TestMerge(t *testing.T) {
	parent := Error[Unit]("MUSIC_NOT_EXIST", "Music doesn't exist.")
	child := New[Unit]()
	child.AddEvent(NewEvent(SeverityWarn, "SONG_NOTE_LONG", "Note is long."))

	merged := Merge[[]string](parent, nil, child)

	assert.False(t, merged.HasData())
	assert.Equal(t, []string{"MUSIC_NOT_EXIST", "SONG_NOTE_LONG"}, keys(merged.Events()))
	assert.Equal(t, StatusError, merged.Status())
}

func TestResult_IsNotFound(t *testing.T) {
	r := New[Unit]()
	r.AddEvent(NewEvent(SeverityWarn, "MUSIC_NOT_EXIST", "warn only"))
	assert.False(t, r.IsNotFound())

	r.AddEvent(NewEvent(SeverityError, "MUSIC_NAME_EMPTY", "Name mustn't be empty."))
	assert.False(t, r.IsNotFound())

	r.AddEvent(NewEvent(SeverityError, "SONG_NOT_EXIST", "Song doesn't exist."))
	assert.True(t, r.IsNotFound())
	assert.True(t, r.HasKey("MUSIC_NAME_EMPTY"))
	assert.False(t, r.HasKey("MUSIC"))
}

func TestSeverityAndStatusNames(t *testing.T) {
	assert.Equal(t, "INFO", SeverityInfo.String())
	assert.Equal(t, "WARN", SeverityWarn.String())
	assert.Equal(t, "ERROR", SeverityError.String())
	assert.Equal(t, "OK", StatusOK.String())
	assert.Equal(t, "WARN", StatusWarn.String())
	assert.Equal(t, "ERROR", StatusError.String())
	assert.True(t, SeverityInfo < SeverityWarn && SeverityWarn < SeverityError)
}

func keys(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Key)
	}
	return out
}
