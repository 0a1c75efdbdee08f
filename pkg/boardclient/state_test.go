package boardclient

import (
	"fmt"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEvent(t *testing.T, eventType string, data interface{}) *Event {
	t.Helper()
	payload, err := sonic.Marshal(data)
	require.NoError(t, err)
	return &Event{Type: eventType, Data: payload}
}

func noteIDs(notes []*Note) []string {
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestStateNoteCreatedPrepends(t *testing.T) {
	s := NewState(nil)

	s.ApplyEvent(makeEvent(t, eventNoteCreated, &Note{ID: "note-1", Content: "first"}))
	s.ApplyEvent(makeEvent(t, eventNoteCreated, &Note{ID: "note-2", Content: "second"}))

	assert.Equal(t, []string{"note-2", "note-1"}, noteIDs(s.Notes()))
}

func TestStateNoteCreatedReplayedIsIdempotent(t *testing.T) {
	s := NewState(nil)
	event := makeEvent(t, eventNoteCreated, &Note{ID: "note-1", Content: "once"})

	s.ApplyEvent(event)
	s.ApplyEvent(event)

	notes := s.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "once", notes[0].Content)
}

func TestStateNoteUpdatedReplacesByID(t *testing.T) {
	s := NewState(nil)
	s.ApplyEvent(makeEvent(t, eventNoteCreated, &Note{ID: "note-1", Content: "old"}))

	update := makeEvent(t, eventNoteUpdated, &Note{ID: "note-1", Content: "new"})
	s.ApplyEvent(update)
	s.ApplyEvent(update)

	notes := s.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "new", notes[0].Content)
}

func TestStateNoteDeletedRemovesByID(t *testing.T) {
	s := NewState(nil)
	s.ApplyEvent(makeEvent(t, eventNoteCreated, &Note{ID: "note-1"}))
	s.ApplyEvent(makeEvent(t, eventNoteCreated, &Note{ID: "note-2"}))

	deleted := makeEvent(t, eventNoteDeleted, &deletedPayload{ID: "note-1"})
	s.ApplyEvent(deleted)
	s.ApplyEvent(deleted)

	assert.Equal(t, []string{"note-2"}, noteIDs(s.Notes()))
}

func TestStatePositionUpdatedMovesInPlace(t *testing.T) {
	s := NewState(nil)
	s.ApplyEvent(makeEvent(t, eventNoteCreated, &Note{ID: "note-1", Content: "keep me"}))

	s.ApplyEvent(makeEvent(t, eventPositionUpdated, &positionPayload{ID: "note-1", Position: Position{X: 42, Y: 24}}))

	note, ok := s.NoteByID("note-1")
	require.True(t, ok)
	assert.Equal(t, 42.0, note.Position.X)
	assert.Equal(t, 24.0, note.Position.Y)
	assert.Equal(t, "keep me", note.Content)
}

func TestStatePositionUpdatedUnknownIDIgnored(t *testing.T) {
	s := NewState(nil)
	s.ApplyEvent(makeEvent(t, eventPositionUpdated, &positionPayload{ID: "note-ghost", Position: Position{X: 1}}))
	assert.Empty(t, s.Notes())
}

func TestStateUnknownEventTypeIgnored(t *testing.T) {
	s := NewState(nil)
	s.ApplyEvent(makeEvent(t, eventNoteCreated, &Note{ID: "note-1"}))
	s.ApplyEvent(&Event{Type: "something_else"})
	assert.Len(t, s.Notes(), 1)
}

func TestStateImageEvents(t *testing.T) {
	s := NewState(nil)

	s.ApplyEvent(makeEvent(t, eventImageCreated, &Image{ID: "image-1", URL: "u1"}))
	s.ApplyEvent(makeEvent(t, eventImageCreated, &Image{ID: "image-2", URL: "u2"}))
	s.ApplyEvent(makeEvent(t, eventImagePositionUpdated, &positionPayload{ID: "image-1", Position: Position{X: 3, Y: 4}}))
	s.ApplyEvent(makeEvent(t, eventImageDeleted, &deletedPayload{ID: "image-2"}))

	images := s.Images()
	require.Len(t, images, 1)
	assert.Equal(t, "image-1", images[0].ID)
	assert.Equal(t, 3.0, images[0].Position.X)
}

// stateEvent 属性测试用的事件描述
type stateEvent struct {
	kind string
	id   string
	x    float64
}

func (e stateEvent) toEvent(t *testing.T) *Event {
	switch e.kind {
	case eventNoteCreated, eventNoteUpdated:
		return makeEvent(t, e.kind, &Note{ID: e.id, Content: "c-" + e.id, Position: Position{X: e.x}})
	case eventNoteDeleted:
		return makeEvent(t, e.kind, &deletedPayload{ID: e.id})
	default:
		return makeEvent(t, eventPositionUpdated, &positionPayload{ID: e.id, Position: Position{X: e.x, Y: e.x}})
	}
}

func genStateEvent() gopter.Gen {
	kinds := gen.OneConstOf(eventNoteCreated, eventNoteUpdated, eventNoteDeleted, eventPositionUpdated)
	ids := gen.IntRange(0, 4).Map(func(n int) string { return fmt.Sprintf("note-%d", n) })
	return gopter.CombineGens(kinds, ids, gen.Float64Range(-500, 500)).Map(func(values []interface{}) stateEvent {
		return stateEvent{
			kind: values[0].(string),
			id:   values[1].(string),
			x:    values[2].(float64),
		}
	})
}

func snapshot(s *State) string {
	var out string
	for _, n := range s.Notes() {
		out += fmt.Sprintf("%s|%s|%.3f|%.3f;", n.ID, n.Content, n.Position.X, n.Position.Y)
	}
	return out
}

// 任意事件重放一次不改变状态
func TestStateMergeIsIdempotentProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("replaying the last event leaves state unchanged", gopter.ForAll(
		func(events []stateEvent) bool {
			if len(events) == 0 {
				return true
			}
			s := NewState(nil)
			for _, e := range events {
				s.ApplyEvent(e.toEvent(t))
			}
			before := snapshot(s)
			s.ApplyEvent(events[len(events)-1].toEvent(t))
			return snapshot(s) == before
		},
		gen.SliceOf(genStateEvent()),
	))

	properties.TestingRun(t)
}

// 同一事件序列在两个独立客户端上产生相同状态
func TestStateConvergenceProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("two clients applying the same sequence converge", gopter.ForAll(
		func(events []stateEvent) bool {
			a := NewState(nil)
			b := NewState(nil)
			for _, e := range events {
				a.ApplyEvent(e.toEvent(t))
				b.ApplyEvent(e.toEvent(t))
			}
			return snapshot(a) == snapshot(b)
		},
		gen.SliceOf(genStateEvent()),
	))

	properties.TestingRun(t)
}
