package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/fridge-board-service/internal/domain"
	"github.com/haierkeys/fridge-board-service/internal/dto"
	"github.com/haierkeys/fridge-board-service/pkg/code"
	"github.com/haierkeys/fridge-board-service/pkg/timex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newNoteServiceForTest(t *testing.T) (NoteService, *fakeNoteRepo, *fakeBroadcaster) {
	t.Helper()
	repo := newFakeNoteRepo()
	hub := &fakeBroadcaster{}
	// nil pool 时广播同步执行，断言无需等待
	svc := NewNoteService(repo, newTestCache(), newTestQueue(t), nil, hub, zap.NewNop(), &ServiceConfig{})
	return svc, repo, hub
}

func strPtr(s string) *string { return &s }

func TestNoteCreate(t *testing.T) {
	svc, repo, hub := newNoteServiceForTest(t)

	note, err := svc.Create(context.Background(), &dto.NoteCreateRequest{
		Content:  "buy milk",
		Position: &dto.Position{X: 120, Y: 80},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(note.ID, "note-"))
	assert.Equal(t, "buy milk", note.Content)
	assert.Equal(t, 120.0, note.Position.X)
	assert.Equal(t, 80.0, note.Position.Y)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)
	assert.False(t, note.CreatedAt.IsZero())

	assert.Equal(t, 1, repo.count())

	events := hub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventNoteCreated, events[0].Type)
}

func TestNoteCreateDefaultsPositionToOrigin(t *testing.T) {
	svc, _, _ := newNoteServiceForTest(t)

	note, err := svc.Create(context.Background(), &dto.NoteCreateRequest{Content: "no position"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, note.Position.X)
	assert.Equal(t, 0.0, note.Position.Y)
}

func TestNoteGet(t *testing.T) {
	svc, repo, _ := newNoteServiceForTest(t)

	now := timex.Now().Time()
	_, err := repo.Create(context.Background(), &domain.Note{ID: "note-1", Content: "hello", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	note, err := svc.Get(context.Background(), "note-1")
	require.NoError(t, err)
	assert.Equal(t, "hello", note.Content)

	_, err = svc.Get(context.Background(), "note-absent")
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
}

func TestNoteUpdate(t *testing.T) {
	svc, repo, hub := newNoteServiceForTest(t)

	now := timex.Now().Time()
	_, err := repo.Create(context.Background(), &domain.Note{ID: "note-1", Content: "old", PositionX: 5, PositionY: 6, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	note, err := svc.Update(context.Background(), "note-1", &dto.NoteUpdateRequest{Content: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", note.Content)
	// 未提交的字段保持原值
	assert.Equal(t, 5.0, note.Position.X)
	assert.Equal(t, 6.0, note.Position.Y)

	events := hub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventNoteUpdated, events[0].Type)
}

func TestNoteUpdateWithPosition(t *testing.T) {
	svc, repo, _ := newNoteServiceForTest(t)

	now := timex.Now().Time()
	_, err := repo.Create(context.Background(), &domain.Note{ID: "note-1", Content: "keep", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	note, err := svc.Update(context.Background(), "note-1", &dto.NoteUpdateRequest{Position: &dto.Position{X: 9, Y: 8}})
	require.NoError(t, err)
	assert.Equal(t, "keep", note.Content)
	assert.Equal(t, 9.0, note.Position.X)
	assert.Equal(t, 8.0, note.Position.Y)
}

func TestNoteUpdateMissingReturnsNotFound(t *testing.T) {
	svc, _, hub := newNoteServiceForTest(t)

	_, err := svc.Update(context.Background(), "note-absent", &dto.NoteUpdateRequest{Content: strPtr("x")})
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)

	// 未命中时不得广播
	assert.Empty(t, hub.Events())
}

func TestNoteUpdatePositionBroadcastsCoordinates(t *testing.T) {
	svc, repo, hub := newNoteServiceForTest(t)

	now := timex.Now().Time()
	_, err := repo.Create(context.Background(), &domain.Note{ID: "note-1", Content: "c", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	note, err := svc.UpdatePosition(context.Background(), "note-1", &dto.PositionUpdateRequest{Position: &dto.Position{X: 33, Y: 44}})
	require.NoError(t, err)
	assert.Equal(t, 33.0, note.Position.X)
	assert.Equal(t, 44.0, note.Position.Y)

	events := hub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventPositionUpdated, events[0].Type)

	pos, ok := events[0].Data.(*dto.PositionRes)
	require.True(t, ok)
	assert.Equal(t, "note-1", pos.ID)
	assert.Equal(t, 33.0, pos.Position.X)
	assert.Equal(t, 44.0, pos.Position.Y)
}

func TestNoteUpdatePositionMissingReturnsNotFound(t *testing.T) {
	svc, _, hub := newNoteServiceForTest(t)

	_, err := svc.UpdatePosition(context.Background(), "note-absent", &dto.PositionUpdateRequest{Position: &dto.Position{X: 1, Y: 2}})
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
	assert.Empty(t, hub.Events())
}

func TestNoteDelete(t *testing.T) {
	svc, repo, hub := newNoteServiceForTest(t)

	now := timex.Now().Time()
	_, err := repo.Create(context.Background(), &domain.Note{ID: "note-1", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "note-1"))
	assert.Equal(t, 0, repo.count())

	events := hub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventNoteDeleted, events[0].Type)
	deleted, ok := events[0].Data.(*dto.DeletedRes)
	require.True(t, ok)
	assert.Equal(t, "note-1", deleted.ID)
}

func TestNoteDeleteMissingReturnsNotFound(t *testing.T) {
	svc, _, hub := newNoteServiceForTest(t)

	err := svc.Delete(context.Background(), "note-absent")
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
	assert.Empty(t, hub.Events())
}

// 异步分发不得打乱变更顺序
func TestNoteBroadcastsFollowMutationOrder(t *testing.T) {
	repo := newFakeNoteRepo()
	hub := &fakeBroadcaster{}
	pool := newDispatchPool(t)
	svc := NewNoteService(repo, newTestCache(), newTestQueue(t), pool, hub, zap.NewNop(), &ServiceConfig{})

	note, err := svc.Create(context.Background(), &dto.NoteCreateRequest{Content: "seq"})
	require.NoError(t, err)
	_, err = svc.UpdatePosition(context.Background(), note.ID, &dto.PositionUpdateRequest{Position: &dto.Position{X: 1, Y: 2}})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), note.ID))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pool.WaitIdle(ctx))

	events := hub.Events()
	require.Len(t, events, 3)
	assert.Equal(t, dto.EventNoteCreated, events[0].Type)
	assert.Equal(t, dto.EventPositionUpdated, events[1].Type)
	assert.Equal(t, dto.EventNoteDeleted, events[2].Type)
}

func TestNoteListServedFromCache(t *testing.T) {
	svc, repo, _ := newNoteServiceForTest(t)

	now := timex.Now().Time()
	_, err := repo.Create(context.Background(), &domain.Note{ID: "note-1", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// 绕开服务直接改库，缓存期内列表不变
	_, err = repo.Create(context.Background(), &domain.Note{ID: "note-2", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestNoteMutationInvalidatesListCache(t *testing.T) {
	svc, _, _ := newNoteServiceForTest(t)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, first)

	_, err = svc.Create(context.Background(), &dto.NoteCreateRequest{Content: "fresh"})
	require.NoError(t, err)

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 1)
}
