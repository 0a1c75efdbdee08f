package dao

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/fridge-board-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewDBEngineWithConfig(DatabaseConfig{
		Type:        "sqlite",
		Path:        filepath.Join(t.TempDir(), "test.sqlite3"),
		AutoMigrate: true,
	}, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testNote(id string, createdAt time.Time) *domain.Note {
	return &domain.Note{
		ID:        id,
		Content:   "content of " + id,
		PositionX: 10,
		PositionY: 20,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestNoteRepositoryCreateAndGet(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	_, err := repo.Create(ctx, testNote("note-1", now))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "note-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "content of note-1", got.Content)
	assert.Equal(t, 10.0, got.PositionX)
	assert.True(t, got.CreatedAt.Equal(now))
	assert.True(t, got.UpdatedAt.Equal(now))
}

func TestNoteRepositoryGetMissingReturnsNil(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t), zap.NewNop())

	got, err := repo.GetByID(context.Background(), "note-absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNoteRepositoryListNewestFirst(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	_, err := repo.Create(ctx, testNote("note-old", base.Add(-time.Hour)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, testNote("note-new", base))
	require.NoError(t, err)

	notes, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "note-new", notes[0].ID)
	assert.Equal(t, "note-old", notes[1].ID)
}

func TestNoteRepositoryUpdate(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	_, err := repo.Create(ctx, testNote("note-1", now))
	require.NoError(t, err)

	later := now.Add(time.Minute)
	hit, err := repo.Update(ctx, &domain.Note{ID: "note-1", Content: "rewritten", PositionX: 33, PositionY: 44, UpdatedAt: later})
	require.NoError(t, err)
	assert.True(t, hit)

	got, err := repo.GetByID(ctx, "note-1")
	require.NoError(t, err)
	assert.Equal(t, "rewritten", got.Content)
	assert.Equal(t, 33.0, got.PositionX)
	assert.True(t, got.UpdatedAt.Equal(later))
	// 创建时间不随内容更新改变
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestNoteRepositoryUpdateMissing(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t), zap.NewNop())

	hit, err := repo.Update(context.Background(), &domain.Note{ID: "note-absent", Content: "x", UpdatedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNoteRepositoryUpdatePosition(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	_, err := repo.Create(ctx, testNote("note-1", now))
	require.NoError(t, err)

	hit, err := repo.UpdatePosition(ctx, &domain.Note{ID: "note-1", PositionX: 77, PositionY: 88, UpdatedAt: now.Add(time.Second)})
	require.NoError(t, err)
	assert.True(t, hit)

	got, err := repo.GetByID(ctx, "note-1")
	require.NoError(t, err)
	assert.Equal(t, 77.0, got.PositionX)
	assert.Equal(t, 88.0, got.PositionY)
	// 位置更新不改内容
	assert.Equal(t, "content of note-1", got.Content)
}

func TestNoteRepositoryDelete(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	_, err := repo.Create(ctx, testNote("note-1", now))
	require.NoError(t, err)

	hit, err := repo.Delete(ctx, "note-1")
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = repo.Delete(ctx, "note-1")
	require.NoError(t, err)
	assert.False(t, hit)

	got, err := repo.GetByID(ctx, "note-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestImageRepositoryRoundTrip(t *testing.T) {
	repo := NewImageRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	_, err := repo.Create(ctx, &domain.Image{
		ID:           "image-1",
		URL:          "https://cdn.example.com/images/image-1/a.png",
		OriginalName: "a.png",
		PositionX:    1,
		PositionY:    2,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "image-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a.png", got.OriginalName)
	assert.Equal(t, "https://cdn.example.com/images/image-1/a.png", got.URL)

	hit, err := repo.UpdatePosition(ctx, &domain.Image{ID: "image-1", PositionX: 9, PositionY: 8, UpdatedAt: now.Add(time.Second)})
	require.NoError(t, err)
	assert.True(t, hit)

	images, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, 9.0, images[0].PositionX)

	hit, err = repo.Delete(ctx, "image-1")
	require.NoError(t, err)
	assert.True(t, hit)

	images, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, images)
}
