package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/haierkeys/fridge-board-service/internal/domain"
	"github.com/haierkeys/fridge-board-service/internal/dto"
	"github.com/haierkeys/fridge-board-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeImageRepo 内存图片仓储
type fakeImageRepo struct {
	mu        sync.Mutex
	images    map[string]*domain.Image
	createErr error
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[string]*domain.Image)}
}

func (r *fakeImageRepo) ListAll(ctx context.Context) ([]*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Image, 0, len(r.images))
	for _, i := range r.images {
		cp := *i
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeImageRepo) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.images[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeImageRepo) Create(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	cp := *image
	r.images[image.ID] = &cp
	return image, nil
}

func (r *fakeImageRepo) UpdatePosition(ctx context.Context, image *domain.Image) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.images[image.ID]
	if !ok {
		return false, nil
	}
	cur.PositionX = image.PositionX
	cur.PositionY = image.PositionY
	cur.UpdatedAt = image.UpdatedAt
	return true, nil
}

func (r *fakeImageRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.images[id]; !ok {
		return false, nil
	}
	delete(r.images, id)
	return true, nil
}

func (r *fakeImageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.images)
}

// fakeStorage 内存对象存储
type fakeStorage struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	sendErr   error
	deleteErr error
	deleted   []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{blobs: make(map[string][]byte)}
}

func (s *fakeStorage) SendFile(fileKey string, file io.Reader, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return "", s.sendErr
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.blobs[fileKey] = content
	return fileKey, nil
}

func (s *fakeStorage) Delete(fileKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, fileKey)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.blobs, fileKey)
	return nil
}

func (s *fakeStorage) blobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

func newImageServiceForTest(t *testing.T, cfg *ServiceConfig) (ImageService, *fakeImageRepo, *fakeStorage, *fakeBroadcaster) {
	t.Helper()
	repo := newFakeImageRepo()
	store := newFakeStorage()
	hub := &fakeBroadcaster{}
	if cfg == nil {
		cfg = &ServiceConfig{PublicURL: "https://cdn.example.com"}
	}
	svc := NewImageService(repo, newTestCache(), store, newTestQueue(t), nil, hub, zap.NewNop(), cfg)
	return svc, repo, store, hub
}

func uploadParams(name string) *ImageUploadParams {
	return &ImageUploadParams{
		File:         strings.NewReader("png-bytes"),
		OriginalName: name,
		ContentType:  "image/png",
		PositionX:    10,
		PositionY:    20,
	}
}

func TestImageUpload(t *testing.T) {
	svc, repo, store, hub := newImageServiceForTest(t, nil)

	image, err := svc.Upload(context.Background(), uploadParams("fridge.png"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(image.ID, "image-"))
	assert.Equal(t, "fridge.png", image.OriginalName)
	assert.Equal(t, "https://cdn.example.com/images/"+image.ID+"/fridge.png", image.URL)
	assert.Equal(t, image.CreatedAt, image.UpdatedAt)

	assert.Equal(t, 1, repo.count())
	assert.Equal(t, 1, store.blobCount())

	events := hub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventImageCreated, events[0].Type)
}

func TestImageUploadURLFromAccessHost(t *testing.T) {
	svc, _, _, _ := newImageServiceForTest(t, &ServiceConfig{})

	params := uploadParams("pic.jpg")
	params.AccessHost = "http://localhost:8787"

	image, err := svc.Upload(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8787/uploads/images/"+image.ID+"/pic.jpg", image.URL)
}

func TestImageUploadBlobFailureLeavesNoMetadata(t *testing.T) {
	svc, repo, store, hub := newImageServiceForTest(t, nil)
	store.sendErr = errors.New("disk full")

	_, err := svc.Upload(context.Background(), uploadParams("fridge.png"))
	assert.ErrorIs(t, err, code.ErrorBlobWriteFailed)

	// 对象写入失败时不得留下元数据，也不得广播
	assert.Equal(t, 0, repo.count())
	assert.Empty(t, hub.Events())
}

func TestImageUploadMetadataFailureReclaimsBlob(t *testing.T) {
	svc, repo, store, hub := newImageServiceForTest(t, nil)
	repo.createErr = errors.New("insert failed")

	_, err := svc.Upload(context.Background(), uploadParams("fridge.png"))
	require.Error(t, err)

	assert.Equal(t, 0, repo.count())
	assert.Equal(t, 0, store.blobCount())
	assert.Empty(t, hub.Events())
}

func TestImageDelete(t *testing.T) {
	svc, repo, store, hub := newImageServiceForTest(t, nil)

	image, err := svc.Upload(context.Background(), uploadParams("fridge.png"))
	require.NoError(t, err)
	hub.mu.Lock()
	hub.events = nil
	hub.mu.Unlock()

	require.NoError(t, svc.Delete(context.Background(), image.ID))
	assert.Equal(t, 0, repo.count())
	assert.Equal(t, 0, store.blobCount())

	events := hub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventImageDeleted, events[0].Type)
}

func TestImageDeleteBlobFailureStillSucceeds(t *testing.T) {
	svc, repo, store, hub := newImageServiceForTest(t, nil)

	image, err := svc.Upload(context.Background(), uploadParams("fridge.png"))
	require.NoError(t, err)
	hub.mu.Lock()
	hub.events = nil
	hub.mu.Unlock()

	store.deleteErr = errors.New("bucket gone")

	// 对象清理尽力而为，失败不影响删除结果
	require.NoError(t, svc.Delete(context.Background(), image.ID))
	assert.Equal(t, 0, repo.count())

	events := hub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventImageDeleted, events[0].Type)
}

func TestImageDeleteMissingReturnsNotFound(t *testing.T) {
	svc, _, _, hub := newImageServiceForTest(t, nil)

	err := svc.Delete(context.Background(), "image-absent")
	assert.ErrorIs(t, err, code.ErrorImageNotFound)
	assert.Empty(t, hub.Events())
}

func TestImageGet(t *testing.T) {
	svc, _, _, _ := newImageServiceForTest(t, nil)

	image, err := svc.Upload(context.Background(), uploadParams("fridge.png"))
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), image.ID)
	require.NoError(t, err)
	assert.Equal(t, image.URL, got.URL)

	_, err = svc.Get(context.Background(), "image-absent")
	assert.ErrorIs(t, err, code.ErrorImageNotFound)
}

func TestImageUpdate(t *testing.T) {
	svc, _, _, hub := newImageServiceForTest(t, nil)

	image, err := svc.Upload(context.Background(), uploadParams("fridge.png"))
	require.NoError(t, err)
	hub.mu.Lock()
	hub.events = nil
	hub.mu.Unlock()

	updated, err := svc.Update(context.Background(), image.ID, &dto.ImageUpdateRequest{Position: &dto.Position{X: 99, Y: 21}})
	require.NoError(t, err)
	assert.Equal(t, 99.0, updated.Position.X)
	assert.Equal(t, 21.0, updated.Position.Y)

	events := hub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventImageUpdated, events[0].Type)
}

func TestImageUpdatePosition(t *testing.T) {
	svc, _, _, hub := newImageServiceForTest(t, nil)

	image, err := svc.Upload(context.Background(), uploadParams("fridge.png"))
	require.NoError(t, err)
	hub.mu.Lock()
	hub.events = nil
	hub.mu.Unlock()

	updated, err := svc.UpdatePosition(context.Background(), image.ID, &dto.PositionUpdateRequest{Position: &dto.Position{X: 5, Y: 6}})
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.Position.X)
	assert.Equal(t, 6.0, updated.Position.Y)

	events := hub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventImagePositionUpdated, events[0].Type)
}

func TestBlobKeyFromURL(t *testing.T) {
	assert.Equal(t, "images/image-1/a.png", blobKeyFromURL("https://cdn.example.com/images/image-1/a.png"))
	assert.Equal(t, "images/image-1/a.png", blobKeyFromURL("http://localhost:8787/uploads/images/image-1/a.png"))
	assert.Equal(t, "", blobKeyFromURL("https://cdn.example.com/other/a.png"))
}
