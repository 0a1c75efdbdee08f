package boardclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boardServer 可编排的 API 假服务端
type boardServer struct {
	mu           sync.Mutex
	notes        []*Note
	images       []*Image
	patches      []positionPayload
	imagePatches []positionPayload
	// patchStatus 非零时 PATCH 返回该状态码
	patchStatus int
	loads       int
}

func (b *boardServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/notes", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			b.loads++
			writeJSON(w, http.StatusOK, b.notes)
		case http.MethodPost:
			var req struct {
				Content  string   `json:"content"`
				Position Position `json:"position"`
			}
			_ = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
			note := &Note{ID: "note-server-1", Content: req.Content, Position: req.Position}
			b.notes = append([]*Note{note}, b.notes...)
			writeJSON(w, http.StatusCreated, note)
		}
	})

	mux.HandleFunc("/api/images", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.images)
	})

	mux.HandleFunc("/api/notes/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		switch r.Method {
		case http.MethodPatch:
			if b.patchStatus != 0 {
				writeJSON(w, b.patchStatus, map[string]string{"error": "boom"})
				return
			}
			var req positionPayload
			_ = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
			b.patches = append(b.patches, req)
			writeJSON(w, http.StatusOK, &Note{ID: "note-1", Position: req.Position})
		case http.MethodDelete:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Note not found"})
		}
	})

	mux.HandleFunc("/api/images/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if r.Method == http.MethodPatch {
			var req positionPayload
			_ = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
			b.imagePatches = append(b.imagePatches, req)
			writeJSON(w, http.StatusOK, &Image{ID: "image-1", Position: req.Position})
		}
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload, _ := sonic.Marshal(v)
	_, _ = w.Write(payload)
}

func (b *boardServer) patchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.patches)
}

func (b *boardServer) imagePatchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.imagePatches)
}

func (b *boardServer) loadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loads
}

func newTestClient(t *testing.T, b *boardServer, window time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL, DebounceWindow: window})
	t.Cleanup(c.Close)
	return c
}

func TestClientLoadReplacesState(t *testing.T) {
	server := &boardServer{
		notes:  []*Note{{ID: "note-1", Content: "hello"}},
		images: []*Image{{ID: "image-1", URL: "u"}},
	}
	c := newTestClient(t, server, DefaultDebounceWindow)

	require.NoError(t, c.Load(context.Background()))

	notes := c.State().Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "hello", notes[0].Content)
	assert.Len(t, c.State().Images(), 1)
}

func TestClientCreateNoteUsesServerEntity(t *testing.T) {
	server := &boardServer{notes: []*Note{{ID: "note-old"}}}
	c := newTestClient(t, server, DefaultDebounceWindow)
	require.NoError(t, c.Load(context.Background()))

	note, err := c.CreateNote(context.Background(), "fresh", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "note-server-1", note.ID)
	// 服务端按嵌套坐标解出请求体
	assert.Equal(t, 1.0, note.Position.X)
	assert.Equal(t, 2.0, note.Position.Y)

	// 服务端返回的实体被乐观前插
	assert.Equal(t, []string{"note-server-1", "note-old"}, noteIDs(c.State().Notes()))
}

func TestClientDeleteNoteRollsBackOnFailure(t *testing.T) {
	server := &boardServer{notes: []*Note{{ID: "note-1", Content: "still here"}}}
	c := newTestClient(t, server, DefaultDebounceWindow)
	require.NoError(t, c.Load(context.Background()))

	err := c.DeleteNote(context.Background(), "note-1")
	require.Error(t, err)

	// 删除失败后整体重载，便签回到本地状态
	notes := c.State().Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "note-1", notes[0].ID)
}

func TestClientMoveNoteCollapsesIntoOnePatch(t *testing.T) {
	server := &boardServer{notes: []*Note{{ID: "note-1"}}}
	c := newTestClient(t, server, 40*time.Millisecond)
	require.NoError(t, c.Load(context.Background()))

	for i := 0; i < 8; i++ {
		c.MoveNote("note-1", float64(i), float64(i))
	}

	// 本地位置立即生效
	note, ok := c.State().NoteByID("note-1")
	require.True(t, ok)
	assert.Equal(t, 7.0, note.Position.X)

	require.Eventually(t, func() bool {
		return server.patchCount() == 1
	}, time.Second, 10*time.Millisecond)

	server.mu.Lock()
	patch := server.patches[0]
	server.mu.Unlock()
	assert.Equal(t, 7.0, patch.Position.X)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, server.patchCount())
}

func TestClientMoveImageCollapsesIntoOnePatch(t *testing.T) {
	server := &boardServer{images: []*Image{{ID: "image-1"}}}
	c := newTestClient(t, server, 40*time.Millisecond)
	require.NoError(t, c.Load(context.Background()))

	for i := 0; i < 8; i++ {
		c.MoveImage("image-1", float64(i), float64(i))
	}

	image, ok := c.State().ImageByID("image-1")
	require.True(t, ok)
	assert.Equal(t, 7.0, image.Position.X)

	// 一串拖动只落一次库，且落的是最后一个坐标
	require.Eventually(t, func() bool {
		return server.imagePatchCount() == 1
	}, time.Second, 10*time.Millisecond)

	server.mu.Lock()
	patch := server.imagePatches[0]
	server.mu.Unlock()
	assert.Equal(t, "image-1", patch.ID)
	assert.Equal(t, 7.0, patch.Position.X)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, server.imagePatchCount())
}

func TestClientMoveNoteReloadsOnAPIError(t *testing.T) {
	server := &boardServer{
		notes:       []*Note{{ID: "note-1", Position: Position{X: 100}}},
		patchStatus: http.StatusInternalServerError,
	}
	c := newTestClient(t, server, 20*time.Millisecond)
	require.NoError(t, c.Load(context.Background()))
	loadsBefore := server.loadCount()

	c.MoveNote("note-1", 999, 999)

	// 业务错误触发权威重载，乐观位置被回滚
	require.Eventually(t, func() bool {
		return server.loadCount() > loadsBefore
	}, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		note, ok := c.State().NoteByID("note-1")
		return ok && note.Position.X == 100
	}, time.Second, 10*time.Millisecond)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(&APIError{StatusCode: 404, Message: "gone"}))
	assert.True(t, IsTransient(&url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}))
}

func TestDeriveWSURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:8787/ws", deriveWSURL("http://localhost:8787"))
	assert.Equal(t, "wss://board.example.com/ws", deriveWSURL("https://board.example.com"))
}
