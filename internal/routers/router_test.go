package routers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/fridge-board-service/internal/app"
	"github.com/haierkeys/fridge-board-service/internal/dao"
	"github.com/haierkeys/fridge-board-service/internal/dto"

	"github.com/bytedance/sonic"
	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*gin.Engine, *app.App, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()

	cfg := new(app.AppConfig)
	require.NoError(t, defaults.Set(cfg))
	cfg.Storage.Type = "localfs"
	cfg.Storage.SavePath = filepath.Join(dir, "uploads")
	cfg.Storage.HttpfsIsEnable = true

	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{
		Type:        "sqlite",
		Path:        filepath.Join(dir, "db.sqlite3"),
		AutoMigrate: true,
	}, zap.NewNop())
	require.NoError(t, err)

	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
	})

	uni := ut.New(en.New(), en.New(), zh.New())
	return NewRouter(a, uni), a, dir
}

func doJSON(t *testing.T, r *gin.Engine, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNoteLifecycleOverHTTP(t *testing.T) {
	r, _, _ := newTestRouter(t)

	// 创建
	w := doJSON(t, r, http.MethodPost, "/api/notes", `{"content":"grocery list","position":{"x":12,"y":34}}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.NoteRes
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.ID, "note-"))
	assert.Equal(t, "grocery list", created.Content)
	// 请求体里的坐标必须落到实体上
	assert.Equal(t, 12.0, created.Position.X)
	assert.Equal(t, 34.0, created.Position.Y)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// 列表
	w = doJSON(t, r, http.MethodGet, "/api/notes", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []*dto.NoteRes
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	// 单个
	w = doJSON(t, r, http.MethodGet, "/api/notes/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var fetched dto.NoteRes
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)

	// 更新内容
	w = doJSON(t, r, http.MethodPut, "/api/notes/"+created.ID, `{"content":"updated list"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated dto.NoteRes
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "updated list", updated.Content)

	// 移动
	w = doJSON(t, r, http.MethodPatch, "/api/notes/"+created.ID+"/position", `{"position":{"x":56,"y":78}}`)
	require.Equal(t, http.StatusOK, w.Code)
	var moved dto.NoteRes
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &moved))
	assert.Equal(t, 56.0, moved.Position.X)
	assert.Equal(t, 78.0, moved.Position.Y)

	// 删除
	w = doJSON(t, r, http.MethodDelete, "/api/notes/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	// 删除后列表为空
	w = doJSON(t, r, http.MethodGet, "/api/notes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestNotePositionMissingReturns404(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPatch, "/api/notes/note-absent/position", `{"position":{"x":1,"y":2}}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestNotePositionWithoutCoordinatesReturns400(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPatch, "/api/notes/note-1/position", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNoteGetMissingReturns404(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/notes/note-absent", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownRouteReturns404(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/bogus", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMethodNotAllowedReturns405(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPatch, "/api/notes", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestCORSPreflightReturns204(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/notes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestImageUploadOverHTTP(t *testing.T) {
	r, _, dir := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "fridge.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("positionX", "11"))
	require.NoError(t, mw.WriteField("positionY", "22"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var image dto.ImageRes
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &image))
	assert.True(t, strings.HasPrefix(image.ID, "image-"))
	assert.Equal(t, "fridge.png", image.OriginalName)
	// multipart 表单用扁平字段，响应体用嵌套坐标
	assert.Equal(t, 11.0, image.Position.X)
	assert.Equal(t, 22.0, image.Position.Y)

	// 对象已落盘
	blobPath := filepath.Join(dir, "uploads", "images", image.ID, "fridge.png")
	_, err = os.Stat(blobPath)
	assert.NoError(t, err)
}

func TestImageUploadWithoutFileReturns400(t *testing.T) {
	r, _, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("positionX", "1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
