package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/show-catalog/internal/attachment"
	"github.com/iliyamo/show-catalog/internal/config"
	"github.com/iliyamo/show-catalog/internal/database"
	"github.com/iliyamo/show-catalog/internal/handler"
	"github.com/iliyamo/show-catalog/internal/repository"
	"github.com/iliyamo/show-catalog/internal/router"
	"github.com/iliyamo/show-catalog/internal/service"
	"github.com/iliyamo/show-catalog/internal/utils"
)

const testJWTSecret = "handler-test-secret"

type testServer struct {
	e         *echo.Echo
	uploadDir string
}

func newServer(t *testing.T, protectWrites bool) *testServer {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(context.Background(), db, database.SQLite))
	t.Cleanup(func() { _ = db.Close() })

	users := repository.NewUserRepo(db)
	hash, err := utils.HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	_, err = users.Create(context.Background(), "admin@example.com", hash)
	require.NoError(t, err)

	store, err := attachment.NewStore(config.UploadConfig{
		Dir:         filepath.Join(t.TempDir(), "uploads"),
		URLPrefix:   "uploads",
		AllowedExt:  []string{"jpeg", "jpg", "png"},
		AllowedMIME: []string{"image/jpeg", "image/png"},
	})
	require.NoError(t, err)

	catalog := service.NewCatalog(repository.NewShowRepo(db), store)
	auth := service.NewAuthenticator(users, testJWTSecret, 5)

	e := router.New(router.Deps{
		DB:            db,
		Auth:          handler.NewAuthHandler(auth),
		Shows:         handler.NewShowHandler(catalog, store),
		Tokens:        auth,
		ProtectWrites: protectWrites,
		UploadDir:     store.Dir(),
		UploadPrefix:  "uploads",
	})
	return &testServer{e: e, uploadDir: store.Dir()}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

type upload struct {
	name    string
	content []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, file *upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		fw, err := w.CreateFormFile("image", file.name)
		require.NoError(t, err)
		_, err = fw.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type showResp struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       *string `json:"image"`
}

type validationResp struct {
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}
