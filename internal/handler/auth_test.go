package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	s := newServer(t, false)

	rec := s.do(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "admin@example.com", "password": "hunter2",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[map[string]any](t, rec)
	assert.Equal(t, "Login successful", out["message"])
	token, _ := out["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":1}`, rec.Body.String())
}

func TestLoginRejected(t *testing.T) {
	s := newServer(t, false)
	for _, creds := range []map[string]string{
		{"email": "admin@example.com", "password": "wrong"},
		{"email": "ghost@example.com", "password": "hunter2"},
		{},
	} {
		rec := s.do(jsonRequest(t, http.MethodPost, "/api/auth/login", creds))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Invalid credentials"}`, rec.Body.String())
	}
}

func TestMeRequiresToken(t *testing.T) {
	s := newServer(t, false)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
