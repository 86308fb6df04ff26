package businesses_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creerlio-backend/internal/businesses"
	"creerlio-backend/internal/permissions"
	"creerlio-backend/internal/shared/server/middleware"
)

type fixture struct {
	router  *gin.Engine
	checker *permissions.Checker
}

func newFixture(t *testing.T, enforce bool) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	checker := permissions.NewChecker(permissions.NewMemoryRepo())
	h := businesses.NewHandler(businesses.NewService(businesses.NewMemoryRepo()))
	if enforce {
		h.WriteGuard = permissions.RequireBusinessRole(checker, permissions.BusinessWriteRoles, "id")
		h.AdminGuard = permissions.RequireBusinessRole(checker, permissions.BusinessAdminRoles, "id")
	}

	router := gin.New()
	router.Use(middleware.Identity())
	h.RegisterRoutes(router.Group("/api/v1"))
	return fixture{router: router, checker: checker}
}

func (f fixture) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-Id", user)
	}
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	return resp
}

type envelope struct {
	Success  bool                `json:"success"`
	Business businesses.Business `json:"business"`
}

func (f fixture) create(t *testing.T, body map[string]any) businesses.Business {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/v1/businesses", "", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.True(t, out.Success)
	return out.Business
}

func TestBusinessCRUD(t *testing.T) {
	f := newFixture(t, false)
	created := f.create(t, map[string]any{
		"name": "Harbour Cafe", "description": "Coffee", "location": "Sydney",
		"latitude": -33.86, "longitude": 151.2,
	})
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []string{}, created.Tags)

	resp := f.do(t, http.MethodGet, "/api/v1/businesses/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var fetched businesses.Business
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	assert.Equal(t, "Harbour Cafe", fetched.Name)

	resp = f.do(t, http.MethodPut, "/api/v1/businesses/"+created.ID, "", map[string]any{"industry": "Hospitality"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var updated envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, "Hospitality", updated.Business.Industry)
	assert.Equal(t, "Coffee", updated.Business.Description)
	require.NotNil(t, updated.Business.Latitude)
	assert.Equal(t, created.CreatedAt.Unix(), updated.Business.CreatedAt.Unix())

	resp = f.do(t, http.MethodDelete, "/api/v1/businesses/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Business deleted")

	resp = f.do(t, http.MethodGet, "/api/v1/businesses/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBusinessValidation(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing name", body: map[string]any{"description": "x"}},
		{name: "blank name", body: map[string]any{"name": "   "}},
		{name: "latitude out of range", body: map[string]any{"name": "x", "latitude": 91}},
		{name: "longitude out of range", body: map[string]any{"name": "x", "longitude": -181}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(t, http.MethodPost, "/api/v1/businesses", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Contains(t, resp.Body.String(), "validation_error")
		})
	}

	resp := f.do(t, http.MethodPut, "/api/v1/businesses/missing", "", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBusinessSearch(t *testing.T) {
	f := newFixture(t, false)
	f.create(t, map[string]any{"name": "Harbour Cafe", "description": "coffee", "location": "Sydney"})
	f.create(t, map[string]any{"name": "Laneway Roasters", "description": "Coffee beans", "location": "Melbourne"})
	f.create(t, map[string]any{"name": "Outback Tyres", "location": "Alice Springs"})

	resp := f.do(t, http.MethodGet, "/api/v1/businesses/search?query=COFFEE&location=mel", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var out struct {
		Businesses []businesses.Business `json:"businesses"`
		Count      int                   `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Laneway Roasters", out.Businesses[0].Name)

	resp = f.do(t, http.MethodGet, "/api/v1/businesses/search?limit=2", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out.Count)
}

func TestBusinessGuards(t *testing.T) {
	f := newFixture(t, true)
	b := f.create(t, map[string]any{"name": "Harbour Cafe"})
	ctx := context.Background()
	require.NoError(t, f.checker.AssignBusinessRole(ctx, "owner", b.ID, permissions.BusinessAdmin))
	require.NoError(t, f.checker.AssignBusinessRole(ctx, "barista", b.ID, permissions.Manager))
	require.NoError(t, f.checker.AssignBusinessRole(ctx, "auditor", b.ID, permissions.Viewer))

	path := "/api/v1/businesses/" + b.ID
	patch := map[string]any{"phone": "02 9000 0000"}

	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPut, path, "", patch).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPut, path, "auditor", patch).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPut, path, "barista", patch).Code)

	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodDelete, path, "barista", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, path, "owner", nil).Code)
}
