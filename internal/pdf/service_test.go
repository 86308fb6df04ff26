package pdf_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creerlio-backend/internal/businesses"
	"creerlio-backend/internal/ingest"
	"creerlio-backend/internal/pdf"
	"creerlio-backend/internal/resumes"
	localstore "creerlio-backend/internal/shared/storage/object/local"
)

type fakeRenderer struct {
	html  string
	paper pdf.Paper
	err   error
}

func (f *fakeRenderer) RenderHTMLToPDF(_ context.Context, html string, paper pdf.Paper) ([]byte, error) {
	f.html = html
	f.paper = paper
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 fake"), nil
}

type fixture struct {
	router   *gin.Engine
	renderer *fakeRenderer
	dir      string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	resumeRepo := resumes.NewMemoryRepo()
	name := "John Doe"
	rec := ingest.Record{Name: &name}
	rec.Normalize()
	require.NoError(t, resumeRepo.Create(ctx, resumes.Resume{ID: "r-1", Record: rec, CreatedAt: time.Now()}))

	businessRepo := businesses.NewMemoryRepo()
	require.NoError(t, businessRepo.Create(ctx, businesses.Business{ID: "b-1", Name: "Harbour Cafe", Tags: []string{}}))

	dir := t.TempDir()
	renderer := &fakeRenderer{}
	svc := pdf.NewService(renderer, localstore.New(dir),
		&resumes.Service{Repo: resumeRepo},
		businesses.NewService(businessRepo),
		pdf.A4,
	)
	router := gin.New()
	pdf.NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return fixture{router: router, renderer: renderer, dir: dir}
}

func (f fixture) post(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, path, nil))
	return resp
}

type pdfResponse struct {
	Success    bool   `json:"success"`
	PDFBase64  string `json:"pdf_base64"`
	StorageKey string `json:"storage_key"`
}

func TestResumePDFEndpoint(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/api/v1/pdf/resume/r-1")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var out pdfResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)

	raw, err := base64.StdEncoding.DecodeString(out.PDFBase64)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fake", string(raw))
	assert.Contains(t, f.renderer.html, "<h1>John Doe</h1>")
	assert.Equal(t, pdf.A4, f.renderer.paper)

	require.True(t, strings.HasPrefix(out.StorageKey, "generated/resume/r-1/"), out.StorageKey)
	stored, err := os.ReadFile(filepath.Join(f.dir, filepath.FromSlash(out.StorageKey)))
	require.NoError(t, err)
	assert.Equal(t, raw, stored)
}

func TestBusinessPDFEndpoint(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/api/v1/pdf/business/b-1")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, f.renderer.html, "<h1>Harbour Cafe</h1>")
	assert.Contains(t, resp.Body.String(), `"storage_key":"generated/business/b-1/`)
}

func TestPDFEndpointErrors(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/api/v1/pdf/resume/missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp = f.post(t, "/api/v1/pdf/business/missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	f.renderer.err = errors.New("chrome crashed")
	resp = f.post(t, "/api/v1/pdf/resume/r-1")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "pdf_generation_failed")
}
