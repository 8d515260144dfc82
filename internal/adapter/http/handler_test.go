package http

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-api/internal/domain"
	"resume-api/internal/observability"
	"resume-api/internal/usecase"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixedSource struct{ record domain.ResumeRecord }

func (s fixedSource) FetchRecord(context.Context) domain.ResumeRecord { return s.record }

func (s fixedSource) Experiences(context.Context) ([]domain.ExperienceEntry, error) {
	return s.record.Experience, nil
}

type stubUpdater struct{ ok bool }

func (u stubUpdater) PerformProfileUpdate(context.Context, string, domain.ProfileExperience) bool {
	return u.ok
}

type stubExtractor struct{}

func (stubExtractor) ExtractResume(context.Context, string) (map[string]any, error) {
	return map[string]any{"header": map[string]any{"name": "Parsed Person"}}, nil
}

func fixture() domain.ResumeRecord {
	return domain.ResumeRecord{
		Header: domain.Header{Name: "Jane Doe", Skills: domain.Skills{"languages": {"Go"}}},
		Experience: []domain.ExperienceEntry{
			{ID: "e1", Title: "Acme", Position: "Engineer", StartDate: "01/2023", EndDate: "Present"},
			{ID: "e2", Title: "Globex", Position: "Intern"},
		},
		Projects: []domain.ProjectEntry{{ID: "p1", Title: "Tracker"}},
	}
}

type testApp struct {
	app     *fiber.App
	metrics *observability.Metrics
}

func newTestApp(t *testing.T, opts AppOptions) testApp {
	t.Helper()
	src := fixedSource{record: fixture()}
	m := observability.NewMetrics()
	exporter := usecase.NewExporter(src, nil, domain.DefaultRenderSettings(), t.TempDir(), quiet, m)
	profiles := usecase.NewProfileSync(src, quiet, m,
		usecase.Site{Key: "linkedin", Name: "LinkedIn", Updater: stubUpdater{ok: true}},
		usecase.Site{Key: "simplify", Name: "Simplify", Updater: stubUpdater{ok: false}},
	)
	importer := usecase.NewImporter(stubExtractor{}, quiet)
	opts.Metrics = m
	opts.DisableStartup = true
	return testApp{app: NewApp(NewHandler(exporter, profiles, importer, quiet), opts), metrics: m}
}

func (a testApp) do(t *testing.T, method, path string, body any) (*nethttp.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func TestHealthAndIndex(t *testing.T) {
	a := newTestApp(t, AppOptions{})
	resp, body := a.do(t, fiber.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"status": "healthy", "message": "Resume API is running"}, body)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	_, body = a.do(t, fiber.MethodGet, "/", nil)
	assert.Equal(t, "Resume Management API", body["message"])
	assert.Contains(t, body["endpoints"], "/resume/export")
}

func TestPreview(t *testing.T) {
	a := newTestApp(t, AppOptions{})
	resp, body := a.do(t, fiber.MethodGet, "/resume/preview", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Jane Doe", data["header"].(map[string]any)["name"])
	assert.Len(t, data["experience"], 2)
}

func TestExportLaTeX(t *testing.T) {
	a := newTestApp(t, AppOptions{})
	resp, body := a.do(t, fiber.MethodPost, "/resume/export", map[string]any{
		"format":                  "latex",
		"filename":                "jane",
		"selected_experience_ids": []string{"e2"},
		"settings":                map[string]any{"fontSize": 12},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "latex", body["format"])
	assert.Equal(t, "jane.tex", body["filename"])
	assert.Equal(t, "application/x-tex", body["mime_type"])
	assert.Equal(t, "Resume exported successfully as LATEX", body["message"])

	src, err := base64.StdEncoding.DecodeString(body["content"].(string))
	require.NoError(t, err)
	assert.Contains(t, string(src), "12pt")
	assert.Contains(t, string(src), "Globex")
	assert.NotContains(t, string(src), "Acme")
}

func TestExportPDFWithoutCompilerFallsBack(t *testing.T) {
	a := newTestApp(t, AppOptions{})
	resp, body := a.do(t, fiber.MethodPost, "/resume/export", map[string]any{})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "latex", body["format"])
	assert.Equal(t, "resume.tex", body["filename"])
	assert.Equal(t, "pdflatex not found. Please install LaTeX to generate PDFs.", body["message"])
	assert.NotEmpty(t, body["content"])
}

func TestExportRejectsBadInput(t *testing.T) {
	a := newTestApp(t, AppOptions{})
	resp, body := a.do(t, fiber.MethodPost, "/resume/export", map[string]any{"format": "docx"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "unsupported export format")

	resp, _ = a.do(t, fiber.MethodPost, "/resume/export", map[string]any{"settings": map[string]any{"fontSize": 40}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAddExperience(t *testing.T) {
	a := newTestApp(t, AppOptions{})

	resp, body := a.do(t, fiber.MethodPost, "/linkedin/add-experience", map[string]any{"experience_id": "e2"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Successfully added experience 'Intern at Globex' to LinkedIn profile", body["message"])

	resp, _ = a.do(t, fiber.MethodPost, "/linkedin/add-experience", map[string]any{"experience_id": "nope"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = a.do(t, fiber.MethodPost, "/linkedin/add-experience", map[string]any{"experience_index": 9})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = a.do(t, fiber.MethodPost, "/linkedin/add-experience", map[string]any{"action": "delete"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = a.do(t, fiber.MethodPost, "/simplify/add-experience", nil)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func docxBase64(t *testing.T, text string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestParseResume(t *testing.T) {
	a := newTestApp(t, AppOptions{})
	resp, body := a.do(t, fiber.MethodPost, "/parse-resume", map[string]any{
		"fileContent": docxBase64(t, "Parsed Person"),
		"fileName":    "cv.docx",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Resume parsed successfully", body["message"])
	header := body["data"].(map[string]any)["header"].(map[string]any)
	assert.Equal(t, "Parsed Person", header["name"])
	assert.Regexp(t, regexp.MustCompile(`^\d{2}/\d{4}$`), header["lastUpdated"])

	resp, body = a.do(t, fiber.MethodPost, "/parse-resume", map[string]any{"fileContent": "aGVsbG8=", "fileName": "cv.txt"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Unsupported file type. Only PDF and DOCX are supported.", body["error"])

	resp, _ = a.do(t, fiber.MethodPost, "/parse-resume", map[string]any{"fileContent": "%%%", "fileName": "cv.pdf"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = a.do(t, fiber.MethodPost, "/parse-resume", map[string]any{"fileName": "cv.pdf"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestParseResumeURLValidation(t *testing.T) {
	a := newTestApp(t, AppOptions{})
	resp, _ := a.do(t, fiber.MethodPost, "/parse-resume-url", map[string]any{"url": "not a url"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	a := newTestApp(t, AppOptions{RatePerMinute: 1, RateBurst: 1})
	resp, _ := a.do(t, fiber.MethodPost, "/resume/export", map[string]any{"format": "json"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := a.do(t, fiber.MethodPost, "/resume/export", map[string]any{"format": "json"})
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, _ = a.do(t, fiber.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(fiber.MethodGet, "/metrics", nil)
	mresp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(mresp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "resume_rate_limited_requests_total 1")
	assert.Contains(t, string(raw), `resume_exports_total{format="json",outcome="success"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	a := newTestApp(t, AppOptions{Origins: []string{"http://localhost:5173"}})
	req := httptest.NewRequest(fiber.MethodOptions, "/resume/export", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:5173")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodPost)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestIPLimiterSweepsIdleVisitors(t *testing.T) {
	l := newIPLimiter(60, 1, nil)
	clock := l.now()
	l.now = func() time.Time { return clock }
	assert.True(t, l.allow("a"))
	clock = clock.Add(visitorTTL + sweepInterval + time.Second)
	assert.True(t, l.allow("b"))
	assert.NotContains(t, l.visitors, "a")
	assert.Nil(t, newIPLimiter(0, 5, nil))
}
