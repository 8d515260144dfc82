package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-api/internal/domain"
	"resume-api/internal/latex"
	"resume-api/internal/observability"
)

type Format string

const (
	FormatPDF   Format = "pdf"
	FormatLaTeX Format = "latex"
	FormatJSON  Format = "json"
)

var formatFiles = map[Format]struct{ ext, mime string }{
	FormatPDF:   {".pdf", "application/pdf"},
	FormatLaTeX: {".tex", "application/x-tex"},
	FormatJSON:  {".json", "application/json"},
}

// ParseFormat maps a requested format name onto a Format. An empty name
// selects PDF.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatPDF, nil
	}
	if _, ok := formatFiles[f]; !ok {
		return "", fmt.Errorf("%w: %q (expected pdf, latex or json)", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Compiler turns the .tex file at texPath into a PDF inside workDir.
type Compiler interface {
	Compile(ctx context.Context, workDir, texPath string) (string, error)
}

// RecordSource supplies the current resume snapshot.
type RecordSource interface {
	FetchRecord(ctx context.Context) domain.ResumeRecord
}

type ExportRequest struct {
	Format        Format
	Filename      string
	ExperienceIDs []string
	ProjectIDs    []string
	Settings      *domain.PartialSettings
}

// ExportResult is the encoded export payload. Content is base64 encoded when
// marshalled to JSON.
type ExportResult struct {
	Success      bool   `json:"success"`
	Format       Format `json:"format"`
	Filename     string `json:"filename"`
	Content      []byte `json:"content"`
	MimeType     string `json:"mime_type"`
	Message      string `json:"message"`
	ErrorDetails string `json:"error_details,omitempty"`
}

const maxErrorDetails = 4000

type Exporter struct {
	source   RecordSource
	compiler Compiler
	defaults domain.RenderSettings
	tmpDir   string
	logger   *slog.Logger
	metrics  *observability.Metrics
}

func NewExporter(source RecordSource, compiler Compiler, defaults domain.RenderSettings, tmpDir string, logger *slog.Logger, metrics *observability.Metrics) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		source:   source,
		compiler: compiler,
		defaults: defaults.Normalize(),
		tmpDir:   tmpDir,
		logger:   logger,
		metrics:  metrics,
	}
}

// Export fetches the current record and encodes it in the requested format.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if _, ok := formatFiles[req.Format]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}
	return e.ExportRecord(ctx, e.source.FetchRecord(ctx), req)
}

// Preview returns the unfiltered record.
func (e *Exporter) Preview(ctx context.Context) domain.ResumeRecord {
	return e.source.FetchRecord(ctx)
}

// ExportRecord encodes record without consulting the datastore. For PDF, a
// compile that cannot produce an artifact yields the LaTeX source with
// Success false rather than an error.
func (e *Exporter) ExportRecord(ctx context.Context, record domain.ResumeRecord, req ExportRequest) (*ExportResult, error) {
	if _, ok := formatFiles[req.Format]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}
	filtered := domain.Filter(record, req.ExperienceIDs, req.ProjectIDs)
	settings := req.Settings.Apply(e.defaults)
	base := baseName(req.Filename)

	var (
		res *ExportResult
		err error
	)
	switch req.Format {
	case FormatJSON:
		res, err = e.encodeJSON(filtered, base)
	case FormatLaTeX:
		res = e.success(FormatLaTeX, base, []byte(latex.Render(filtered, settings)))
	case FormatPDF:
		res, err = e.compile(ctx, latex.Render(filtered, settings), base)
	}
	if err != nil {
		e.metrics.ObserveExport(string(req.Format), "error")
		return nil, err
	}
	outcome := "success"
	if !res.Success {
		outcome = "fallback"
	}
	e.metrics.ObserveExport(string(req.Format), outcome)
	return res, nil
}

func (e *Exporter) encodeJSON(r domain.ResumeRecord, base string) (*ExportResult, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode resume json: %w", err)
	}
	return e.success(FormatJSON, base, bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func (e *Exporter) success(f Format, base string, content []byte) *ExportResult {
	file := formatFiles[f]
	return &ExportResult{
		Success:  true,
		Format:   f,
		Filename: base + file.ext,
		Content:  content,
		MimeType: file.mime,
		Message:  fmt.Sprintf("Resume exported successfully as %s", strings.ToUpper(string(f))),
	}
}

// compile writes src into a private working directory, runs the compiler and
// reads the artifact back. The directory is removed on every return path.
func (e *Exporter) compile(ctx context.Context, src, base string) (*ExportResult, error) {
	workDir, err := os.MkdirTemp(e.tmpDir, "resume-export-*")
	if err != nil {
		return nil, fmt.Errorf("create export workspace: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			e.logger.Error("failed to remove export workspace", "dir", workDir, "error", rmErr)
		}
	}()

	texPath := filepath.Join(workDir, "resume.tex")
	if err := os.WriteFile(texPath, []byte(src), 0o600); err != nil {
		return nil, fmt.Errorf("write document source: %w", err)
	}

	if e.compiler == nil {
		return e.fallback(src, base, domain.ErrCompilerNotFound, ""), nil
	}
	start := time.Now()
	pdfPath, err := e.compiler.Compile(ctx, workDir, texPath)
	e.metrics.ObserveCompile(time.Since(start))
	if err != nil {
		var ce *domain.CompilationError
		if !errors.As(err, &ce) {
			return nil, fmt.Errorf("compile document: %w", err)
		}
		e.logger.Warn("pdf compilation failed, returning latex source", "error", err)
		return e.fallback(src, base, ce.Cause, ce.LogOutput), nil
	}

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		e.logger.Warn("compiled pdf unreadable, returning latex source", "error", err)
		return e.fallback(src, base, domain.ErrNoArtifact, err.Error()), nil
	}
	return e.success(FormatPDF, base, pdf), nil
}

func (e *Exporter) fallback(src, base string, reason error, details string) *ExportResult {
	res := e.success(FormatLaTeX, base, []byte(src))
	res.Success = false
	switch {
	case errors.Is(reason, domain.ErrCompilerNotFound):
		res.Message = "pdflatex not found. Please install LaTeX to generate PDFs."
	case errors.Is(reason, domain.ErrCompileTimeout):
		res.Message = "PDF generation timed out. Returning LaTeX file instead."
	default:
		res.Message = "PDF generation failed. Returning LaTeX file instead."
	}
	if len(details) > maxErrorDetails {
		details = details[len(details)-maxErrorDetails:]
	}
	res.ErrorDetails = details
	return res
}

// baseName reduces a caller-supplied filename to a bare base name without
// directories or a known export extension.
func baseName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	for _, f := range formatFiles {
		name = strings.TrimSuffix(name, f.ext)
	}
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "resume"
	}
	return name
}
