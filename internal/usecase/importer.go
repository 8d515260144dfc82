package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"resume-api/internal/domain"
	"resume-api/internal/model"
	"resume-api/internal/parsing"
)

const maxDocumentBytes = 10 << 20

// ResumeExtractor structures plain resume text into a raw resume document.
type ResumeExtractor interface {
	ExtractResume(ctx context.Context, text string) (map[string]interface{}, error)
}

// Importer turns uploaded resume files into resume records.
type Importer struct {
	extractor ResumeExtractor
	http      *http.Client
	logger    *slog.Logger
	now       func() time.Time
}

func NewImporter(extractor ResumeExtractor, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		extractor: extractor,
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
		now:       time.Now,
	}
}

// Parse extracts a record from a PDF or DOCX payload. The record's
// lastUpdated is set to the current month.
func (i *Importer) Parse(ctx context.Context, fileName, fileType string, content []byte) (domain.ResumeRecord, error) {
	kind, err := parsing.DetectKind(fileName, fileType)
	if err != nil {
		return domain.ResumeRecord{}, fmt.Errorf("%w: only PDF and DOCX are supported", ErrUnsupportedFileType)
	}
	text, err := parsing.ExtractText(kind, content)
	if err != nil {
		return domain.ResumeRecord{}, fmt.Errorf("extract %s text: %w", kind, err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.ResumeRecord{}, ErrEmptyDocument
	}
	i.logger.Info("extracted resume text", "kind", kind, "chars", len(text))

	raw, err := i.extractor.ExtractResume(ctx, text)
	if err != nil {
		return domain.ResumeRecord{}, fmt.Errorf("structure resume text: %w", err)
	}
	if problems, err := model.Validate(raw); err == nil && len(problems) > 0 {
		i.logger.Warn("parsed resume does not match schema", "problems", problems)
	}
	record := model.NewRecordFromMap(raw)
	record.Header.LastUpdated = i.now().Format("01/2006")
	return record, nil
}

// ParseURL downloads a document and parses it like an upload.
func (i *Importer) ParseURL(ctx context.Context, rawURL string) (domain.ResumeRecord, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.ResumeRecord{}, fmt.Errorf("%w: invalid document url", ErrUnsupportedFileType)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.ResumeRecord{}, err
	}
	resp, err := i.http.Do(req)
	if err != nil {
		return domain.ResumeRecord{}, fmt.Errorf("download document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.ResumeRecord{}, fmt.Errorf("download document: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return domain.ResumeRecord{}, fmt.Errorf("download document: %w", err)
	}
	if len(body) > maxDocumentBytes {
		return domain.ResumeRecord{}, errors.New("document exceeds 10 MiB")
	}
	return i.Parse(ctx, path.Base(u.Path), resp.Header.Get("Content-Type"), body)
}
