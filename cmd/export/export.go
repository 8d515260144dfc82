package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	repo "resume-api/internal/adapter/repository"
	"resume-api/internal/config"
	"resume-api/internal/domain"
	"resume-api/internal/model"
	"resume-api/internal/usecase"
	infra "resume-api/pkg/infrastructure"
)

type exportFlags struct {
	format      string
	input       string
	out         string
	name        string
	compiler    string
	fontSize    int
	margins     float64
	lineSpacing float64
	compact     bool
	experiences []string
	projects    []string
	verbose     bool
}

func newExportCmd() *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the resume as pdf, latex or json",
		Long: `Export the resume as pdf, latex or json.

Examples:
  resume export --format latex --input resume.json --out ./build
  resume export --format pdf --experience exp1 --experience exp2 --compact
  resume export --format json --project ""   # no projects`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.format, "format", "pdf", "Output format: pdf, latex or json")
	cmd.Flags().StringVar(&f.input, "input", "", "Read the record from this JSON file instead of the datastore")
	cmd.Flags().StringVar(&f.out, "out", ".", "Output directory")
	cmd.Flags().StringVar(&f.name, "name", "resume", "Output base name")
	cmd.Flags().StringVar(&f.compiler, "compiler", "pdflatex", "LaTeX compiler binary")
	cmd.Flags().IntVar(&f.fontSize, "font-size", domain.DefaultFontSize, "Base font size in points (8-14)")
	cmd.Flags().Float64Var(&f.margins, "margins", domain.DefaultMargins, "Page margins in cm")
	cmd.Flags().Float64Var(&f.lineSpacing, "line-spacing", domain.DefaultLineSpacing, "Line spacing multiplier")
	cmd.Flags().BoolVar(&f.compact, "compact", false, "Use compact spacing")
	cmd.Flags().StringSliceVar(&f.experiences, "experience", nil, "Keep only these experience ids (repeatable)")
	cmd.Flags().StringSliceVar(&f.projects, "project", nil, "Keep only these project ids (repeatable)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log progress to stderr")
	return cmd
}

func runExport(cmd *cobra.Command, f exportFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	format, err := usecase.ParseFormat(f.format)
	if err != nil {
		return err
	}

	record, err := loadRecord(ctx, f.input, logger)
	if err != nil {
		return err
	}

	req := usecase.ExportRequest{
		Format:   format,
		Filename: f.name,
		Settings: settingsFromFlags(cmd, f),
	}
	if cmd.Flags().Changed("experience") {
		req.ExperienceIDs = nonEmpty(f.experiences)
	}
	if cmd.Flags().Changed("project") {
		req.ProjectIDs = nonEmpty(f.projects)
	}

	compiler := infra.NewPdflatexCompiler(f.compiler, 0, 0, logger)
	exporter := usecase.NewExporter(nil, compiler, domain.DefaultRenderSettings(), "", logger, nil)
	res, err := exporter.ExportRecord(ctx, record, req)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(f.out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(f.out, res.Filename)
	if err := os.WriteFile(path, res.Content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if !res.Success {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", res.Message)
		if res.ErrorDetails != "" && f.verbose {
			fmt.Fprintln(cmd.ErrOrStderr(), res.ErrorDetails)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func settingsFromFlags(cmd *cobra.Command, f exportFlags) *domain.PartialSettings {
	var p domain.PartialSettings
	if cmd.Flags().Changed("font-size") {
		p.FontSize = &f.fontSize
	}
	if cmd.Flags().Changed("margins") {
		p.Margins = &f.margins
	}
	if cmd.Flags().Changed("line-spacing") {
		p.LineSpacing = &f.lineSpacing
	}
	if cmd.Flags().Changed("compact") {
		p.CompactMode = &f.compact
	}
	return &p
}

// nonEmpty drops blank ids but always returns a non-nil slice, so an explicit
// empty flag selects nothing.
func nonEmpty(ids []string) []string {
	out := []string{}
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func loadRecord(ctx context.Context, input string, logger *slog.Logger) (domain.ResumeRecord, error) {
	if input == "" {
		return fetchRecord(ctx, logger)
	}
	var r io.Reader
	if input == "-" {
		r = os.Stdin
	} else {
		fh, err := os.Open(input)
		if err != nil {
			return domain.ResumeRecord{}, err
		}
		defer fh.Close()
		r = fh
	}
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return domain.ResumeRecord{}, fmt.Errorf("decode %s: %w", input, err)
	}
	if problems, err := model.Validate(raw); err == nil && len(problems) > 0 {
		logger.Warn("record does not match schema", "problems", problems)
	}
	return model.NewRecordFromMap(raw), nil
}

func fetchRecord(ctx context.Context, logger *slog.Logger) (domain.ResumeRecord, error) {
	cfg, err := config.Load()
	if err != nil {
		return domain.ResumeRecord{}, err
	}
	q, closeStore, err := repo.Open(ctx, cfg.Datastore.URL, cfg.Datastore.Timeout, logger)
	if err != nil {
		return domain.ResumeRecord{}, err
	}
	defer closeStore()
	return repo.NewResumeRepository(q, logger, nil).FetchRecord(ctx), nil
}
