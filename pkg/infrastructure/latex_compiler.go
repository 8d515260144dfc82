package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"resume-api/internal/domain"
)

const (
	DefaultCompileTimeout  = 30 * time.Second
	DefaultCompileAttempts = 2
)

// PdflatexCompiler runs a pdflatex-compatible binary over a .tex file.
type PdflatexCompiler struct {
	Binary   string
	Timeout  time.Duration
	Attempts int
	logger   *slog.Logger
}

func NewPdflatexCompiler(binary string, timeout time.Duration, attempts int, logger *slog.Logger) *PdflatexCompiler {
	if binary == "" {
		binary = "pdflatex"
	}
	if timeout <= 0 {
		timeout = DefaultCompileTimeout
	}
	if attempts <= 0 {
		attempts = DefaultCompileAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PdflatexCompiler{Binary: binary, Timeout: timeout, Attempts: attempts, logger: logger}
}

// Compile runs the compiler in workDir and returns the path of the produced
// PDF. Every attempt gets its own timeout; a timeout ends compilation
// without further attempts. Caller cancellation does not interrupt a
// running attempt.
func (c *PdflatexCompiler) Compile(ctx context.Context, workDir, texPath string) (string, error) {
	bin, err := exec.LookPath(c.Binary)
	if err != nil {
		return "", &domain.CompilationError{
			Message: fmt.Sprintf("%s not found. Please install LaTeX to generate PDFs.", c.Binary),
			Cause:   fmt.Errorf("%w: %v", domain.ErrCompilerNotFound, err),
		}
	}

	var log strings.Builder
	for attempt := 1; attempt <= c.Attempts; attempt++ {
		out, runErr := c.run(ctx, bin, workDir, texPath)
		log.WriteString(out)

		if errors.Is(runErr, context.DeadlineExceeded) {
			return "", &domain.CompilationError{
				Message:   fmt.Sprintf("attempt %d exceeded %s", attempt, c.Timeout),
				LogOutput: log.String(),
				Cause:     domain.ErrCompileTimeout,
			}
		}
		var execErr *exec.Error
		if errors.As(runErr, &execErr) {
			return "", &domain.CompilationError{
				Message: "compiler could not be started",
				Cause:   fmt.Errorf("%w: %v", domain.ErrCompilerNotFound, runErr),
			}
		}
		if runErr != nil {
			c.logger.Debug("compiler pass exited with error", "attempt", attempt, "error", runErr)
		}
	}

	pdfPath := filepath.Join(workDir, strings.TrimSuffix(filepath.Base(texPath), ".tex")+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", &domain.CompilationError{
			Message:   "PDF was not generated",
			LogOutput: log.String(),
			Cause:     domain.ErrNoArtifact,
		}
	}
	return pdfPath, nil
}

func (c *PdflatexCompiler) run(ctx context.Context, bin, workDir, texPath string) (string, error) {
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, bin, "-interaction=nonstopmode", "-output-directory", workDir, texPath)
	cmd.Dir = workDir
	cmd.WaitDelay = time.Second
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		err = context.DeadlineExceeded
	}
	return stdout.String() + stderr.String(), err
}
