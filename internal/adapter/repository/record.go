package repository

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"resume-api/internal/domain"
	"resume-api/internal/model"
	"resume-api/internal/observability"
)

// ResumeRepository assembles full resume records from a Querier.
type ResumeRepository struct {
	q       Querier
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewResumeRepository(q Querier, logger *slog.Logger, metrics *observability.Metrics) *ResumeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResumeRepository{q: q, logger: logger, metrics: metrics}
}

var sections = []struct {
	name     string
	function string
}{
	{"header", FuncHeader},
	{"education", FuncEducation},
	{"experience", FuncExperience},
	{"projects", FuncProjects},
}

// FetchRecord reads all four sections concurrently. A section whose query
// fails is logged and replaced by its empty default, so the result is always
// a complete record.
func (r *ResumeRepository) FetchRecord(ctx context.Context) domain.ResumeRecord {
	raw := make([]any, len(sections))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range sections {
		g.Go(func() error {
			v, err := r.q.Query(gctx, s.function)
			if err != nil {
				r.logger.Warn("datastore section unavailable, using empty default",
					"section", s.name, "error", err)
				r.metrics.SectionFailed(s.name)
				return nil
			}
			raw[i] = v
			return nil
		})
	}
	_ = g.Wait()

	doc := map[string]any{
		"header":     raw[0],
		"education":  raw[1],
		"experience": raw[2],
		"projects":   raw[3],
	}
	if problems, err := model.Validate(doc); err != nil {
		r.logger.Warn("schema validation skipped", "error", err)
	} else if len(problems) > 0 {
		r.logger.Warn("resume data does not match schema", "problems", problems)
	}
	return model.NewRecordFromMap(doc)
}

// Experiences returns the experience entries, surfacing datastore errors.
func (r *ResumeRepository) Experiences(ctx context.Context) ([]domain.ExperienceEntry, error) {
	v, err := r.q.Query(ctx, FuncExperience)
	if err != nil {
		return nil, fmt.Errorf("fetch experience: %w", err)
	}
	return model.NewExperience(v), nil
}
