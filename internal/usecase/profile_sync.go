package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"resume-api/internal/domain"
	"resume-api/internal/observability"
)

// ProfileUpdater fills one external profile form. It reports success only.
type ProfileUpdater interface {
	PerformProfileUpdate(ctx context.Context, action string, exp domain.ProfileExperience) bool
}

// ExperienceSource lists the experience entries available for syncing.
type ExperienceSource interface {
	Experiences(ctx context.Context) ([]domain.ExperienceEntry, error)
}

// Site describes a profile destination.
type Site struct {
	Key     string
	Name    string
	Updater ProfileUpdater
}

type AddExperienceRequest struct {
	ExperienceID    *string
	ExperienceIndex *int
	Action          string
}

type ProfileResult struct {
	Success    bool                     `json:"success"`
	Message    string                   `json:"message"`
	Experience domain.ProfileExperience `json:"experience"`
}

// ProfileSync pushes resume experience entries to external profiles.
type ProfileSync struct {
	source  ExperienceSource
	sites   map[string]Site
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewProfileSync(source ExperienceSource, logger *slog.Logger, metrics *observability.Metrics, sites ...Site) *ProfileSync {
	if logger == nil {
		logger = slog.Default()
	}
	m := make(map[string]Site, len(sites))
	for _, s := range sites {
		m[s.Key] = s
	}
	return &ProfileSync{source: source, sites: m, logger: logger, metrics: metrics}
}

// AddExperience selects one experience entry and hands it to the site's
// updater. An explicit id wins over an index; with neither, the first entry
// is used.
func (s *ProfileSync) AddExperience(ctx context.Context, siteKey string, req AddExperienceRequest) (*ProfileResult, error) {
	site, ok := s.sites[siteKey]
	if !ok || site.Updater == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSite, siteKey)
	}
	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action == "" {
		action = "add"
	}
	if action != "add" && action != "edit" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAction, req.Action)
	}

	entries, err := s.source.Experiences(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := selectExperience(entries, req.ExperienceID, req.ExperienceIndex)
	if err != nil {
		return nil, err
	}

	form := domain.NewProfileExperience(entry)
	s.logger.Info("starting profile update", "site", site.Key, "action", action, "position", form.Title, "company", form.CompanyName)
	ok = site.Updater.PerformProfileUpdate(ctx, action, form)
	s.metrics.ObserveProfileUpdate(site.Key, ok)

	label := form.Title
	if form.CompanyName != "" {
		label += " at " + form.CompanyName
	}
	res := &ProfileResult{Success: ok, Experience: form}
	if ok {
		res.Message = fmt.Sprintf("Successfully added experience '%s' to %s profile", label, site.Name)
	} else {
		res.Message = fmt.Sprintf("Failed to add experience '%s' to %s profile", label, site.Name)
	}
	return res, nil
}

func selectExperience(entries []domain.ExperienceEntry, id *string, index *int) (domain.ExperienceEntry, error) {
	if len(entries) == 0 {
		return domain.ExperienceEntry{}, ErrNoExperiences
	}
	switch {
	case id != nil && *id != "":
		for _, e := range entries {
			if e.ID == *id {
				return e, nil
			}
		}
		return domain.ExperienceEntry{}, fmt.Errorf("%w: id %s", ErrExperienceNotFound, *id)
	case index != nil:
		if *index < 0 || *index >= len(entries) {
			return domain.ExperienceEntry{}, fmt.Errorf("%w: %d (have %d)", ErrExperienceIndexRange, *index, len(entries))
		}
		return entries[*index], nil
	}
	return entries[0], nil
}
