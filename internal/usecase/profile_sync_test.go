package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-api/internal/domain"
)

type staticExperiences struct {
	entries []domain.ExperienceEntry
	err     error
}

func (s staticExperiences) Experiences(context.Context) ([]domain.ExperienceEntry, error) {
	return s.entries, s.err
}

type recordingUpdater struct {
	ok     bool
	action string
	got    []domain.ProfileExperience
}

func (u *recordingUpdater) PerformProfileUpdate(_ context.Context, action string, exp domain.ProfileExperience) bool {
	u.action = action
	u.got = append(u.got, exp)
	return u.ok
}

func syncEntries() []domain.ExperienceEntry {
	return []domain.ExperienceEntry{
		{ID: "a", Title: "Acme", Position: "Engineer", StartDate: "01/2022", EndDate: "Present", Description: "Built APIs."},
		{ID: "b", Title: "Globex", Position: "Software Intern", StartDate: "06/2021", EndDate: "08/2021", Highlights: []string{"Wrote tests"}},
	}
}

func newSync(u ProfileUpdater, src ExperienceSource) *ProfileSync {
	return NewProfileSync(src, quiet, nil, Site{Key: "linkedin", Name: "LinkedIn", Updater: u})
}

func ptr[T any](v T) *T { return &v }

func TestAddExperienceSelection(t *testing.T) {
	cases := []struct {
		name    string
		req     AddExperienceRequest
		company string
	}{
		{"default first", AddExperienceRequest{}, "Acme"},
		{"by index", AddExperienceRequest{ExperienceIndex: ptr(1)}, "Globex"},
		{"by id", AddExperienceRequest{ExperienceID: ptr("b")}, "Globex"},
		{"id wins over index", AddExperienceRequest{ExperienceID: ptr("a"), ExperienceIndex: ptr(1)}, "Acme"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := &recordingUpdater{ok: true}
			res, err := newSync(u, staticExperiences{entries: syncEntries()}).AddExperience(context.Background(), "linkedin", tc.req)
			require.NoError(t, err)
			assert.True(t, res.Success)
			require.Len(t, u.got, 1)
			assert.Equal(t, tc.company, u.got[0].CompanyName)
			assert.Equal(t, "add", u.action)
		})
	}
}

func TestAddExperienceMapsForm(t *testing.T) {
	u := &recordingUpdater{ok: true}
	res, err := newSync(u, staticExperiences{entries: syncEntries()}).AddExperience(context.Background(), "linkedin", AddExperienceRequest{ExperienceIndex: ptr(0), Action: "EDIT"})
	require.NoError(t, err)
	assert.Equal(t, "edit", u.action)
	assert.Equal(t, "Engineer", res.Experience.Title)
	assert.True(t, res.Experience.CurrentlyWorkingHere)
	assert.Empty(t, res.Experience.EndDate)
	assert.Equal(t, "Successfully added experience 'Engineer at Acme' to LinkedIn profile", res.Message)

	res, err = newSync(u, staticExperiences{entries: syncEntries()}).AddExperience(context.Background(), "linkedin", AddExperienceRequest{ExperienceIndex: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, domain.EmploymentInternship, res.Experience.EmploymentType)
	assert.Equal(t, "08/2021", res.Experience.EndDate)
	assert.Equal(t, "Wrote tests", res.Experience.Description)
}

func TestAddExperienceErrors(t *testing.T) {
	cases := []struct {
		name string
		site string
		src  staticExperiences
		req  AddExperienceRequest
		want error
	}{
		{"unknown site", "myspace", staticExperiences{entries: syncEntries()}, AddExperienceRequest{}, ErrUnknownSite},
		{"bad action", "linkedin", staticExperiences{entries: syncEntries()}, AddExperienceRequest{Action: "delete"}, ErrUnsupportedAction},
		{"no entries", "linkedin", staticExperiences{}, AddExperienceRequest{}, ErrNoExperiences},
		{"missing id", "linkedin", staticExperiences{entries: syncEntries()}, AddExperienceRequest{ExperienceID: ptr("zzz")}, ErrExperienceNotFound},
		{"index too big", "linkedin", staticExperiences{entries: syncEntries()}, AddExperienceRequest{ExperienceIndex: ptr(2)}, ErrExperienceIndexRange},
		{"negative index", "linkedin", staticExperiences{entries: syncEntries()}, AddExperienceRequest{ExperienceIndex: ptr(-1)}, ErrExperienceIndexRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := &recordingUpdater{ok: true}
			_, err := newSync(u, tc.src).AddExperience(context.Background(), tc.site, tc.req)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Empty(t, u.got)
		})
	}
}

func TestAddExperienceSourceError(t *testing.T) {
	boom := errors.New("datastore down")
	_, err := newSync(&recordingUpdater{}, staticExperiences{err: boom}).AddExperience(context.Background(), "linkedin", AddExperienceRequest{})
	assert.ErrorIs(t, err, boom)
}

func TestAddExperienceUpdaterFailure(t *testing.T) {
	u := &recordingUpdater{ok: false}
	res, err := newSync(u, staticExperiences{entries: syncEntries()}).AddExperience(context.Background(), "linkedin", AddExperienceRequest{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to add experience 'Engineer at Acme' to LinkedIn profile", res.Message)
}
