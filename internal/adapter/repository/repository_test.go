package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-api/internal/observability"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestConvexQuery(t *testing.T) {
	var got convexQuery
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/query", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"success","value":{"name":"Jane"}}`))
	}))
	defer srv.Close()

	c := NewConvexClient(srv.URL+"/", time.Second, quiet)
	v, err := c.Query(context.Background(), FuncHeader)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Jane"}, v)
	assert.Equal(t, FuncHeader, got.Path)
	assert.Equal(t, "json", got.Format)
	assert.NotNil(t, got.Args)
}

func TestConvexQueryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","errorMessage":"Could not find function"}`))
	}))
	defer srv.Close()

	c := NewConvexClient(srv.URL, time.Second, quiet)
	_, err := c.Query(context.Background(), "resumeFunctions:nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not find function")
}

func TestConvexRetriesTransportErrors(t *testing.T) {
	c := NewConvexClient("http://127.0.0.1:1", time.Second, quiet)
	c.backoff = time.Millisecond
	var calls int32
	c.HTTP.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, errors.New("connection refused")
		}
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(`{"status":"success","value":[]}`)),
			Header:     http.Header{},
		}, nil
	})
	v, err := c.Query(context.Background(), FuncProjects)
	require.NoError(t, err)
	assert.Equal(t, []any{}, v)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

type fakeQuerier struct {
	values map[string]any
	fail   map[string]bool
}

func (f *fakeQuerier) Query(_ context.Context, fn string) (any, error) {
	if f.fail[fn] {
		return nil, errors.New("boom")
	}
	return f.values[fn], nil
}

func TestFetchRecordSubstitutesFailedSections(t *testing.T) {
	q := &fakeQuerier{
		values: map[string]any{
			FuncHeader:     map[string]any{"name": "Jane"},
			FuncExperience: []any{map[string]any{"_id": "e1", "title": "Acme"}},
		},
		fail: map[string]bool{FuncEducation: true, FuncProjects: true},
	}
	m := observability.NewMetrics()
	r := NewResumeRepository(q, quiet, m).FetchRecord(context.Background())

	assert.Equal(t, "Jane", r.Header.Name)
	require.Len(t, r.Experience, 1)
	assert.Equal(t, "e1", r.Experience[0].ID)
	assert.True(t, r.Education.IsZero())
	assert.NotNil(t, r.Projects)
	assert.Empty(t, r.Projects)
}

func TestExperiencesSurfacesErrors(t *testing.T) {
	q := &fakeQuerier{fail: map[string]bool{FuncExperience: true}}
	_, err := NewResumeRepository(q, quiet, nil).Experiences(context.Background())
	assert.Error(t, err)
}

type fakeRow struct {
	raw []byte
	err error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.raw
	return nil
}

type fakeDB struct {
	sql []string
	raw []byte
}

func (d *fakeDB) QueryRow(_ context.Context, sql string, _ ...interface{}) pgx.Row {
	d.sql = append(d.sql, sql)
	return fakeRow{raw: d.raw}
}

func TestPostgresQuerier(t *testing.T) {
	db := &fakeDB{raw: []byte(`[{"_id":"e1","title":"Acme"}]`)}
	q := NewPostgresQuerier(db)

	v, err := q.Query(context.Background(), FuncExperience)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"_id": "e1", "title": "Acme"}}, v)
	require.Len(t, db.sql, 1)
	assert.Contains(t, db.sql[0], "FROM resume_experience")
	assert.Contains(t, db.sql[0], "jsonb_build_object('_id', id)")

	_, err = q.Query(context.Background(), "resumeFunctions:unknown")
	assert.Error(t, err)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestIsPostgresURL(t *testing.T) {
	assert.True(t, IsPostgresURL("postgres://u:p@db:5432/resume"))
	assert.True(t, IsPostgresURL("PostgreSQL://db/resume"))
	assert.False(t, IsPostgresURL("https://happy-otter-123.convex.cloud"))
	assert.False(t, IsPostgresURL(""))
}
