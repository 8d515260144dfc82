package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
)

// Row is the single-row query surface of pgxpool.Pool.
type Row interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const (
	singleDocSQL = `SELECT coalesce((SELECT data FROM %s LIMIT 1), '{}'::jsonb)`
	listDocsSQL  = `SELECT coalesce(jsonb_agg(data || jsonb_build_object('_id', id) ORDER BY position, id), '[]'::jsonb) FROM %s`
)

// Each statement returns exactly one JSON value. List rows carry their id
// as _id so entries can be selected by identifier.
var postgresQueries = map[string]string{
	FuncHeader:     fmt.Sprintf(singleDocSQL, "resume_header"),
	FuncEducation:  fmt.Sprintf(singleDocSQL, "resume_education"),
	FuncExperience: fmt.Sprintf(listDocsSQL, "resume_experience"),
	FuncProjects:   fmt.Sprintf(listDocsSQL, "resume_projects"),
}

// PostgresQuerier answers datastore functions from the resume tables.
type PostgresQuerier struct {
	db Row
}

func NewPostgresQuerier(db Row) *PostgresQuerier {
	return &PostgresQuerier{db: db}
}

func (q *PostgresQuerier) Query(ctx context.Context, function string) (any, error) {
	sql, ok := postgresQueries[function]
	if !ok {
		return nil, fmt.Errorf("unknown datastore function %q", function)
	}
	v, err := queryJSON(ctx, q.db, sql)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", function, err)
	}
	return v, nil
}

// queryJSON runs a SQL that returns a single json value and unmarshals it.
func queryJSON(ctx context.Context, db Row, sql string, args ...interface{}) (interface{}, error) {
	var raw []byte
	if err := db.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
