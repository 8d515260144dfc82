// Package repository reads resume sections from the configured datastore.
package repository

import "context"

// Datastore function names. The Postgres backend answers the same names.
const (
	FuncHeader     = "resumeFunctions:getHeader"
	FuncEducation  = "resumeFunctions:getEducation"
	FuncExperience = "resumeFunctions:getExperience"
	FuncProjects   = "resumeFunctions:getProjects"
)

// Querier runs a named read-only datastore function and returns its decoded
// JSON value.
type Querier interface {
	Query(ctx context.Context, function string) (any, error)
}
